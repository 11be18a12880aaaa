package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/services"
)

func TestCreateTeamWithCaptain(t *testing.T) {
	ctx := context.Background()

	t.Run("captain becomes a member in the same operation", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)

		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name:      "Falcons",
			CaptainID: captain.ID,
		})
		require.NoError(t, err)

		require.NotNil(t, team.CaptainID)
		assert.Equal(t, captain.ID, *team.CaptainID)
		assert.False(t, team.CreatedAt.IsZero())
		require.Len(t, team.Members, 1)
		assert.Equal(t, captain.ID, team.Members[0].UserID)
		assert.Equal(t, models.TeamRoleCaptain, team.Members[0].Role)
	})

	t.Run("empty name", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{CaptainID: 1})
		assert.ErrorIs(t, err, services.ErrTeamNameRequired)
	})

	t.Run("unknown captain", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name:      "Falcons",
			CaptainID: 777,
		})
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestUpdateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("captaincy transfer is persisted", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		successor, header, err := env.registerAndLogin(ctx, "Next", "next@test.com", "secret")
		require.NoError(t, err)
		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		require.NoError(t, err)

		updated, err := env.teamSv.UpdateTeam(ctx, team.ID, services.UpdateTeamInput{
			Name:      "Hawks",
			CaptainID: &successor.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CaptainID)
		assert.Equal(t, successor.ID, *updated.CaptainID)

		stored, err := env.teamSv.GetTeamByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hawks", stored.Name)
		require.NotNil(t, stored.CaptainID)
		assert.Equal(t, successor.ID, *stored.CaptainID)
	})

	t.Run("unknown new captain leaves the team untouched", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		missing := 777
		_, err = env.teamSv.UpdateTeam(ctx, team.ID, services.UpdateTeamInput{
			Name:      "Hawks",
			CaptainID: &missing,
		})
		assert.ErrorIs(t, err, services.ErrUserNotFound)

		stored, err := env.teamSv.GetTeamByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Falcons", stored.Name)
		require.NotNil(t, stored.CaptainID)
		assert.Equal(t, captain.ID, *stored.CaptainID)
	})

	t.Run("unknown team", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.teamSv.UpdateTeam(ctx, 42, services.UpdateTeamInput{Name: "Hawks"})
		assert.ErrorIs(t, err, services.ErrTeamNotFound)
	})
}

func TestJoinTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("adds exactly one membership row", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		member, header, err := env.registerAndLogin(ctx, "Rep", "rep@test.com", "secret")
		require.NoError(t, err)

		joined, err := env.teamSv.JoinTeam(ctx, team.ID, header)
		require.NoError(t, err)
		require.Len(t, joined.Members, 2)

		record, err := env.members.GetByTeamAndUser(ctx, team.ID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TeamRoleRepresentative, record.Role)
	})

	t.Run("second join is a conflict", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		_, header, err := env.registerAndLogin(ctx, "Rep", "rep@test.com", "secret")
		require.NoError(t, err)

		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		require.NoError(t, err)

		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		assert.ErrorIs(t, err, services.ErrAlreadyMember)
	})

	t.Run("captain joining own team is a conflict", func(t *testing.T) {
		env := newTestEnv()

		captain, header, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		assert.ErrorIs(t, err, services.ErrAlreadyMember)
	})

	t.Run("unknown team", func(t *testing.T) {
		env := newTestEnv()

		_, header, err := env.registerAndLogin(ctx, "Rep", "rep@test.com", "secret")
		require.NoError(t, err)

		_, err = env.teamSv.JoinTeam(ctx, 404, header)
		assert.ErrorIs(t, err, services.ErrTeamNotFound)
	})

	t.Run("stale session", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.teamSv.JoinTeam(ctx, 1, "Bearer stale")
		assert.ErrorIs(t, err, services.ErrSessionExpired)
	})
}

func TestLeaveTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("member leaves, captain stays", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		member, header, err := env.registerAndLogin(ctx, "Rep", "rep@test.com", "secret")
		require.NoError(t, err)
		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		require.NoError(t, err)

		left, err := env.teamSv.LeaveTeam(ctx, team.ID, header)
		require.NoError(t, err)
		require.Len(t, left.Members, 1)
		assert.Equal(t, captain.ID, left.Members[0].UserID)

		exists, err := env.members.ExistsByTeamAndUser(ctx, team.ID, member.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("captain cannot leave without transferring captaincy", func(t *testing.T) {
		env := newTestEnv()

		captain, header, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		_, err = env.teamSv.LeaveTeam(ctx, team.ID, header)
		assert.ErrorIs(t, err, services.ErrCaptainMustTransfer)

		// Членство капитана не тронуто.
		exists, err := env.members.ExistsByTeamAndUser(ctx, team.ID, captain.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("non-member leave is a conflict", func(t *testing.T) {
		env := newTestEnv()

		captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		_, header, err := env.registerAndLogin(ctx, "Out", "out@test.com", "secret")
		require.NoError(t, err)

		_, err = env.teamSv.LeaveTeam(ctx, team.ID, header)
		assert.ErrorIs(t, err, services.ErrNotMember)
	})

	t.Run("former captain can leave after transfer", func(t *testing.T) {
		env := newTestEnv()

		captain, capHeader, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
		require.NoError(t, err)
		team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
			Name: "Falcons", CaptainID: captain.ID,
		})
		require.NoError(t, err)

		successor, header, err := env.registerAndLogin(ctx, "Next", "next@test.com", "secret")
		require.NoError(t, err)
		_, err = env.teamSv.JoinTeam(ctx, team.ID, header)
		require.NoError(t, err)

		_, err = env.teamSv.UpdateTeam(ctx, team.ID, services.UpdateTeamInput{
			Name:      team.Name,
			CaptainID: &successor.ID,
		})
		require.NoError(t, err)

		_, err = env.teamSv.LeaveTeam(ctx, team.ID, capHeader)
		require.NoError(t, err)
	})
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	captain, _, err := env.registerAndLogin(ctx, "Cap", "cap@test.com", "secret")
	require.NoError(t, err)
	team, err := env.teamSv.CreateTeamWithCaptain(ctx, services.CreateTeamInput{
		Name: "Falcons", CaptainID: captain.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.teamSv.DeleteTeam(ctx, team.ID))

	_, err = env.teamSv.GetTeamByID(ctx, team.ID)
	assert.ErrorIs(t, err, services.ErrTeamNotFound)

	// Записи членства удалены вместе с командой.
	members, err := env.members.ListByTeamID(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
