package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/services"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns default PLAYER role and hides password", func(t *testing.T) {
		env := newTestEnv()

		user, err := env.auth.Register(ctx, services.RegisterInput{
			Name:     "Ivan",
			Email:    "ivan@test.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		require.Len(t, user.Roles, 1)
		assert.Equal(t, models.RolePlayer, user.Roles[0].Name)
		assert.Empty(t, user.PasswordHash)
		assert.NotNil(t, user.AvatarURL)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.auth.Register(ctx, services.RegisterInput{
			Name: "First", Email: "dup@test.com", Password: "pw1",
		})
		require.NoError(t, err)

		_, err = env.auth.Register(ctx, services.RegisterInput{
			Name: "Second", Email: "dup@test.com", Password: "pw2",
		})
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("token resolves back to the same user", func(t *testing.T) {
		env := newTestEnv()

		registered, header, err := env.registerAndLogin(ctx, "Anna", "anna@test.com", "secret")
		require.NoError(t, err)

		current, err := env.auth.CurrentUser(ctx, header)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, current.ID)
		assert.Equal(t, "anna@test.com", current.Email)
		assert.Empty(t, current.PasswordHash)
	})

	t.Run("two logins produce distinct tokens", func(t *testing.T) {
		env := newTestEnv()

		_, _, err := env.registerAndLogin(ctx, "Anna", "anna@test.com", "secret")
		require.NoError(t, err)

		first, err := env.auth.Login(ctx, services.LoginInput{Email: "anna@test.com", Password: "secret"})
		require.NoError(t, err)
		second, err := env.auth.Login(ctx, services.LoginInput{Email: "anna@test.com", Password: "secret"})
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv()

		_, _, err := env.registerAndLogin(ctx, "Anna", "anna@test.com", "secret")
		require.NoError(t, err)

		_, err = env.auth.Login(ctx, services.LoginInput{Email: "anna@test.com", Password: "wrong"})
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.auth.Login(ctx, services.LoginInput{Email: "nobody@test.com", Password: "whatever"})
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("login records a notification", func(t *testing.T) {
		env := newTestEnv()

		user, _, err := env.registerAndLogin(ctx, "Anna", "anna@test.com", "secret")
		require.NoError(t, err)

		notifications, err := env.notifications.ListByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "Успешная авторизация", notifications[0].Topic)
		assert.False(t, notifications[0].IsRead)
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bearer prefix", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.auth.CurrentUser(ctx, "Basic abcdef")
		assert.ErrorIs(t, err, services.ErrInvalidToken)

		_, err = env.auth.CurrentUser(ctx, "")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.auth.CurrentUser(ctx, "Bearer deadbeef")
		assert.ErrorIs(t, err, services.ErrSessionExpired)
	})

	t.Run("session of a deleted user is evicted", func(t *testing.T) {
		env := newTestEnv()

		user, header, err := env.registerAndLogin(ctx, "Gone", "gone@test.com", "secret")
		require.NoError(t, err)

		require.NoError(t, env.user.DeleteUser(ctx, user.ID))

		_, err = env.auth.CurrentUser(ctx, header)
		assert.ErrorIs(t, err, services.ErrSessionExpired)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	_, header, err := env.registerAndLogin(ctx, "Olya", "olya@test.com", "secret")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, header))

	_, err = env.auth.CurrentUser(ctx, header)
	assert.ErrorIs(t, err, services.ErrSessionExpired)

	// Logout с невалидным заголовком возвращает ошибку токена.
	assert.ErrorIs(t, env.auth.Logout(ctx, "no-scheme"), services.ErrInvalidToken)
}
