package services_test

import (
	"context"
	"io"
	"time"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/repositories"
	"github.com/Dosada05/sport-events/services"
	"github.com/Dosada05/sport-events/storage"
)

// Фейки репозиториев держат всё в памяти. Транзакционный раннер просто
// вызывает функцию с nil-исполнителем: репозитории в тестах не различают
// транзакционный и обычный вызовы.

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) bool   { return hash == "hashed:"+password }

// --- users ---

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role models.RoleName) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		for _, ur := range u.Roles {
			if ur.Name == role {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// --- roles ---

type fakeRoleRepo struct {
	roles       map[int]models.Role
	assignments map[int][]int // userID -> roleIDs
}

func newFakeRoleRepo() *fakeRoleRepo {
	r := &fakeRoleRepo{
		roles:       make(map[int]models.Role),
		assignments: make(map[int][]int),
	}
	for i, name := range []models.RoleName{
		models.RoleAdmin, models.RoleOrganizer, models.RoleReferee,
		models.RolePlayer, models.RoleSpectator,
	} {
		r.roles[i+1] = models.Role{ID: i + 1, Name: name}
	}
	return r
}

func (r *fakeRoleRepo) GetByID(ctx context.Context, id int) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, repositories.ErrRoleNotFound
	}
	return &role, nil
}

func (r *fakeRoleRepo) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			copied := role
			return &copied, nil
		}
	}
	return nil, repositories.ErrRoleNotFound
}

func (r *fakeRoleRepo) ListByUserID(ctx context.Context, userID int) ([]models.Role, error) {
	var out []models.Role
	for _, roleID := range r.assignments[userID] {
		out = append(out, r.roles[roleID])
	}
	return out, nil
}

func (r *fakeRoleRepo) AssignToUser(ctx context.Context, exec repositories.SQLExecutor, userID, roleID int) error {
	for _, existing := range r.assignments[userID] {
		if existing == roleID {
			return nil
		}
	}
	r.assignments[userID] = append(r.assignments[userID], roleID)
	return nil
}

func (r *fakeRoleRepo) RemoveFromUser(ctx context.Context, userID, roleID int) error {
	ids := r.assignments[userID]
	for i, existing := range ids {
		if existing == roleID {
			r.assignments[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrRoleAssignmentNotFound
}

func (r *fakeRoleRepo) RemoveAllFromUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	delete(r.assignments, userID)
	return nil
}

// --- teams ---

type fakeTeamRepo struct {
	nextID int
	teams  map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTeamRepo) ListByCaptainID(ctx context.Context, captainID int) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		if t.CaptainID != nil && *t.CaptainID == captainID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	stored, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	stored.Name = team.Name
	stored.LogoURL = team.LogoURL
	return nil
}

func (r *fakeTeamRepo) UpdateCaptain(ctx context.Context, exec repositories.SQLExecutor, teamID int, captainID *int) error {
	t, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.CaptainID = captainID
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) ClearCaptainForUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	for _, t := range r.teams {
		if t.CaptainID != nil && *t.CaptainID == userID {
			t.CaptainID = nil
		}
	}
	return nil
}

// --- team members ---

type fakeMemberRepo struct {
	nextID  int
	members map[int]*models.TeamMember
	users   *fakeUserRepo
}

func newFakeMemberRepo(users *fakeUserRepo) *fakeMemberRepo {
	return &fakeMemberRepo{nextID: 1, members: make(map[int]*models.TeamMember), users: users}
}

func (r *fakeMemberRepo) Create(ctx context.Context, exec repositories.SQLExecutor, member *models.TeamMember) error {
	for _, m := range r.members {
		if m.TeamID == member.TeamID && m.UserID == member.UserID {
			return repositories.ErrTeamMemberConflict
		}
	}
	member.ID = r.nextID
	r.nextID++
	stored := *member
	r.members[member.ID] = &stored
	return nil
}

func (r *fakeMemberRepo) GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	for _, m := range r.members {
		if m.TeamID == teamID && m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamMemberNotFound
}

func (r *fakeMemberRepo) ExistsByTeamAndUser(ctx context.Context, teamID, userID int) (bool, error) {
	_, err := r.GetByTeamAndUser(ctx, teamID, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeMemberRepo) ListByTeamID(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, m := range r.members {
		if m.TeamID == teamID {
			copied := *m
			if r.users != nil {
				if u, err := r.users.GetByID(ctx, m.UserID); err == nil {
					copied.User = u
				}
			}
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.members[id]; !ok {
		return repositories.ErrTeamMemberNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *fakeMemberRepo) DeleteByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	for id, m := range r.members {
		if m.TeamID == teamID {
			delete(r.members, id)
		}
	}
	return nil
}

func (r *fakeMemberRepo) DeleteByUserID(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	for id, m := range r.members {
		if m.UserID == userID {
			delete(r.members, id)
		}
	}
	return nil
}

// --- events ---

type fakeEventRepo struct {
	nextID int
	events map[int]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: make(map[int]*models.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = r.nextID
	r.nextID++
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) List(ctx context.Context) ([]models.Event, error) {
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEventRepo) ListBySportTypeID(ctx context.Context, sportTypeID int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.SportTypeID != nil && *e.SportTypeID == sportTypeID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByOrganizerID(ctx context.Context, organizerID int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.OrganizerID != nil && *e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByVenueID(ctx context.Context, venueID int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.VenueID != nil && *e.VenueID == venueID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByStartDateAfter(ctx context.Context, after time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.StartDate != nil && e.StartDate.After(after) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByStartDateBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.StartDate != nil && !e.StartDate.Before(from) && !e.StartDate.After(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) ClearOrganizerForUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	for _, e := range r.events {
		if e.OrganizerID != nil && *e.OrganizerID == userID {
			e.OrganizerID = nil
		}
	}
	return nil
}

// --- event rosters ---

type rosterKey struct {
	role    models.EventRosterRole
	eventID int
	userID  int
}

type fakeRosterRepo struct {
	entries map[rosterKey]bool
	users   *fakeUserRepo
}

func newFakeRosterRepo(users *fakeUserRepo) *fakeRosterRepo {
	return &fakeRosterRepo{entries: make(map[rosterKey]bool), users: users}
}

func (r *fakeRosterRepo) Add(ctx context.Context, exec repositories.SQLExecutor, role models.EventRosterRole, eventID, userID int) error {
	r.entries[rosterKey{role, eventID, userID}] = true
	return nil
}

func (r *fakeRosterRepo) Exists(ctx context.Context, role models.EventRosterRole, eventID, userID int) (bool, error) {
	return r.entries[rosterKey{role, eventID, userID}], nil
}

func (r *fakeRosterRepo) ListUsers(ctx context.Context, role models.EventRosterRole, eventID int) ([]models.User, error) {
	var out []models.User
	for key := range r.entries {
		if key.role == role && key.eventID == eventID {
			if u, err := r.users.GetByID(ctx, key.userID); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeRosterRepo) ClearForEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	for key := range r.entries {
		if key.eventID == eventID {
			delete(r.entries, key)
		}
	}
	return nil
}

func (r *fakeRosterRepo) RemoveUserFromAll(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	for key := range r.entries {
		if key.userID == userID {
			delete(r.entries, key)
		}
	}
	return nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	nextID        int
	notifications map[int]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1, notifications: make(map[int]*models.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = r.nextID
	r.nextID++
	stored := *notification
	r.notifications[notification.ID] = &stored
	return nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id int) error {
	n, ok := r.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) DeleteAllForUser(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	for id, n := range r.notifications {
		if n.UserID == userID {
			delete(r.notifications, id)
		}
	}
	return nil
}

// --- file uploads ---

type fakeUploader struct {
	uploaded []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{
		Key:      key,
		Location: "https://files.test/" + key,
	}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error { return nil }

func (u *fakeUploader) GetPublicURL(key string) string { return "https://files.test/" + key }

// testEnv связывает фейки и сервисы так же, как это делает main.
type testEnv struct {
	users         *fakeUserRepo
	roles         *fakeRoleRepo
	teams         *fakeTeamRepo
	members       *fakeMemberRepo
	events        *fakeEventRepo
	rosters       *fakeRosterRepo
	notifications *fakeNotificationRepo
	uploader      *fakeUploader
	sessions      *services.InMemorySessionStore

	auth   services.AuthService
	teamSv services.TeamService
	event  services.EventService
	user   services.UserService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         newFakeUserRepo(),
		roles:         newFakeRoleRepo(),
		teams:         newFakeTeamRepo(),
		notifications: newFakeNotificationRepo(),
		events:        newFakeEventRepo(),
		uploader:      &fakeUploader{},
		sessions:      services.NewInMemorySessionStore(),
	}
	env.members = newFakeMemberRepo(env.users)
	env.rosters = newFakeRosterRepo(env.users)

	tx := fakeTxRunner{}
	hasher := fakeHasher{}

	env.auth = services.NewAuthService(env.users, env.roles, env.notifications, env.sessions, hasher)
	env.teamSv = services.NewTeamService(tx, env.teams, env.members, env.users, env.auth)
	env.event = services.NewEventService(tx, env.events, env.rosters, env.users, env.auth, nil)
	env.user = services.NewUserService(
		tx, env.users, env.roles, env.teams, env.members,
		env.events, env.rosters, env.notifications, hasher, env.uploader,
	)
	return env
}

// registerAndLogin создаёт пользователя и возвращает его вместе с заголовком
// Authorization для активной сессии.
func (env *testEnv) registerAndLogin(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user, err := env.auth.Register(ctx, services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := env.auth.Login(ctx, services.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, "", err
	}
	return user, "Bearer " + token, nil
}
