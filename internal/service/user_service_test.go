package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
)

type userRepoMock struct {
	users       map[string]*models.User
	deactivated []string
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *userRepoMock) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "gen-1"
	}
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if u, ok := m.users[id]; ok {
		u.Active = false
	}
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := &userRepoMock{}
	audit := &auditWriterMock{}
	svc := NewUserService(repo, audit, nil, nil)

	user, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "piet",
		Password: "wachtwoord1",
		FullName: "Piet Peters",
		Role:     models.RoleDagelijks,
	}, testActor())
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.NotEqual(t, "wachtwoord1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("wachtwoord1")))

	perms := user.EffectivePermissions()
	assert.True(t, perms.Dagelijks)
	assert.True(t, perms.Statistieken)
	assert.False(t, perms.Students)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditResourceUser, audit.logs[0].Resource)
}

func TestUserServiceCreateDuplicateUsername(t *testing.T) {
	repo := &userRepoMock{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "piet", Active: true},
	}}
	svc := NewUserService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "piet",
		Password: "wachtwoord1",
		FullName: "Piet Peters",
		Role:     models.RoleAdmin,
	}, testActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateOverrides(t *testing.T) {
	repo := &userRepoMock{}
	svc := NewUserService(repo, nil, nil, nil)

	overrides := models.PermissionsForRole(models.RoleReports)
	overrides.Audit = true
	user, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username:    "kim",
		Password:    "wachtwoord1",
		FullName:    "Kim de Vries",
		Role:        models.RoleReports,
		Permissions: &overrides,
	}, testActor())
	require.NoError(t, err)

	perms := user.EffectivePermissions()
	assert.True(t, perms.Audit)
	assert.True(t, perms.Rapporten)
	assert.False(t, perms.Dagelijks)
}

func TestUserServiceUpdateRole(t *testing.T) {
	repo := &userRepoMock{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "piet", Role: models.RoleDagelijks, Active: true},
	}}
	svc := NewUserService(repo, nil, nil, nil)

	role := models.RoleFullAccess
	user, err := svc.Update(context.Background(), "u1", models.UpdateUserRequest{Role: &role}, testActor())
	require.NoError(t, err)
	assert.Equal(t, models.RoleFullAccess, user.Role)
	assert.True(t, user.EffectivePermissions().Statistieken)
}

func TestUserServiceDeleteDeactivates(t *testing.T) {
	repo := &userRepoMock{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "piet", Active: true},
	}}
	audit := &auditWriterMock{}
	svc := NewUserService(repo, audit, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1", testActor()))
	assert.Equal(t, []string{"u1"}, repo.deactivated)
	assert.False(t, repo.users["u1"].Active)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionDeleted, audit.logs[0].Action)
}
