package service_test

import (
	"context"
	"testing"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/apperrors"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/config"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(email, password, role string, active bool) uuid.UUID {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	id := uuid.New()
	r.users[id] = &model.User{
		ID: id, Email: email, Name: "Test User",
		PasswordHash: string(hash), Role: role, IsActive: active,
	}
	return id
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.IsActive = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newAuthFixture() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    168,
	}
	return service.NewAuthService(repo, cfg, nil), repo
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.add("owner@shop.test", "secret123", model.RoleAdmin, true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "owner@shop.test",
		Password: "secret123",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.add("owner@shop.test", "secret123", model.RoleAdmin, true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "owner@shop.test",
		Password: "wrong",
	}, "")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.add("gone@shop.test", "secret123", model.RoleStaff, false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "gone@shop.test",
		Password: "secret123",
	}, "")
	require.Error(t, err)
	// Same message as a wrong password, so callers cannot probe accounts.
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestRefresh_RotatesTokens(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.add("staff@shop.test", "secret123", model.RoleStaff, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "staff@shop.test",
		Password: "secret123",
	}, "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, repo := newAuthFixture()
	repo.add("owner@shop.test", "secret123", model.RoleAdmin, true)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "owner@shop.test",
		Name:     "Second Owner",
		Password: "secret456",
		Role:     model.RoleStaff,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestDeactivateUser_BlocksLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	adminID := repo.add("owner@shop.test", "secret123", model.RoleAdmin, true)
	staffID := repo.add("staff@shop.test", "secret123", model.RoleStaff, true)

	require.NoError(t, svc.DeactivateUser(context.Background(), staffID, adminID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "staff@shop.test",
		Password: "secret123",
	}, "")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestDeactivateUser_SelfRejected(t *testing.T) {
	svc, repo := newAuthFixture()
	adminID := repo.add("owner@shop.test", "secret123", model.RoleAdmin, true)

	err := svc.DeactivateUser(context.Background(), adminID, adminID)
	require.Error(t, err)
	assert.True(t, repo.users[adminID].IsActive)
}
