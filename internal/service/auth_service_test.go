package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/service"
	"declara/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-for-auth-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "declara-test",
	}
}

func newAuthService() (service.AuthService, *mocks.MockUserRepo, *mocks.MockTenantRepo) {
	userRepo := new(mocks.MockUserRepo)
	tenantRepo := new(mocks.MockTenantRepo)
	return service.NewAuthService(userRepo, tenantRepo, testJWTConfig()), userRepo, tenantRepo
}

func activeTenant() *domain.Tenant {
	return &domain.Tenant{ID: testTenantID, Name: "Test Broker", Slug: "test-broker", IsActive: true}
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.User{
		ID:           testUserID,
		TenantID:     testTenantID,
		Email:        "ops@test-broker.example",
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		IsActive:     true,
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, userRepo, tenantRepo := newAuthService()
	user := activeUser(t, "correct-horse-battery")

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(activeTenant(), nil)
	userRepo.On("GetByEmail", mock.Anything, testTenantID, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      user.Email,
		Password:   "correct-horse-battery",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, testTenantID, claims.TenantID)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, domain.RoleMember, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, tenantRepo := newAuthService()
	user := activeUser(t, "correct-horse-battery")

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(activeTenant(), nil)
	userRepo.On("GetByEmail", mock.Anything, testTenantID, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      user.Email,
		Password:   "wrong-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownTenant(t *testing.T) {
	svc, _, tenantRepo := newAuthService()

	tenantRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "nope",
		Email:      "a@b.example",
		Password:   "whatever-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveTenant(t *testing.T) {
	svc, _, tenantRepo := newAuthService()
	tenant := activeTenant()
	tenant.IsActive = false

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(tenant, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      "a@b.example",
		Password:   "whatever-password",
	})

	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, userRepo, tenantRepo := newAuthService()
	user := activeUser(t, "correct-horse-battery")
	user.IsActive = false

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(activeTenant(), nil)
	userRepo.On("GetByEmail", mock.Anything, testTenantID, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      user.Email,
		Password:   "correct-horse-battery",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	svc, userRepo, tenantRepo := newAuthService()
	user := activeUser(t, "correct-horse-battery")

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(activeTenant(), nil)
	userRepo.On("GetByEmail", mock.Anything, testTenantID, user.Email).Return(user, nil)
	userRepo.On("GetByID", mock.Anything, testTenantID, testUserID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      user.Email,
		Password:   "correct-horse-battery",
	})
	assert.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), pair.RefreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	claims, err := svc.ValidateToken(rotated.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, userRepo, tenantRepo := newAuthService()
	user := activeUser(t, "correct-horse-battery")

	tenantRepo.On("GetBySlug", mock.Anything, "test-broker").Return(activeTenant(), nil)
	userRepo.On("GetByEmail", mock.Anything, testTenantID, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		TenantSlug: "test-broker",
		Email:      user.Email,
		Password:   "correct-horse-battery",
	})
	assert.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.ValidateToken("not.a.jwt")

	assert.Error(t, err)
}
