package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/batoolr/reviewhub-backend/pkg/auth"
	"github.com/batoolr/reviewhub-backend/pkg/config"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	"github.com/batoolr/reviewhub-backend/pkg/enums"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail   map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:   map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "reviewhub-test",
		ExpirationMinutes: 30,
	}
}

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, fastPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     "tester",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		IsActive:     active,
	}
	repo.byEmail[email] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "tester@example.com", "correct-horse", true)

	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Tester@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user id %s", resp.User.ID)
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user mismatch: %s", claims.UserID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("token role mismatch: %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "tester@example.com", "correct-horse", true)

	svc, _ := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "tester@example.com", Password: "wrong"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "missing@example.com", Password: "whatever"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "frozen@example.com", "correct-horse", false)

	svc, _ := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "frozen@example.com", Password: "correct-horse"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}
