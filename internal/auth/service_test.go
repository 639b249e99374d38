package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/internal/users"
	pkgauth "github.com/flourhouse/bakery-backend/pkg/auth"
	"github.com/flourhouse/bakery-backend/pkg/config"
	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
	"github.com/flourhouse/bakery-backend/pkg/security"
)

func testJWTCfg() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "bakery", ExpirationMinutes: 30}
}

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type stubUserRepo struct {
	users     map[string]*models.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*models.User{}}
}

func (r *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return r }

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Email] = user
	return nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func TestRegisterMintsToken(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc, err := NewService(repo, testJWTCfg(), testPasswordCfg())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Casey@Example.com ",
		Password:  "hunter2hunter2",
		FirstName: "Casey",
		LastName:  "Nguyen",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if result.User.Email != "casey@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if result.User.Role != enums.RoleCustomer {
		t.Fatalf("expected customer role, got %s", result.User.Role)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg(), result.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("token user mismatch: %s vs %s", claims.UserID, result.User.ID)
	}

	stored := repo.users["casey@example.com"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if ok, _ := security.VerifyPassword("hunter2hunter2", stored.PasswordHash); !ok {
		t.Fatal("stored hash does not verify")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	svc, err := NewService(repo, testJWTCfg(), testPasswordCfg())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:    "casey@example.com",
		Password: "hunter2hunter2",
	})
	if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc, err := NewService(repo, testJWTCfg(), testPasswordCfg())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "casey@example.com",
		Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), "casey@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}

	if _, err := svc.Login(context.Background(), "casey@example.com", "wrong"); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}

	// Unknown email returns the same code so callers cannot probe accounts.
	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubUserRepo(), testJWTCfg(), testPasswordCfg())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Login(context.Background(), "", ""); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
