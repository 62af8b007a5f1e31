package service

import (
	"context"
	"testing"
	"time"

	"polleria_backend/internal/auth/repository"
	"polleria_backend/platform/apperr"
	"polleria_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]repository.User)}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, name, email, passwordHash, role string) (repository.User, error) {
	u := repository.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]repository.User, error) {
	var out []repository.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService(store *fakeUserStore) *Service {
	return New(store, testAuthConfig{}, logger.New("development"))
}

func seedUser(t *testing.T, store *fakeUserStore, email, password string) repository.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := repository.User{ID: uuid.New(), Name: "Test", Email: email, PasswordHash: string(hash), Role: "staff"}
	store.users[email] = u
	return u
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "ana@polleria.mx", "correcthorse")
	svc := newTestService(store)

	session, err := svc.Login(context.Background(), "ana@polleria.mx", "correcthorse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Fatal("token already expired")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "ana@polleria.mx", "correcthorse")
	svc := newTestService(store)

	_, err := svc.Login(context.Background(), "ana@polleria.mx", "wrongpassword")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserStore())

	_, err := svc.Login(context.Background(), "nadie@polleria.mx", "whatever")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "ana@polleria.mx", "correcthorse")
	svc := newTestService(store)

	_, err := svc.CreateUser(context.Background(), "Ana", "ana@polleria.mx", "otherpassword", "staff")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestService(store)

	user, err := svc.CreateUser(context.Background(), "Ana", "ana@polleria.mx", "correcthorse", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.PasswordHash == "correcthorse" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correcthorse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}
