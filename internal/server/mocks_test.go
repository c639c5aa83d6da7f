package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pablodealeht/windowdeck/internal/auth"
	"github.com/pablodealeht/windowdeck/internal/config"
	"github.com/pablodealeht/windowdeck/internal/domain"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

// memUserRepo is an in-memory domain.UserRepository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, email, passwordHash, fullName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	for _, u := range r.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}

	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
	}
	r.users[user.ID] = user
	return &user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, userID uuid.UUID, email, fullName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != userID && u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}

	user.Email = email
	user.FullName = fullName
	r.users[userID] = user
	return &user, nil
}

func (r *memUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

type testEnv struct {
	srv   *Server
	repo  *memUserRepo
	auth  *auth.Service
	clock *clockwork.FakeClock
}

func newTestEnv(t *testing.T, checks ...HealthCheck) *testEnv {
	t.Helper()

	clock := clockwork.NewFakeClock()
	authSvc := auth.NewService(testJWTSecret, "windowdeck", "windowdeck-clients", clock)
	repo := newMemUserRepo()

	cfg := &config.Config{
		Port:             "0",
		CORSOrigin:       "http://localhost:4200",
		WSMaxConnections: 10,
		WSMaxPerIP:       5,
		WSConnRate:       100,
		WSConnBurst:      100,
	}

	return &testEnv{
		srv:   NewServer(cfg, authSvc, repo, nil, checks),
		repo:  repo,
		auth:  authSvc,
		clock: clock,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.echo.ServeHTTP(rec, req)
	return rec
}

// registerUser creates a user directly in the repo and returns a valid token.
func (e *testEnv) registerUser(t *testing.T, email string) (*domain.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("hunter2-hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user, err := e.repo.Create(context.Background(), email, hash, "Test User")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := e.auth.IssueToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return user, token
}
