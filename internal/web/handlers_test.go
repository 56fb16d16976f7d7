package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
	"github.com/travhouse/communitybot/internal/services/review"
	statussvc "github.com/travhouse/communitybot/internal/services/status"
	"github.com/travhouse/communitybot/internal/services/webauth"
)

type memApplications struct {
	mu   sync.Mutex
	apps map[string]*model.Application
}

func newMemApplications(apps ...model.Application) *memApplications {
	s := &memApplications{apps: map[string]*model.Application{}}
	for i := range apps {
		app := apps[i]
		s.apps[app.ID] = &app
	}
	return s
}

func (s *memApplications) GetByID(_ context.Context, id string) (model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return model.Application{}, pgrepo.ErrApplicationNotFound
	}
	return *app, nil
}

func (s *memApplications) SetDecision(_ context.Context, id string, reviewerTGID int64, decision enums.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return pgrepo.ErrApplicationNotFound
	}
	if app.Status != enums.StatusPending {
		return pgrepo.ErrAlreadyDecided
	}
	now := time.Now().UTC()
	app.Status = decision.Status()
	app.DecidedBy = &reviewerTGID
	app.DecidedAt = &now
	return nil
}

func (s *memApplications) Counts(_ context.Context) (model.ApplicationCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := model.ApplicationCounts{}
	for _, app := range s.apps {
		counts.Total++
		switch app.Status {
		case enums.StatusPending:
			counts.Pending++
		case enums.StatusApproved:
			counts.Approved++
		case enums.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (s *memApplications) ListRecent(_ context.Context, limit int) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := make([]model.Application, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, *app)
	}
	if len(apps) > limit {
		apps = apps[:limit]
	}
	return apps, nil
}

type memSessions struct {
	mu      sync.Mutex
	entries map[uuid.UUID]string
}

func (s *memSessions) Create(_ context.Context, sid uuid.UUID, username string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = map[uuid.UUID]string{}
	}
	s.entries[sid] = username
	return nil
}

func (s *memSessions) Touch(_ context.Context, sid uuid.UUID, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.entries[sid]
	if !ok {
		return "", pgrepo.ErrPanelSessionNotFound
	}
	return username, nil
}

func (s *memSessions) Revoke(_ context.Context, sid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

type allowAll struct{}

func (allowAll) IsReviewer(int64) bool { return true }

func newTestRouter(t *testing.T, store *memApplications) http.Handler {
	t.Helper()

	hash, err := webauth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	auth := webauth.NewService("admin", hash, "test-secret", 30*time.Minute, &memSessions{})

	r := chi.NewRouter()
	RegisterRoutes(r, Dependencies{
		Auth:         auth,
		Review:       review.NewService(store, allowAll{}, nil),
		Status:       statussvc.NewService(nil, nil, time.Second, time.Minute, nil),
		Applications: store,
		Logger:       zap.NewNop(),
	})
	return r
}

func loginCookie(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {"admin"}, "password": {"s3cret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got %d", rec.Code)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("login must set the session cookie")
	return nil
}

func pendingApp(id string) model.Application {
	return model.Application{
		ID:        id,
		Name:      "Ann",
		Nickname:  "Annie",
		Age:       17,
		Telegram:  "@ann",
		Status:    enums.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	router := newTestRouter(t, newMemApplications())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestAPIStatsRequiresSession(t *testing.T) {
	router := newTestRouter(t, newMemApplications())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var payload apiError
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected error code: %s", payload.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router := newTestRouter(t, newMemApplications())

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("bad login must re-render the form, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Неверный логин или пароль") {
		t.Fatalf("bad login must show an error")
	}
}

func TestDashboardShowsApplications(t *testing.T) {
	store := newMemApplications(pendingApp("11111111-1111-1111-1111-111111111111"))
	router := newTestRouter(t, store)
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Annie") || !strings.Contains(body, "Одобрить") {
		t.Fatalf("dashboard must list pending applications:\n%s", body)
	}
}

func TestApproveDecidesThroughCoordinator(t *testing.T) {
	const id = "11111111-1111-1111-1111-111111111111"
	store := newMemApplications(pendingApp(id))
	router := newTestRouter(t, store)
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodGet, "/approve/"+id, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect after decision, got %d", rec.Code)
	}

	app, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load application: %v", err)
	}
	if app.Status != enums.StatusApproved {
		t.Fatalf("application must be approved, got %s", app.Status)
	}
	if app.DecidedBy == nil || *app.DecidedBy != review.PanelActorID {
		t.Fatalf("panel decision must record the panel actor")
	}
}

func TestRejectLosesToEarlierDecision(t *testing.T) {
	const id = "22222222-2222-2222-2222-222222222222"
	app := pendingApp(id)
	decider := int64(10)
	now := time.Now().UTC()
	app.Status = enums.StatusApproved
	app.DecidedBy = &decider
	app.DecidedAt = &now

	store := newMemApplications(app)
	router := newTestRouter(t, store)
	cookie := loginCookie(t, router)

	req := httptest.NewRequest(http.MethodGet, "/reject/"+id, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("a lost decision still redirects, got %d", rec.Code)
	}

	got, _ := store.GetByID(context.Background(), id)
	if got.Status != enums.StatusApproved || *got.DecidedBy != 10 {
		t.Fatalf("losing panel decision must not overwrite the winner: %+v", got)
	}
}

func TestAPIStatusIsPublicAndWellFormed(t *testing.T) {
	router := newTestRouter(t, newMemApplications())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload statusDTO
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode status payload: %v", err)
	}
	if payload.MaxPlayers == 0 || payload.Version == "" {
		t.Fatalf("fallback status must be well formed: %+v", payload)
	}
	if !payload.Stale {
		t.Fatalf("fallback status must be marked stale")
	}
	if payload.Players == nil {
		t.Fatalf("players must be a list, not null")
	}
}
