package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
	"github.com/travhouse/communitybot/internal/services/review"
	statussvc "github.com/travhouse/communitybot/internal/services/status"
	"github.com/travhouse/communitybot/internal/services/webauth"
)

const recentApplicationsLimit = 10

type ApplicationStore interface {
	Counts(ctx context.Context) (model.ApplicationCounts, error)
	ListRecent(ctx context.Context, limit int) ([]model.Application, error)
}

type Dependencies struct {
	Auth         *webauth.Service
	Review       *review.Service
	Status       *statussvc.Service
	Applications ApplicationStore
	Logger       *zap.Logger
}

type Handlers struct {
	auth   *webauth.Service
	review *review.Service
	status *statussvc.Service
	store  ApplicationStore
	logger *zap.Logger
}

func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		auth:   deps.Auth,
		review: deps.Review,
		status: deps.Status,
		store:  deps.Applications,
		logger: deps.Logger,
	}
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	h := NewHandlers(deps)
	pageMW := SessionMiddleware(deps.Auth, deps.Logger, false)
	apiMW := SessionMiddleware(deps.Auth, deps.Logger, true)

	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Get("/logout", h.Logout)

	r.With(pageMW).Get("/", h.Dashboard)
	r.With(pageMW).Get("/approve/{id}", h.Approve)
	r.With(pageMW).Get("/reject/{id}", h.Reject)

	r.With(apiMW).Get("/api/stats", h.APIStats)
	r.With(apiMW).Get("/api/applications", h.APIApplications)
	r.Get("/api/status", h.APIStatus)
}

type loginData struct {
	Error string
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if _, err := h.auth.Validate(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}
	h.renderLogin(w, loginData{})
}

func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, loginData{Error: "Некорректный запрос"})
		return
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if errors.Is(err, webauth.ErrUnauthorized) {
		h.renderLogin(w, loginData{Error: "Неверный логин или пароль"})
		return
	}
	if errors.Is(err, webauth.ErrUnavailable) {
		h.renderLogin(w, loginData{Error: "Вход временно недоступен"})
		return
	}
	if err != nil {
		h.logger.Error("panel login", zap.Error(err))
		h.renderLogin(w, loginData{Error: "Внутренняя ошибка, попробуйте позже"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil && !errors.Is(err, webauth.ErrUnavailable) {
			h.logger.Warn("panel logout", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

type applicationView struct {
	ID          string
	Name        string
	Nickname    string
	Age         string
	Telegram    string
	Pending     bool
	StatusLabel string
}

type dashboardData struct {
	Stats        model.ApplicationCounts
	Applications []applicationView
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Counts(r.Context())
	if err != nil {
		h.logger.Error("load application counts", zap.Error(err))
		http.Error(w, "внутренняя ошибка", http.StatusInternalServerError)
		return
	}

	apps, err := h.store.ListRecent(r.Context(), recentApplicationsLimit)
	if err != nil {
		h.logger.Error("list recent applications", zap.Error(err))
		http.Error(w, "внутренняя ошибка", http.StatusInternalServerError)
		return
	}

	views := make([]applicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, newApplicationView(app))
	}

	if err := dashboardTemplate.Execute(w, dashboardData{Stats: counts, Applications: views}); err != nil {
		h.logger.Error("render dashboard", zap.Error(err))
	}
}

func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, enums.DecisionApprove)
}

func (h *Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, enums.DecisionReject)
}

// decide invokes the shared review coordinator. A conflict means a
// reviewer got there first; the dashboard reload will show the
// terminal status, so both outcomes end in the same redirect.
func (h *Handlers) decide(w http.ResponseWriter, r *http.Request, decision enums.Decision) {
	applicationID := chi.URLParam(r, "id")

	result, err := h.review.DecidePanel(r.Context(), applicationID, decision)
	switch {
	case errors.Is(err, review.ErrApplicationNotFound):
		h.logger.Info("panel decision for unknown application", zap.String("application_id", applicationID))
	case err != nil:
		h.logger.Error("panel decision", zap.Error(err), zap.String("application_id", applicationID))
	case result.Conflict:
		h.logger.Info("panel decision lost to a reviewer",
			zap.String("application_id", applicationID),
			zap.Int64("decided_by", result.DecidedBy),
		)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

type statsDTO struct {
	Total    int64 `json:"total_applications"`
	Pending  int64 `json:"pending_applications"`
	Approved int64 `json:"approved_applications"`
	Rejected int64 `json:"rejected_applications"`
}

func (h *Handlers) APIStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Counts(r.Context())
	if err != nil {
		h.logger.Error("load application counts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, statsDTO{
		Total:    counts.Total,
		Pending:  counts.Pending,
		Approved: counts.Approved,
		Rejected: counts.Rejected,
	})
}

type applicationDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	Age       int       `json:"age"`
	Telegram  string    `json:"telegram"`
	Timezone  string    `json:"timezone,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) APIApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListRecent(r.Context(), recentApplicationsLimit)
	if err != nil {
		h.logger.Error("list recent applications", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to load applications")
		return
	}

	dtos := make([]applicationDTO, 0, len(apps))
	for _, app := range apps {
		dtos = append(dtos, applicationDTO{
			ID:        app.ID,
			Name:      app.Name,
			Nickname:  app.Nickname,
			Age:       app.Age,
			Telegram:  app.Telegram,
			Timezone:  app.Timezone,
			Platform:  app.Platform,
			Status:    string(app.Status),
			CreatedAt: app.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"applications": dtos})
}

type statusDTO struct {
	Online      int       `json:"online"`
	MaxPlayers  int       `json:"max_players"`
	Players     []string  `json:"players"`
	Version     string    `json:"version"`
	Uptime      string    `json:"uptime"`
	TPS         float64   `json:"tps"`
	Performance string    `json:"performance"`
	Stale       bool      `json:"stale"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// APIStatus is unauthenticated: the public site dashboard polls it.
func (h *Handlers) APIStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.status.CurrentStatus(r.Context())

	writeJSON(w, http.StatusOK, statusDTO{
		Online:      snapshot.Online,
		MaxPlayers:  snapshot.MaxPlayers,
		Players:     snapshot.Players,
		Version:     snapshot.Version,
		Uptime:      snapshot.Uptime,
		TPS:         snapshot.TPS,
		Performance: string(snapshot.Performance),
		Stale:       snapshot.Stale,
		FetchedAt:   snapshot.FetchedAt,
	})
}

func (h *Handlers) renderLogin(w http.ResponseWriter, data loginData) {
	if err := loginTemplate.Execute(w, data); err != nil {
		h.logger.Error("render login page", zap.Error(err))
	}
}

func newApplicationView(app model.Application) applicationView {
	age := "возраст не указан"
	if app.Age > 0 {
		age = fmt.Sprintf("%d лет", app.Age)
	}

	telegram := strings.TrimSpace(app.Telegram)
	if telegram == "" {
		telegram = "без контакта"
	}

	view := applicationView{
		ID:       app.ID,
		Name:     app.Name,
		Nickname: app.Nickname,
		Age:      age,
		Telegram: telegram,
		Pending:  app.Status == enums.StatusPending,
	}

	switch app.Status {
	case enums.StatusApproved:
		view.StatusLabel = "Одобрена"
	case enums.StatusRejected:
		view.StatusLabel = "Отклонена"
	default:
		view.StatusLabel = "Ожидает"
	}

	return view
}
