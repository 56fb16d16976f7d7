package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
)

var (
	ErrUnauthorized        = errors.New("actor is not a reviewer")
	ErrApplicationNotFound = errors.New("application not found")
)

type Store interface {
	GetByID(context.Context, string) (model.Application, error)
	SetDecision(context.Context, string, int64, enums.Decision) error
}

type Directory interface {
	IsReviewer(int64) bool
}

type Announcer interface {
	AnnounceOutcome(context.Context, model.Application) (int, error)
}

type Service struct {
	store     Store
	directory Directory
	announcer Announcer
}

func NewService(store Store, dir Directory, announcer Announcer) *Service {
	return &Service{
		store:     store,
		directory: dir,
		announcer: announcer,
	}
}

type DecideInput struct {
	ActorTGID     int64
	ApplicationID string
	Decision      enums.Decision
}

type DecideResult struct {
	Application model.Application
	// Conflict is set when another reviewer decided first. DecidedBy then
	// names the winner; no mutation happened on this call.
	Conflict  bool
	DecidedBy int64
}

// PanelActorID is recorded as decided_by for decisions taken in the
// admin panel, which authenticates operators by session instead of
// Telegram identity.
const PanelActorID int64 = 0

// Decide runs the single state transition of an application. Exactly one
// concurrent caller wins; every other caller gets a conflict result
// naming the winner.
func (s *Service) Decide(ctx context.Context, input DecideInput) (DecideResult, error) {
	if !s.directory.IsReviewer(input.ActorTGID) {
		return DecideResult{}, ErrUnauthorized
	}
	return s.decide(ctx, input.ActorTGID, input.ApplicationID, input.Decision)
}

// DecidePanel is the admin panel surface of Decide. The caller is
// trusted to have passed the panel session gate already.
func (s *Service) DecidePanel(ctx context.Context, applicationID string, decision enums.Decision) (DecideResult, error) {
	return s.decide(ctx, PanelActorID, applicationID, decision)
}

func (s *Service) decide(ctx context.Context, actorTGID int64, applicationID string, decision enums.Decision) (DecideResult, error) {
	if s.store == nil {
		return DecideResult{}, fmt.Errorf("application store is not configured")
	}
	if strings.TrimSpace(applicationID) == "" {
		return DecideResult{}, ErrApplicationNotFound
	}

	err := s.store.SetDecision(ctx, applicationID, actorTGID, decision)
	if errors.Is(err, pgrepo.ErrAlreadyDecided) {
		app, getErr := s.store.GetByID(ctx, applicationID)
		if getErr != nil {
			return DecideResult{}, fmt.Errorf("load decided application: %w", getErr)
		}
		result := DecideResult{Application: app, Conflict: true}
		if app.DecidedBy != nil {
			result.DecidedBy = *app.DecidedBy
		}
		return result, nil
	}
	if errors.Is(err, pgrepo.ErrApplicationNotFound) {
		return DecideResult{}, ErrApplicationNotFound
	}
	if err != nil {
		return DecideResult{}, fmt.Errorf("set decision: %w", err)
	}

	app, err := s.store.GetByID(ctx, applicationID)
	if err != nil {
		return DecideResult{}, fmt.Errorf("load application after decision: %w", err)
	}

	if s.announcer != nil {
		// The decision is already committed; announce failures must not
		// undo it or surface as a decision error.
		_, _ = s.announcer.AnnounceOutcome(ctx, app)
	}

	return DecideResult{Application: app, DecidedBy: actorTGID}, nil
}

// RequestInfo validates the actor and returns the application for a
// side-channel follow-up with the applicant. No state transition.
func (s *Service) RequestInfo(ctx context.Context, actorTGID int64, applicationID string) (model.Application, error) {
	if s.store == nil {
		return model.Application{}, fmt.Errorf("application store is not configured")
	}
	if !s.directory.IsReviewer(actorTGID) {
		return model.Application{}, ErrUnauthorized
	}

	app, err := s.store.GetByID(ctx, applicationID)
	if errors.Is(err, pgrepo.ErrApplicationNotFound) {
		return model.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("load application: %w", err)
	}

	return app, nil
}

// View returns an application for display, gated the same way decisions
// are.
func (s *Service) View(ctx context.Context, actorTGID int64, applicationID string) (model.Application, error) {
	return s.RequestInfo(ctx, actorTGID, applicationID)
}
