package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

type Store interface {
	Create(context.Context, model.Application) (string, error)
	GetByID(context.Context, string) (model.Application, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Ingest classifies raw text and persists recognized submissions as
// pending applications. Partial submissions still enter the pipeline.
func (s *Service) Ingest(ctx context.Context, text string) (model.Application, error) {
	if s.store == nil {
		return model.Application{}, fmt.Errorf("application store is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return model.Application{}, ErrNotAnApplication
	}

	app, err := Extract(text)
	if err != nil {
		return model.Application{}, err
	}

	id, err := s.store.Create(ctx, app)
	if err != nil {
		return model.Application{}, fmt.Errorf("persist application: %w", err)
	}

	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Application{}, fmt.Errorf("read back application %s: %w", id, err)
	}
	if created.Status == "" {
		created.Status = enums.StatusPending
	}

	return created, nil
}
