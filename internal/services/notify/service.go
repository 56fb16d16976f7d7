package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/domain/model"
)

// Messenger delivers and rewrites review prompts over the chat
// transport. Implementations live next to the transport wiring.
type Messenger interface {
	SendReviewPrompt(ctx context.Context, reviewerTGID int64, app model.Application) (model.Delivery, error)
	UpdateReviewMessage(ctx context.Context, delivery model.Delivery, app model.Application) error
}

type Store interface {
	RecordDelivery(context.Context, model.Delivery) error
	ListDeliveries(context.Context, string) ([]model.Delivery, error)
}

type Directory interface {
	Reviewers() []int64
}

type Outcome struct {
	ReviewerTGID int64
	Delivered    bool
	Err          error
}

type Service struct {
	directory Directory
	store     Store
	messenger Messenger
	logger    *zap.Logger
}

func NewService(dir Directory, store Store, messenger Messenger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		directory: dir,
		store:     store,
		messenger: messenger,
		logger:    logger,
	}
}

// Dispatch sends a review prompt to every reviewer in the directory.
// Delivery to each reviewer is independent: a failed send is logged and
// recorded as a failed outcome, the rest of the fan-out continues.
func (s *Service) Dispatch(ctx context.Context, app model.Application) []Outcome {
	reviewers := s.directory.Reviewers()
	outcomes := make([]Outcome, 0, len(reviewers))

	for _, reviewerTGID := range reviewers {
		delivery, err := s.messenger.SendReviewPrompt(ctx, reviewerTGID, app)
		if err != nil {
			s.logger.Warn("review prompt delivery failed",
				zap.String("application_id", app.ID),
				zap.Int64("reviewer_tg_id", reviewerTGID),
				zap.Error(err),
			)
			outcomes = append(outcomes, Outcome{ReviewerTGID: reviewerTGID, Err: err})
			continue
		}

		delivery.ApplicationID = app.ID
		delivery.ReviewerTGID = reviewerTGID
		if err := s.store.RecordDelivery(ctx, delivery); err != nil {
			s.logger.Warn("record delivery handle failed",
				zap.String("application_id", app.ID),
				zap.Int64("reviewer_tg_id", reviewerTGID),
				zap.Error(err),
			)
			outcomes = append(outcomes, Outcome{ReviewerTGID: reviewerTGID, Delivered: true, Err: err})
			continue
		}

		outcomes = append(outcomes, Outcome{ReviewerTGID: reviewerTGID, Delivered: true})
	}

	return outcomes
}

// AnnounceOutcome rewrites every recorded delivery to show the terminal
// state. Reviewers whose original delivery failed have no handle and are
// skipped, not retried.
func (s *Service) AnnounceOutcome(ctx context.Context, app model.Application) (int, error) {
	deliveries, err := s.store.ListDeliveries(ctx, app.ID)
	if err != nil {
		return 0, fmt.Errorf("list deliveries for %s: %w", app.ID, err)
	}

	skipped := len(s.directory.Reviewers()) - len(deliveries)
	if skipped > 0 {
		s.logger.Info("skipping reviewers without delivered prompts",
			zap.String("application_id", app.ID),
			zap.Int("skipped", skipped),
		)
	}

	updated := 0
	for _, delivery := range deliveries {
		if err := s.messenger.UpdateReviewMessage(ctx, delivery, app); err != nil {
			s.logger.Warn("update review message failed",
				zap.String("application_id", app.ID),
				zap.Int64("reviewer_tg_id", delivery.ReviewerTGID),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	return updated, nil
}
