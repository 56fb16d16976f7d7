package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

type fakeMessenger struct {
	failFor map[int64]error
	sent    []int64
	edited  []model.Delivery
}

func (m *fakeMessenger) SendReviewPrompt(_ context.Context, reviewerTGID int64, app model.Application) (model.Delivery, error) {
	if err := m.failFor[reviewerTGID]; err != nil {
		return model.Delivery{}, err
	}
	m.sent = append(m.sent, reviewerTGID)
	return model.Delivery{ChatID: reviewerTGID, MessageID: int(reviewerTGID) * 100}, nil
}

func (m *fakeMessenger) UpdateReviewMessage(_ context.Context, delivery model.Delivery, _ model.Application) error {
	if err := m.failFor[delivery.ReviewerTGID]; err != nil {
		return err
	}
	m.edited = append(m.edited, delivery)
	return nil
}

type deliveryStore struct {
	recorded map[string][]model.Delivery
}

func newDeliveryStore() *deliveryStore {
	return &deliveryStore{recorded: map[string][]model.Delivery{}}
}

func (s *deliveryStore) RecordDelivery(_ context.Context, d model.Delivery) error {
	s.recorded[d.ApplicationID] = append(s.recorded[d.ApplicationID], d)
	return nil
}

func (s *deliveryStore) ListDeliveries(_ context.Context, applicationID string) ([]model.Delivery, error) {
	return s.recorded[applicationID], nil
}

type staticDirectory struct {
	ids []int64
}

func (d *staticDirectory) Reviewers() []int64 { return d.ids }

func TestDispatchIsolatesFailures(t *testing.T) {
	messenger := &fakeMessenger{failFor: map[int64]error{20: errors.New("blocked the bot")}}
	store := newDeliveryStore()
	svc := NewService(&staticDirectory{ids: []int64{10, 20, 30}}, store, messenger, nil)

	app := model.Application{ID: "app-1", Status: enums.StatusPending}
	outcomes := svc.Dispatch(context.Background(), app)

	if len(outcomes) != 3 {
		t.Fatalf("expected an outcome per reviewer, got %d", len(outcomes))
	}

	delivered := map[int64]bool{}
	for _, o := range outcomes {
		if o.Delivered {
			delivered[o.ReviewerTGID] = true
		} else if o.Err == nil {
			t.Fatalf("failed outcome for %d must carry the error", o.ReviewerTGID)
		}
	}
	if !delivered[10] || !delivered[30] || delivered[20] {
		t.Fatalf("one failed send must not block the rest: %v", delivered)
	}

	if len(store.recorded["app-1"]) != 2 {
		t.Fatalf("expected two recorded deliveries, got %d", len(store.recorded["app-1"]))
	}
	for _, d := range store.recorded["app-1"] {
		if d.ApplicationID != "app-1" || d.ReviewerTGID == 0 {
			t.Fatalf("delivery handle is not filled in: %+v", d)
		}
	}
}

func TestAnnounceOutcomeSkipsMissingHandles(t *testing.T) {
	messenger := &fakeMessenger{failFor: map[int64]error{20: errors.New("blocked the bot")}}
	store := newDeliveryStore()
	svc := NewService(&staticDirectory{ids: []int64{10, 20, 30}}, store, messenger, nil)

	app := model.Application{ID: "app-1", Status: enums.StatusPending}
	svc.Dispatch(context.Background(), app)

	app.Status = enums.StatusApproved
	updated, err := svc.AnnounceOutcome(context.Background(), app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected two updated messages, got %d", updated)
	}
	if len(messenger.edited) != 2 {
		t.Fatalf("announce must only touch recorded deliveries, edited %d", len(messenger.edited))
	}
}

func TestAnnounceOutcomeToleratesEditFailure(t *testing.T) {
	messenger := &fakeMessenger{}
	store := newDeliveryStore()
	svc := NewService(&staticDirectory{ids: []int64{10, 30}}, store, messenger, nil)

	app := model.Application{ID: "app-1", Status: enums.StatusPending}
	svc.Dispatch(context.Background(), app)

	// Reviewer 10 becomes unreachable between dispatch and announce.
	messenger.failFor = map[int64]error{10: errors.New("chat gone")}

	app.Status = enums.StatusRejected
	updated, err := svc.AnnounceOutcome(context.Background(), app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected one updated message, got %d", updated)
	}
}
