package interactions

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/batoolr/reviewhub-backend/internal/notifications"
	"github.com/batoolr/reviewhub-backend/pkg/db/models"
	pkgerrors "github.com/batoolr/reviewhub-backend/pkg/errors"
	"github.com/batoolr/reviewhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubTxRunner struct {
	calls int
}

func (r *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.calls++
	return fn(nil)
}

type fakeInteractionRepo struct {
	interactions map[uuid.UUID]*models.ReviewInteraction
	reviews      map[uuid.UUID]*models.Review
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{
		interactions: map[uuid.UUID]*models.ReviewInteraction{},
		reviews:      map[uuid.UUID]*models.Review{},
	}
}

func (f *fakeInteractionRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeInteractionRepo) Create(ctx context.Context, interaction *models.ReviewInteraction) error {
	interaction.ID = uuid.New()
	interaction.CreatedAt = time.Now().UTC()
	f.interactions[interaction.ID] = interaction
	return nil
}

func (f *fakeInteractionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ReviewInteraction, error) {
	if interaction, ok := f.interactions[id]; ok {
		copied := *interaction
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInteractionRepo) ExistsForPair(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	for _, interaction := range f.interactions {
		if interaction.ReviewID == reviewID && interaction.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInteractionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReviewInteraction, error) {
	var rows []models.ReviewInteraction
	for _, interaction := range f.interactions {
		if interaction.UserID == userID {
			rows = append(rows, *interaction)
		}
	}
	return rows, nil
}

func (f *fakeInteractionRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	interaction, ok := f.interactions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if liked, ok := fields["liked"].(bool); ok {
		interaction.Liked = liked
	}
	if helpful, ok := fields["is_helpful"].(bool); ok {
		interaction.IsHelpful = helpful
	}
	return nil
}

func (f *fakeInteractionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.interactions, id)
	return nil
}

func (f *fakeInteractionRepo) Stats(ctx context.Context, reviewID uuid.UUID) (StatsResponse, error) {
	stats := StatsResponse{ReviewID: reviewID}
	for _, interaction := range f.interactions {
		if interaction.ReviewID != reviewID {
			continue
		}
		if interaction.Liked {
			stats.LikesCount++
		}
		if interaction.IsHelpful {
			stats.HelpfulCount++
		}
	}
	stats.Total = stats.LikesCount + stats.HelpfulCount
	return stats, nil
}

func (f *fakeInteractionRepo) TopReview(ctx context.Context, productID uuid.UUID) (*models.Review, error) {
	var candidates []*models.Review
	for _, review := range f.reviews {
		if review.ProductID == productID {
			candidates = append(candidates, review)
		}
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	engagement := func(reviewID uuid.UUID) int64 {
		stats, _ := f.Stats(ctx, reviewID)
		return stats.Total
	}
	sort.Slice(candidates, func(i, j int) bool {
		ei, ej := engagement(candidates[i].ID), engagement(candidates[j].ID)
		if ei != ej {
			return ei > ej
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})
	copied := *candidates[0]
	return &copied, nil
}

type fakeReviewFinder struct {
	reviews map[uuid.UUID]*models.Review
}

func (f *fakeReviewFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if review, ok := f.reviews[id]; ok {
		return review, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeNotificationRepo struct {
	created    []*models.Notification
	failCreate error
}

func (f *fakeNotificationRepo) WithTx(tx *gorm.DB) notifications.Repository { return f }

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepo) List(ctx context.Context, params notifications.ListQuery) ([]models.Notification, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID, now time.Time) (notifications.MarkResult, error) {
	return notifications.MarkResult{}, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID, now time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc      Service
	tx       *stubTxRunner
	repo     *fakeInteractionRepo
	notifier *fakeNotificationRepo
	reviews  map[uuid.UUID]*models.Review
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tx := &stubTxRunner{}
	repo := newFakeInteractionRepo()
	finder := &fakeReviewFinder{reviews: repo.reviews}
	notifier := &fakeNotificationRepo{}
	svc, err := NewService(ServiceParams{Tx: tx, Repo: repo, Reviews: finder, Notifications: notifier})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, tx: tx, repo: repo, notifier: notifier, reviews: repo.reviews}
}

func (fx *fixture) addReview(productID, authorID uuid.UUID, createdAt time.Time) *models.Review {
	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		AuthorID:  authorID,
		Rating:    4,
		Body:      "body",
		CreatedAt: createdAt,
	}
	fx.reviews[review.ID] = review
	return review
}

func TestRecordRejectsSelfInteraction(t *testing.T) {
	fx := newFixture(t)
	author := uuid.New()
	review := fx.addReview(uuid.New(), author, time.Now())

	_, err := fx.svc.Record(context.Background(), author, RecordInteractionRequest{ReviewID: review.ID, Liked: true})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordRejectsDuplicate(t *testing.T) {
	fx := newFixture(t)
	review := fx.addReview(uuid.New(), uuid.New(), time.Now())
	voter := uuid.New()

	if _, err := fx.svc.Record(context.Background(), voter, RecordInteractionRequest{ReviewID: review.ID, Liked: true}); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := fx.svc.Record(context.Background(), voter, RecordInteractionRequest{ReviewID: review.ID, IsHelpful: true})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordNotifiesAuthor(t *testing.T) {
	fx := newFixture(t)
	author := uuid.New()
	review := fx.addReview(uuid.New(), author, time.Now())

	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: review.ID, Liked: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(fx.notifier.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(fx.notifier.created))
	}
	if fx.notifier.created[0].RecipientID != author {
		t.Fatal("notification must target the review author")
	}
}

func TestRecordWritesVoteAndNotificationInOneTransaction(t *testing.T) {
	fx := newFixture(t)
	review := fx.addReview(uuid.New(), uuid.New(), time.Now())

	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: review.ID, Liked: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if fx.tx.calls != 1 {
		t.Fatalf("expected 1 transaction, got %d", fx.tx.calls)
	}
	if len(fx.repo.interactions) != 1 || len(fx.notifier.created) != 1 {
		t.Fatalf("expected vote and notification, got %d/%d", len(fx.repo.interactions), len(fx.notifier.created))
	}
}

func TestRecordFailsWhenNotificationFails(t *testing.T) {
	fx := newFixture(t)
	review := fx.addReview(uuid.New(), uuid.New(), time.Now())
	fx.notifier.failCreate = errors.New("insert failed")

	_, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: review.ID, Liked: true})
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestRecordUnknownReview(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: uuid.New(), Liked: true})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateOnlyByOwner(t *testing.T) {
	fx := newFixture(t)
	review := fx.addReview(uuid.New(), uuid.New(), time.Now())
	voter := uuid.New()

	created, err := fx.svc.Record(context.Background(), voter, RecordInteractionRequest{ReviewID: review.ID, Liked: true})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	helpful := true
	_, err = fx.svc.Update(context.Background(), uuid.New(), created.ID, UpdateInteractionRequest{IsHelpful: &helpful})
	assertCode(t, err, pkgerrors.CodeForbidden)

	updated, err := fx.svc.Update(context.Background(), voter, created.ID, UpdateInteractionRequest{IsHelpful: &helpful})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if !updated.IsHelpful {
		t.Fatal("expected helpful flag set")
	}
}

func TestStatsCountsBothFlags(t *testing.T) {
	fx := newFixture(t)
	review := fx.addReview(uuid.New(), uuid.New(), time.Now())

	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: review.ID, Liked: true, IsHelpful: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: review.ID, Liked: true}); err != nil {
		t.Fatalf("record: %v", err)
	}

	stats, err := fx.svc.Stats(context.Background(), review.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LikesCount != 2 || stats.HelpfulCount != 1 || stats.Total != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestTopReviewPicksMostEngaged(t *testing.T) {
	fx := newFixture(t)
	productID := uuid.New()
	older := fx.addReview(productID, uuid.New(), time.Now().Add(-time.Hour))
	newer := fx.addReview(productID, uuid.New(), time.Now())

	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: newer.ID, Liked: true, IsHelpful: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := fx.svc.Record(context.Background(), uuid.New(), RecordInteractionRequest{ReviewID: older.ID, Liked: true}); err != nil {
		t.Fatalf("record: %v", err)
	}

	top, err := fx.svc.TopReview(context.Background(), productID)
	if err != nil {
		t.Fatalf("top review: %v", err)
	}
	if top.ReviewID != newer.ID {
		t.Fatalf("expected most engaged review, got %s", top.ReviewID)
	}
	if top.Stats.Total != 2 {
		t.Fatalf("unexpected stats %+v", top.Stats)
	}
}

func TestTopReviewTieBreaksOnOldest(t *testing.T) {
	fx := newFixture(t)
	productID := uuid.New()
	older := fx.addReview(productID, uuid.New(), time.Now().Add(-time.Hour))
	fx.addReview(productID, uuid.New(), time.Now())

	top, err := fx.svc.TopReview(context.Background(), productID)
	if err != nil {
		t.Fatalf("top review: %v", err)
	}
	if top.ReviewID != older.ID {
		t.Fatalf("expected oldest review on tie, got %s", top.ReviewID)
	}
}

func TestTopReviewNoReviews(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.TopReview(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
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
