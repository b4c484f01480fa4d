package services

import (
	"context"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService accepts agent reviews and moderates them. Only published
// reviews are shown publicly or counted in ratings.
type ReviewService struct {
	reviews *repositories.ReviewRepository
	workers *repositories.OfficeWorkerRepository
	log     *zap.Logger
}

func NewReviewService(db *gorm.DB, log *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews: repositories.NewReviewRepository(db),
		workers: repositories.NewOfficeWorkerRepository(db),
		log:     log.Named("reviews"),
	}
}

func (s *ReviewService) Submit(ctx context.Context, req dto.ReviewRequest) (models.OfficeWorkerReview, error) {
	fields := apperr.FieldErrors{}
	if req.Rating < 1 || req.Rating > 5 {
		fields.Add("rating", "must be between 1 and 5")
	}
	_, err := s.workers.FindByID(ctx, req.OfficeWorkerID)
	if err = missingAsField(fields, "officeWorkerId", err); err != nil {
		return models.OfficeWorkerReview{}, err
	}
	if err := fields.Err(); err != nil {
		return models.OfficeWorkerReview{}, err
	}

	review := models.OfficeWorkerReview{
		OfficeWorkerID: req.OfficeWorkerID,
		AuthorName:     utils.SanitizePlainText(req.AuthorName),
		AuthorEmail:    req.AuthorEmail,
		Rating:         req.Rating,
		Comment:        utils.SanitizePlainText(req.Comment),
		Status:         models.StatusPending,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return models.OfficeWorkerReview{}, err
	}
	s.log.Info("review submitted", zap.String("id", review.ID), zap.String("office_worker_id", review.OfficeWorkerID))
	return review, nil
}

// ListPublished returns a worker's visible reviews
func (s *ReviewService) ListPublished(ctx context.Context, workerID string, q dto.PageQuery) (dto.ListResponse[models.OfficeWorkerReview], error) {
	page := pageOf(q)
	reviews, total, err := s.reviews.List(ctx, workerID, models.StatusPublished, page)
	if err != nil {
		return dto.ListResponse[models.OfficeWorkerReview]{}, err
	}
	return dto.NewListResponse(reviews, total, page.Number, page.Size), nil
}

// List is the moderation queue; status and workerID are optional filters.
func (s *ReviewService) List(ctx context.Context, workerID, status string, q dto.PageQuery) (dto.ListResponse[models.OfficeWorkerReview], error) {
	filter := models.PublishingStatus(status)
	if status != "" && !filter.Valid() {
		return dto.ListResponse[models.OfficeWorkerReview]{}, apperr.Validation(map[string]string{"status": "must be one of PENDING, PUBLISHED, REJECTED"})
	}
	page := pageOf(q)
	reviews, total, err := s.reviews.List(ctx, workerID, filter, page)
	if err != nil {
		return dto.ListResponse[models.OfficeWorkerReview]{}, err
	}
	return dto.NewListResponse(reviews, total, page.Number, page.Size), nil
}

func (s *ReviewService) Summary(ctx context.Context, workerID string) (dto.ReviewSummary, error) {
	if _, err := s.workers.FindByID(ctx, workerID); err != nil {
		return dto.ReviewSummary{}, err
	}
	average, count, err := s.reviews.AverageRating(ctx, workerID)
	if err != nil {
		return dto.ReviewSummary{}, err
	}
	return dto.ReviewSummary{Average: average, Count: count}, nil
}

func (s *ReviewService) SetStatus(ctx context.Context, id, status string) (models.OfficeWorkerReview, error) {
	next := models.PublishingStatus(status)
	if !next.Valid() {
		return models.OfficeWorkerReview{}, apperr.Validation(map[string]string{"status": "must be one of PENDING, PUBLISHED, REJECTED"})
	}
	if err := s.reviews.UpdateStatus(ctx, id, next); err != nil {
		return models.OfficeWorkerReview{}, err
	}
	s.log.Info("review moderated", zap.String("id", id), zap.String("status", string(next)))
	return s.reviews.FindByID(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}

func (s *ReviewService) CountPending(ctx context.Context) (int64, error) {
	_, total, err := s.reviews.List(ctx, "", models.StatusPending, repositories.Page{Number: 1, Size: 1})
	return total, err
}
