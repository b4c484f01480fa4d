package repositories

import (
	"context"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadRow is satisfied by the inbound lead models
type LeadRow interface {
	models.ContactForm | models.ProspectAgent | models.ProspectCustomer
}

// LeadRepository serves one lead table
type LeadRepository[T LeadRow] struct {
	db     *gorm.DB
	entity string
}

func NewContactFormRepository(db *gorm.DB) *LeadRepository[models.ContactForm] {
	return &LeadRepository[models.ContactForm]{db: db, entity: "contact form"}
}

func NewProspectAgentRepository(db *gorm.DB) *LeadRepository[models.ProspectAgent] {
	return &LeadRepository[models.ProspectAgent]{db: db, entity: "prospect agent"}
}

func NewProspectCustomerRepository(db *gorm.DB) *LeadRepository[models.ProspectCustomer] {
	return &LeadRepository[models.ProspectCustomer]{db: db, entity: "prospect customer"}
}

// Entity is the display name used in errors
func (r *LeadRepository[T]) Entity() string {
	return r.entity
}

// List returns the newest leads first, optionally for one status
func (r *LeadRepository[T]) List(ctx context.Context, status models.LeadStatus, page Page) ([]T, int64, error) {
	var (
		rows  []T
		total int64
		model T
	)
	page = page.Normalize()
	db := r.db.WithContext(ctx).Model(&model)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, r.entity)
	}
	err := db.Order("created_at DESC").Limit(page.Size).Offset(page.offset()).Find(&rows).Error
	return rows, total, translate(err, r.entity)
}

func (r *LeadRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, translate(err, r.entity)
}

func (r *LeadRepository[T]) Create(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error, r.entity)
}

func (r *LeadRepository[T]) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error {
	var model T
	result := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translate(result.Error, r.entity)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, r.entity)
	}
	return nil
}

func (r *LeadRepository[T]) Delete(ctx context.Context, id string) error {
	var model T
	return deleteResult(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model), r.entity)
}

func (r *LeadRepository[T]) CountByStatus(ctx context.Context, status models.LeadStatus) (int64, error) {
	var (
		count int64
		model T
	)
	err := r.db.WithContext(ctx).Model(&model).Where("status = ?", status).Count(&count).Error
	return count, translate(err, r.entity)
}

// ReviewRepository handles office worker reviews
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews newest first. Empty workerID or status do not filter.
func (r *ReviewRepository) List(ctx context.Context, workerID string, status models.PublishingStatus, page Page) ([]models.OfficeWorkerReview, int64, error) {
	var (
		reviews []models.OfficeWorkerReview
		total   int64
	)
	page = page.Normalize()
	db := r.db.WithContext(ctx).Model(&models.OfficeWorkerReview{})
	if workerID != "" {
		db = db.Where("office_worker_id = ?", workerID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "review")
	}
	err := db.Order("created_at DESC").Limit(page.Size).Offset(page.offset()).Find(&reviews).Error
	return reviews, total, translate(err, "review")
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (models.OfficeWorkerReview, error) {
	var review models.OfficeWorkerReview
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	return review, translate(err, "review")
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.OfficeWorkerReview) error {
	return translate(r.db.WithContext(ctx).Create(review).Error, "review")
}

func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.PublishingStatus) error {
	result := r.db.WithContext(ctx).Model(&models.OfficeWorkerReview{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translate(result.Error, "review")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "review")
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OfficeWorkerReview{}), "review")
}

// AverageRating returns the mean published rating of a worker and the count
func (r *ReviewRepository) AverageRating(ctx context.Context, workerID string) (float64, int64, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&models.OfficeWorkerReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("office_worker_id = ? AND status = ?", workerID, models.StatusPublished).
		Scan(&row).Error
	return row.Average, row.Count, translate(err, "review")
}
