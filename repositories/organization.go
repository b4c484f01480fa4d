package repositories

import (
	"context"
	"errors"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrganizationRepository handles organizations
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	var organizations []models.Organization
	err := r.db.WithContext(ctx).Order("name").Find(&organizations).Error
	return organizations, translate(err, "organization")
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (models.Organization, error) {
	var organization models.Organization
	err := r.db.WithContext(ctx).
		Preload("Offices", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		First(&organization, "id = ?", id).Error
	return organization, translate(err, "organization")
}

func (r *OrganizationRepository) Create(ctx context.Context, organization *models.Organization) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(organization).Error, "organization")
}

func (r *OrganizationRepository) Save(ctx context.Context, organization *models.Organization) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(organization).Error, "organization")
}

// Delete fails while offices, listings or projects belong to the organization
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := guardDependents(tx, "organization",
			dependentCheck{&models.Office{}, "organization_id", id},
			dependentCheck{&models.Property{}, "organization_id", id},
			dependentCheck{&models.Project{}, "organization_id", id},
		)
		if err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.Organization{}), "organization")
	})
}

// OfficeRepository handles offices
type OfficeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) *OfficeRepository {
	return &OfficeRepository{db: db}
}

// List returns offices, optionally narrowed to one organization
func (r *OfficeRepository) List(ctx context.Context, organizationID string) ([]models.Office, error) {
	var offices []models.Office
	db := r.db.WithContext(ctx).Preload("Neighborhood")
	if organizationID != "" {
		db = db.Where("organization_id = ?", organizationID)
	}
	err := db.Order("name").Find(&offices).Error
	return offices, translate(err, "office")
}

func (r *OfficeRepository) FindByID(ctx context.Context, id string) (models.Office, error) {
	var office models.Office
	err := r.db.WithContext(ctx).Preload("Neighborhood").First(&office, "id = ?", id).Error
	return office, translate(err, "office")
}

func (r *OfficeRepository) Create(ctx context.Context, office *models.Office) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(office).Error, "office")
}

func (r *OfficeRepository) Save(ctx context.Context, office *models.Office) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(office).Error, "office")
}

// Delete fails while workers or listings belong to the office
func (r *OfficeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := guardDependents(tx, "office",
			dependentCheck{&models.OfficeWorker{}, "office_id", id},
			dependentCheck{&models.Property{}, "office_id", id},
		)
		if err != nil {
			return err
		}
		// projects outlive their office but leave its organization with it
		err = tx.Model(&models.Project{}).
			Where("office_id = ?", id).
			Updates(map[string]interface{}{"office_id": nil, "organization_id": nil}).Error
		if err != nil {
			return translate(err, "project")
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.Office{}), "office")
	})
}

// OfficeWorkerRepository handles office staff
type OfficeWorkerRepository struct {
	db *gorm.DB
}

func NewOfficeWorkerRepository(db *gorm.DB) *OfficeWorkerRepository {
	return &OfficeWorkerRepository{db: db}
}

func (r *OfficeWorkerRepository) WithTx(tx *gorm.DB) *OfficeWorkerRepository {
	return &OfficeWorkerRepository{db: tx}
}

// List returns workers with office and role, optionally for one office
func (r *OfficeWorkerRepository) List(ctx context.Context, officeID string) ([]models.OfficeWorker, error) {
	var workers []models.OfficeWorker
	db := r.db.WithContext(ctx).Preload("Office").Preload("Role")
	if officeID != "" {
		db = db.Where("office_id = ?", officeID)
	}
	err := db.Order("first_name, last_name").Find(&workers).Error
	return workers, translate(err, "office worker")
}

func (r *OfficeWorkerRepository) FindByID(ctx context.Context, id string) (models.OfficeWorker, error) {
	var worker models.OfficeWorker
	err := r.db.WithContext(ctx).Preload("Office").Preload("Role").First(&worker, "id = ?", id).Error
	return worker, translate(err, "office worker")
}

func (r *OfficeWorkerRepository) FindBySlug(ctx context.Context, slug string) (models.OfficeWorker, error) {
	var worker models.OfficeWorker
	err := r.db.WithContext(ctx).Preload("Office").Preload("Role").First(&worker, "slug = ?", slug).Error
	return worker, translate(err, "office worker")
}

// FindByUserID returns the worker linked to a local user, with its role
func (r *OfficeWorkerRepository) FindByUserID(ctx context.Context, userID string) (models.OfficeWorker, error) {
	var worker models.OfficeWorker
	err := r.db.WithContext(ctx).Preload("Role").First(&worker, "user_id = ?", userID).Error
	return worker, translate(err, "office worker")
}

// LinkUserByEmail attaches a user to the unlinked worker with the same email.
// It reports whether a worker was linked.
func (r *OfficeWorkerRepository) LinkUserByEmail(ctx context.Context, userID, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	db := r.db.WithContext(ctx)
	var worker models.OfficeWorker
	err := db.Where("user_id IS NULL AND LOWER(email) = LOWER(?)", email).Order("created_at").First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "office worker")
	}
	if err := db.Model(&worker).Update("user_id", userID).Error; err != nil {
		return false, translate(err, "office worker")
	}
	return true, nil
}

func (r *OfficeWorkerRepository) Create(ctx context.Context, worker *models.OfficeWorker) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(worker).Error, "office worker")
}

func (r *OfficeWorkerRepository) Save(ctx context.Context, worker *models.OfficeWorker) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(worker).Error, "office worker")
}

// Delete fails while listings are assigned to the worker. Reviews go with it.
func (r *OfficeWorkerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardDependents(tx, "office worker", dependentCheck{&models.Property{}, "agent_id", id}); err != nil {
			return err
		}
		if err := tx.Where("office_worker_id = ?", id).Delete(&models.OfficeWorkerReview{}).Error; err != nil {
			return translateDelete(err, "office worker")
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.OfficeWorker{}), "office worker")
	})
}
