package repositories

import (
	"context"
	"strings"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter narrows project queries
type ProjectFilter struct {
	PublishingStatus models.ProjectStatus
	OrganizationID   string
	OfficeID         string
	CityID           string
	Search           string
	SortBy           string
	SortOrder        string
	Page             Page
}

var projectSortColumns = map[string]string{
	"created_at":    "projects.created_at",
	"updated_at":    "projects.updated_at",
	"name":          "projects.name",
	"delivery_date": "projects.delivery_date",
}

// inOrder sorts owned rows that carry a sort_order column
func inOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order, id")
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

// FindByID retrieves a project with its owned rows
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Office").
		Preload("Location").
		Preload("Feature").
		Preload("Images", inOrder).
		Preload("UnitSizes", inOrder).
		Preload("SocialFeatures", func(db *gorm.DB) *gorm.DB { return db.Order("value") }).
		First(&project, "id = ?", id).Error
	return project, translate(err, "project")
}

// FindRow retrieves only the project's own columns
func (r *ProjectRepository) FindRow(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	return project, translate(err, "project")
}

// FindWithPagination retrieves projects with pagination, filtering and sorting
func (r *ProjectRepository) FindWithPagination(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	var (
		projects   []models.Project
		totalCount int64
	)
	page := filter.Page.Normalize()

	db := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.PublishingStatus != "" {
		db = db.Where("projects.publishing_status = ?", filter.PublishingStatus)
	}
	if filter.OrganizationID != "" {
		db = db.Where("projects.organization_id = ?", filter.OrganizationID)
	}
	if filter.OfficeID != "" {
		db = db.Where("projects.office_id = ?", filter.OfficeID)
	}
	if filter.Search != "" {
		db = db.Where("LOWER(projects.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CityID != "" {
		db = db.Joins("JOIN project_locations ON project_locations.project_id = projects.id").
			Where("project_locations.city_id = ?", filter.CityID)
	}

	if err := db.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return nil, 0, translate(err, "project")
	}

	err := db.
		Preload("Location").
		Preload("Images", inOrder).
		Order(sortClause(projectSortColumns, filter.SortBy, filter.SortOrder)).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&projects).Error
	if err != nil {
		return nil, 0, translate(err, "project")
	}
	return projects, totalCount, nil
}

// Create inserts the project and its owned rows
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(project).Error; err != nil {
		return translate(err, "project")
	}
	return r.createChildren(db, project)
}

// Replace overwrites the project's columns and recreates every owned row
func (r *ProjectRepository) Replace(ctx context.Context, project *models.Project) error {
	db := r.db.WithContext(ctx)
	err := db.Model(project).
		Select("*").
		Omit("ID", "CreatedAt", clause.Associations).
		Updates(project).Error
	if err != nil {
		return translate(err, "project")
	}
	if err := r.deleteChildren(db, project.ID); err != nil {
		return err
	}
	return r.createChildren(db, project)
}

func (r *ProjectRepository) createChildren(db *gorm.DB, project *models.Project) error {
	if project.Location != nil {
		project.Location.ID = ""
		project.Location.ProjectID = project.ID
		if err := db.Create(project.Location).Error; err != nil {
			return translate(err, "project location")
		}
	}
	if project.Feature != nil {
		project.Feature.ID = ""
		project.Feature.ProjectID = project.ID
		if err := db.Create(project.Feature).Error; err != nil {
			return translate(err, "project feature")
		}
	}
	if len(project.Images) > 0 {
		for i := range project.Images {
			project.Images[i].ID = ""
			project.Images[i].ProjectID = project.ID
		}
		if err := db.Create(&project.Images).Error; err != nil {
			return translate(err, "project image")
		}
	}
	if len(project.UnitSizes) > 0 {
		for i := range project.UnitSizes {
			project.UnitSizes[i].ID = ""
			project.UnitSizes[i].ProjectID = project.ID
		}
		if err := db.Create(&project.UnitSizes).Error; err != nil {
			return translate(err, "project unit size")
		}
	}
	if len(project.SocialFeatures) > 0 {
		for i := range project.SocialFeatures {
			project.SocialFeatures[i].ID = ""
			project.SocialFeatures[i].ProjectID = project.ID
		}
		if err := db.Create(&project.SocialFeatures).Error; err != nil {
			return translate(err, "project social feature")
		}
	}
	return nil
}

func (r *ProjectRepository) deleteChildren(db *gorm.DB, projectID string) error {
	children := []interface{}{
		&models.ProjectSocialFeature{},
		&models.ProjectUnitSize{},
		&models.ProjectImage{},
		&models.ProjectFeature{},
		&models.ProjectLocation{},
	}
	for _, child := range children {
		if err := db.Where("project_id = ?", projectID).Delete(child).Error; err != nil {
			return translateDelete(err, "project")
		}
	}
	return nil
}

// UpdatePublishingStatus sets the lifecycle state of one project
func (r *ProjectRepository) UpdatePublishingStatus(ctx context.Context, id string, status models.ProjectStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("publishing_status", status)
	if result.Error != nil {
		return translate(result.Error, "project")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "project")
	}
	return nil
}

// Delete removes the project and its owned rows
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.Project{}), "project")
	})
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, translate(err, "project")
}
