package services

import (
	"context"
	"time"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/utils"
	"github.com/emlak-portal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const projectStatusMessage = "must be one of DRAFT, PUBLISHED, ARCHIVED"

// ProjectService manages development projects. Site admins manage every
// project, office admins the projects of their office.
type ProjectService struct {
	db        *gorm.DB
	projects  *repositories.ProjectRepository
	locations *repositories.LocationRepository
	offices   *repositories.OfficeRepository
	validate  *validator.Validate
	notifier  Notifier
	log       *zap.Logger
}

func NewProjectService(db *gorm.DB, notifier Notifier, log *zap.Logger) *ProjectService {
	return &ProjectService{
		db:        db,
		projects:  repositories.NewProjectRepository(db),
		locations: repositories.NewLocationRepository(db),
		offices:   repositories.NewOfficeRepository(db),
		validate:  validation.New(),
		notifier:  orDiscard(notifier),
		log:       log.Named("projects"),
	}
}

func (s *ProjectService) GetPublished(ctx context.Context, id string) (models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return project, err
	}
	if project.PublishingStatus != models.ProjectPublished {
		return models.Project{}, apperr.NotFound("project")
	}
	return project, nil
}

func (s *ProjectService) ListPublished(ctx context.Context, q dto.ProjectQuery) (dto.ListResponse[models.Project], error) {
	filter := projectFilter(q)
	filter.PublishingStatus = models.ProjectPublished
	return s.list(ctx, filter)
}

// List returns the projects the principal manages, any status.
func (s *ProjectService) List(ctx context.Context, p *Principal, q dto.ProjectQuery) (dto.ListResponse[models.Project], error) {
	filter := projectFilter(q)
	if q.Status != "" {
		status := models.ProjectStatus(q.Status)
		if !status.Valid() {
			return dto.ListResponse[models.Project]{}, apperr.Validation(map[string]string{"status": projectStatusMessage})
		}
		filter.PublishingStatus = status
	}
	switch {
	case p.IsSiteAdmin():
	case p.HasRole(models.RoleOfficeAdmin):
		filter.OfficeID = p.OfficeID()
	default:
		return dto.ListResponse[models.Project]{}, apperr.Forbidden("no role grants access to projects")
	}
	return s.list(ctx, filter)
}

func (s *ProjectService) list(ctx context.Context, filter repositories.ProjectFilter) (dto.ListResponse[models.Project], error) {
	projects, total, err := s.projects.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.ListResponse[models.Project]{}, err
	}
	return dto.NewListResponse(projects, total, filter.Page.Number, filter.Page.Size), nil
}

func projectFilter(q dto.ProjectQuery) repositories.ProjectFilter {
	return repositories.ProjectFilter{
		OfficeID:  q.OfficeID,
		CityID:    q.CityID,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      pageOf(q.PageQuery),
	}
}

func (s *ProjectService) Get(ctx context.Context, p *Principal, id string) (models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return project, err
	}
	if err := canManageProject(p, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func canManageProject(p *Principal, project models.Project) error {
	switch {
	case p.IsSiteAdmin():
		return nil
	case p.HasRole(models.RoleOfficeAdmin) && project.OfficeID != nil && *project.OfficeID == p.OfficeID():
		return nil
	}
	return apperr.Forbidden("you cannot manage this project")
}

func (s *ProjectService) Create(ctx context.Context, p *Principal, req dto.ProjectRequest) (models.Project, error) {
	project := models.Project{PublishingStatus: models.ProjectDraft}
	if err := s.assemble(ctx, p, req, &project); err != nil {
		return models.Project{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.projects.WithTx(tx).Create(ctx, &project)
	})
	if err != nil {
		return models.Project{}, err
	}

	s.log.Info("project created", zap.String("id", project.ID), zap.String("slug", project.Slug))
	return s.projects.FindByID(ctx, project.ID)
}

// Update replaces the project and its owned rows. A publishing status in the
// request is applied too.
func (s *ProjectService) Update(ctx context.Context, p *Principal, id string, req dto.ProjectRequest) (models.Project, error) {
	existing, err := s.projects.FindRow(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := canManageProject(p, existing); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		ID:               existing.ID,
		Slug:             existing.Slug,
		PublishingStatus: existing.PublishingStatus,
		CreatedAt:        existing.CreatedAt,
		OfficeID:         existing.OfficeID,
		OrganizationID:   existing.OrganizationID,
	}
	if err := s.assemble(ctx, p, req, &project); err != nil {
		return models.Project{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.projects.WithTx(tx).Replace(ctx, &project)
	})
	if err != nil {
		return models.Project{}, err
	}

	s.log.Info("project updated", zap.String("id", project.ID))
	if project.PublishingStatus != existing.PublishingStatus {
		s.publish(project, notify.PublishingChanged)
	}
	return s.projects.FindByID(ctx, project.ID)
}

// SetPublishingStatus moves a project to any status and returns the bare
// row. Notification happens after commit.
func (s *ProjectService) SetPublishingStatus(ctx context.Context, p *Principal, id, status string) (models.Project, error) {
	next := models.ProjectStatus(status)
	if !next.Valid() {
		return models.Project{}, apperr.Validation(map[string]string{"publishingStatus": projectStatusMessage})
	}
	existing, err := s.projects.FindRow(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := canManageProject(p, existing); err != nil {
		return models.Project{}, err
	}
	if err := s.projects.UpdatePublishingStatus(ctx, id, next); err != nil {
		return models.Project{}, err
	}

	full, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	s.log.Info("project publishing status changed",
		zap.String("id", id),
		zap.String("status", string(next)),
	)
	s.publish(full, notify.PublishingChanged)
	return s.projects.FindRow(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, p *Principal, id string) error {
	project, err := s.projects.FindRow(ctx, id)
	if err != nil {
		return err
	}
	if err := canManageProject(p, project); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("project deleted", zap.String("id", id))
	s.publish(project, notify.Deleted)
	return nil
}

func (s *ProjectService) publish(project models.Project, kind notify.EventKind) {
	event := notify.Event{
		Kind:       kind,
		EntityType: notify.EntityProject,
		ID:         project.ID,
		Slug:       project.Slug,
		OccurredAt: time.Now().UTC(),
	}
	if kind == notify.PublishingChanged {
		event.Status = string(project.PublishingStatus)
		event.Public = project.PublishingStatus == models.ProjectPublished
		event.Document = NewProjectDocument(project)
	}
	if err := s.notifier.Publish(event); err != nil {
		s.log.Warn("project event dropped", zap.String("id", project.ID), zap.Error(err))
	}
}

func (s *ProjectService) assemble(ctx context.Context, p *Principal, req dto.ProjectRequest, project *models.Project) error {
	fields := apperr.FieldErrors{}
	if err := s.validate.Struct(req); err != nil {
		structFields, ok := validation.Fields(err)
		if !ok {
			return apperr.Internal(err)
		}
		for field, message := range structFields {
			fields.Add(field, message)
		}
	}

	if req.PublishingStatus != "" {
		status := models.ProjectStatus(req.PublishingStatus)
		if !status.Valid() {
			fields.Add("publishingStatus", projectStatusMessage)
		}
		project.PublishingStatus = status
	}

	var location *models.ProjectLocation
	if req.Location != nil {
		snapshot, err := snapshotLocation(ctx, s.locations, fields, req.Location)
		if err != nil {
			return err
		}
		location = &models.ProjectLocation{LocationSnapshot: snapshot}
	}

	if err := s.resolveOffice(ctx, fields, p, req.OfficeID, project); err != nil {
		return err
	}

	project.Name = utils.SanitizePlainText(req.Name)
	project.Slug = listingSlug(fields, req.Slug, project.Slug, project.Name)
	if err := fields.Err(); err != nil {
		return err
	}

	project.Description = utils.SanitizeRichText(req.Description)
	project.DeliveryDate = req.DeliveryDate
	project.Location = location
	project.Feature = &models.ProjectFeature{
		TotalArea:     req.Feature.TotalArea,
		BlockCount:    req.Feature.BlockCount,
		FloorCount:    req.Feature.FloorCount,
		UnitCount:     req.Feature.UnitCount,
		HasPool:       req.Feature.HasPool,
		HasGym:        req.Feature.HasGym,
		HasParking:    req.Feature.HasParking,
		HasSecurity:   req.Feature.HasSecurity,
		HasPlayground: req.Feature.HasPlayground,
	}
	imageOrders := make([]*int, len(req.Images))
	for i, image := range req.Images {
		imageOrders[i] = image.Order
	}
	imagePositions := positions(imageOrders)
	project.Images = make([]models.ProjectImage, 0, len(req.Images))
	for i, image := range req.Images {
		project.Images = append(project.Images, models.ProjectImage{URL: image.URL, Order: imagePositions[i]})
	}
	unitOrders := make([]*int, len(req.UnitSizes))
	for i, unit := range req.UnitSizes {
		unitOrders[i] = unit.Order
	}
	unitPositions := positions(unitOrders)
	project.UnitSizes = make([]models.ProjectUnitSize, 0, len(req.UnitSizes))
	for i, unit := range req.UnitSizes {
		project.UnitSizes = append(project.UnitSizes, models.ProjectUnitSize{
			Value:     utils.SanitizePlainText(unit.Value),
			GrossArea: unit.GrossArea,
			NetArea:   unit.NetArea,
			Price:     unit.Price,
			Order:     unitPositions[i],
		})
	}
	project.SocialFeatures = make([]models.ProjectSocialFeature, 0, len(req.SocialFeatures))
	for _, value := range req.SocialFeatures {
		project.SocialFeatures = append(project.SocialFeatures, models.ProjectSocialFeature{Value: utils.SanitizePlainText(value)})
	}
	return nil
}

// resolveOffice attaches the project to an office. Office admins always
// get their own; site admins may leave a project without one.
func (s *ProjectService) resolveOffice(ctx context.Context, fields apperr.FieldErrors, p *Principal, officeID string, project *models.Project) error {
	switch {
	case p.IsSiteAdmin():
		if officeID == "" {
			if project.OfficeID == nil {
				project.OrganizationID = nil
			}
			return nil
		}
	case p.HasRole(models.RoleOfficeAdmin):
		officeID = p.OfficeID()
	default:
		return apperr.Forbidden("no role grants access to projects")
	}

	office, err := s.offices.FindByID(ctx, officeID)
	if err = missingAsField(fields, "officeId", err); err != nil || office.ID == "" {
		return err
	}
	project.OfficeID = utils.Ptr(office.ID)
	project.OrganizationID = utils.Ptr(office.OrganizationID)
	return nil
}

// ProjectDocument is the search index representation of a project
type ProjectDocument struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	OfficeID     string     `json:"officeId,omitempty"`
	CityName     string     `json:"cityName,omitempty"`
	DistrictName string     `json:"districtName,omitempty"`
	Geohash      string     `json:"geohash,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

func NewProjectDocument(p models.Project) ProjectDocument {
	doc := ProjectDocument{
		ID:           p.ID,
		Slug:         p.Slug,
		Name:         p.Name,
		OfficeID:     utils.Deref(p.OfficeID),
		DeliveryDate: p.DeliveryDate,
	}
	if p.Location != nil {
		doc.CityName = p.Location.CityName
		doc.DistrictName = p.Location.DistrictName
		doc.Geohash = p.Location.Geohash
	}
	return doc
}
