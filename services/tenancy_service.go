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

// TenancyService manages organizations, offices, roles and office workers
type TenancyService struct {
	organizations *repositories.OrganizationRepository
	offices       *repositories.OfficeRepository
	workers       *repositories.OfficeWorkerRepository
	roles         *repositories.RoleRepository
	users         *repositories.UserRepository
	locations     *repositories.LocationRepository
	log           *zap.Logger
}

func NewTenancyService(db *gorm.DB, log *zap.Logger) *TenancyService {
	return &TenancyService{
		organizations: repositories.NewOrganizationRepository(db),
		offices:       repositories.NewOfficeRepository(db),
		workers:       repositories.NewOfficeWorkerRepository(db),
		roles:         repositories.NewRoleRepository(db),
		users:         repositories.NewUserRepository(db),
		locations:     repositories.NewLocationRepository(db),
		log:           log.Named("tenancy"),
	}
}

// Organizations

func (s *TenancyService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	return s.organizations.List(ctx)
}

func (s *TenancyService) GetOrganization(ctx context.Context, id string) (models.Organization, error) {
	return s.organizations.FindByID(ctx, id)
}

func (s *TenancyService) CreateOrganization(ctx context.Context, req dto.OrganizationRequest) (models.Organization, error) {
	fields := apperr.FieldErrors{}
	name := requireText(fields, "name", req.Name)
	slug := resolveSlug(fields, req.Slug, name)
	if err := fields.Err(); err != nil {
		return models.Organization{}, err
	}
	organization := models.Organization{Name: name, Slug: slug}
	if err := s.organizations.Create(ctx, &organization); err != nil {
		return models.Organization{}, err
	}
	s.log.Info("organization created", zap.String("id", organization.ID))
	return organization, nil
}

func (s *TenancyService) UpdateOrganization(ctx context.Context, id string, req dto.OrganizationRequest) (models.Organization, error) {
	fields := apperr.FieldErrors{}
	name := requireText(fields, "name", req.Name)
	slug := resolveSlug(fields, req.Slug, name)
	if err := fields.Err(); err != nil {
		return models.Organization{}, err
	}
	organization, err := s.organizations.FindByID(ctx, id)
	if err != nil {
		return organization, err
	}
	organization.Name, organization.Slug = name, slug
	organization.Offices = nil
	if err := s.organizations.Save(ctx, &organization); err != nil {
		return models.Organization{}, err
	}
	return organization, nil
}

// DeleteOrganization fails with a Conflict while offices or listings remain.
func (s *TenancyService) DeleteOrganization(ctx context.Context, id string) error {
	return s.organizations.Delete(ctx, id)
}

// Offices

func (s *TenancyService) ListOffices(ctx context.Context, organizationID string) ([]models.Office, error) {
	return s.offices.List(ctx, organizationID)
}

func (s *TenancyService) GetOffice(ctx context.Context, id string) (models.Office, error) {
	return s.offices.FindByID(ctx, id)
}

func (s *TenancyService) CreateOffice(ctx context.Context, req dto.OfficeRequest) (models.Office, error) {
	office := models.Office{}
	if err := s.applyOffice(ctx, req, &office); err != nil {
		return models.Office{}, err
	}
	if err := s.offices.Create(ctx, &office); err != nil {
		return models.Office{}, err
	}
	s.log.Info("office created", zap.String("id", office.ID), zap.String("organization_id", office.OrganizationID))
	return s.offices.FindByID(ctx, office.ID)
}

func (s *TenancyService) UpdateOffice(ctx context.Context, id string, req dto.OfficeRequest) (models.Office, error) {
	office, err := s.offices.FindByID(ctx, id)
	if err != nil {
		return office, err
	}
	if err := s.applyOffice(ctx, req, &office); err != nil {
		return models.Office{}, err
	}
	office.Neighborhood = nil
	if err := s.offices.Save(ctx, &office); err != nil {
		return models.Office{}, err
	}
	return s.offices.FindByID(ctx, office.ID)
}

func (s *TenancyService) applyOffice(ctx context.Context, req dto.OfficeRequest, office *models.Office) error {
	fields := apperr.FieldErrors{}
	name := requireText(fields, "name", req.Name)
	slug := resolveSlug(fields, req.Slug, name)
	requireText(fields, "organizationId", req.OrganizationID)

	if req.OrganizationID != "" {
		_, err := s.organizations.FindByID(ctx, req.OrganizationID)
		if err = missingAsField(fields, "organizationId", err); err != nil {
			return err
		}
	}
	if req.NeighborhoodID != "" {
		_, err := s.locations.FindNeighborhood(ctx, req.NeighborhoodID)
		if err = missingAsField(fields, "neighborhoodId", err); err != nil {
			return err
		}
	}
	if err := fields.Err(); err != nil {
		return err
	}

	office.Name, office.Slug = name, slug
	office.OrganizationID = req.OrganizationID
	office.Phone = utils.SanitizePlainText(req.Phone)
	office.Email = req.Email
	office.Address = utils.SanitizePlainText(req.Address)
	office.NeighborhoodID = utils.NilIfEmpty(req.NeighborhoodID)
	return nil
}

// DeleteOffice fails with a Conflict while workers or listings remain.
func (s *TenancyService) DeleteOffice(ctx context.Context, id string) error {
	return s.offices.Delete(ctx, id)
}

// Roles

func (s *TenancyService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.roles.List(ctx)
}

func roleInput(req dto.RoleRequest) (string, models.RoleSlug, error) {
	fields := apperr.FieldErrors{}
	name := requireText(fields, "name", req.Name)
	slug, ok := models.ParseRoleSlug(req.Slug)
	if !ok {
		fields.Add("slug", "must be one of site-admin, office-admin, agent")
	}
	return name, slug, fields.Err()
}

func (s *TenancyService) CreateRole(ctx context.Context, req dto.RoleRequest) (models.Role, error) {
	name, slug, err := roleInput(req)
	if err != nil {
		return models.Role{}, err
	}
	role := models.Role{Name: name, Slug: slug}
	if err := s.roles.Create(ctx, &role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (s *TenancyService) UpdateRole(ctx context.Context, id string, req dto.RoleRequest) (models.Role, error) {
	name, slug, err := roleInput(req)
	if err != nil {
		return models.Role{}, err
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return role, err
	}
	role.Name, role.Slug = name, slug
	if err := s.roles.Save(ctx, &role); err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// DeleteRole fails with a Conflict while workers hold the role.
func (s *TenancyService) DeleteRole(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}

// Office workers

func (s *TenancyService) ListWorkers(ctx context.Context, officeID string) ([]models.OfficeWorker, error) {
	return s.workers.List(ctx, officeID)
}

func (s *TenancyService) GetWorker(ctx context.Context, id string) (models.OfficeWorker, error) {
	return s.workers.FindByID(ctx, id)
}

// GetWorkerBySlug serves public agent pages
func (s *TenancyService) GetWorkerBySlug(ctx context.Context, slug string) (models.OfficeWorker, error) {
	return s.workers.FindBySlug(ctx, slug)
}

func (s *TenancyService) CreateWorker(ctx context.Context, req dto.OfficeWorkerRequest) (models.OfficeWorker, error) {
	worker := models.OfficeWorker{}
	if err := s.applyWorker(ctx, req, &worker); err != nil {
		return models.OfficeWorker{}, err
	}
	if err := s.workers.Create(ctx, &worker); err != nil {
		return models.OfficeWorker{}, err
	}
	s.log.Info("office worker created",
		zap.String("id", worker.ID),
		zap.String("office_id", worker.OfficeID),
	)
	return s.workers.FindByID(ctx, worker.ID)
}

// UpdateWorker rewrites the worker named by req.ID.
func (s *TenancyService) UpdateWorker(ctx context.Context, req dto.OfficeWorkerRequest) (models.OfficeWorker, error) {
	if req.ID == "" {
		return models.OfficeWorker{}, apperr.Validation(map[string]string{"id": "is required"})
	}
	worker, err := s.workers.FindByID(ctx, req.ID)
	if err != nil {
		return worker, err
	}
	if err := s.applyWorker(ctx, req, &worker); err != nil {
		return models.OfficeWorker{}, err
	}
	worker.Office, worker.Role = nil, nil
	if err := s.workers.Save(ctx, &worker); err != nil {
		return models.OfficeWorker{}, err
	}
	s.log.Info("office worker updated", zap.String("id", worker.ID))
	return s.workers.FindByID(ctx, worker.ID)
}

func (s *TenancyService) applyWorker(ctx context.Context, req dto.OfficeWorkerRequest, worker *models.OfficeWorker) error {
	fields := apperr.FieldErrors{}
	worker.FirstName = requireText(fields, "firstName", req.FirstName)
	worker.LastName = requireText(fields, "lastName", req.LastName)
	worker.Slug = resolveSlug(fields, req.Slug, worker.FullName())
	requireText(fields, "officeId", req.OfficeID)
	requireText(fields, "roleId", req.RoleID)

	if req.OfficeID != "" {
		_, err := s.offices.FindByID(ctx, req.OfficeID)
		if err = missingAsField(fields, "officeId", err); err != nil {
			return err
		}
	}
	if req.RoleID != "" {
		_, err := s.roles.FindByID(ctx, req.RoleID)
		if err = missingAsField(fields, "roleId", err); err != nil {
			return err
		}
	}
	if req.UserID != "" {
		_, err := s.users.FindByID(ctx, req.UserID)
		if err = missingAsField(fields, "userId", err); err != nil {
			return err
		}
	}
	if err := fields.Err(); err != nil {
		return err
	}

	worker.Email = req.Email
	worker.Phone = utils.SanitizePlainText(req.Phone)
	worker.Title = utils.SanitizePlainText(req.Title)
	worker.OfficeID = req.OfficeID
	worker.RoleID = req.RoleID
	worker.UserID = utils.NilIfEmpty(req.UserID)
	return nil
}

// DeleteWorker fails with a Conflict while listings are assigned to the worker.
func (s *TenancyService) DeleteWorker(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation(map[string]string{"id": "is required"})
	}
	if err := s.workers.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("office worker deleted", zap.String("id", id))
	return nil
}
