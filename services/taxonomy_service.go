package services

import (
	"context"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaxonomyService manages property types, sub-types, descriptor categories
// and descriptors
type TaxonomyService struct {
	repo *repositories.TaxonomyRepository
	log  *zap.Logger
}

func NewTaxonomyService(db *gorm.DB, log *zap.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repositories.NewTaxonomyRepository(db), log: log.Named("taxonomy")}
}

func valueAndSlug(req dto.TaxonomyRequest, parentField, parentID string) (string, string, error) {
	fields := apperr.FieldErrors{}
	value := requireText(fields, "value", req.Value)
	slug := resolveSlug(fields, req.Slug, value)
	if parentField != "" {
		requireText(fields, parentField, parentID)
	}
	return value, slug, fields.Err()
}

func (s *TaxonomyService) ListTypes(ctx context.Context) ([]models.PropertyType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *TaxonomyService) GetType(ctx context.Context, id string) (models.PropertyType, error) {
	return s.repo.FindType(ctx, id)
}

func (s *TaxonomyService) CreateType(ctx context.Context, req dto.TaxonomyRequest) (models.PropertyType, error) {
	value, slug, err := valueAndSlug(req, "", "")
	if err != nil {
		return models.PropertyType{}, err
	}
	typ := models.PropertyType{Value: value, Slug: slug}
	if err := s.repo.Create(ctx, "property type", &typ); err != nil {
		return models.PropertyType{}, err
	}
	return typ, nil
}

func (s *TaxonomyService) UpdateType(ctx context.Context, id string, req dto.TaxonomyRequest) (models.PropertyType, error) {
	value, slug, err := valueAndSlug(req, "", "")
	if err != nil {
		return models.PropertyType{}, err
	}
	typ, err := s.repo.FindType(ctx, id)
	if err != nil {
		return typ, err
	}
	typ.Value, typ.Slug = value, slug
	if err := s.repo.Save(ctx, "property type", &typ); err != nil {
		return models.PropertyType{}, err
	}
	return typ, nil
}

func (s *TaxonomyService) DeleteType(ctx context.Context, id string) error {
	return s.repo.DeleteType(ctx, id)
}

func (s *TaxonomyService) ListSubTypes(ctx context.Context, typeID string) ([]models.PropertySubType, error) {
	return s.repo.ListSubTypes(ctx, typeID)
}

func (s *TaxonomyService) CreateSubType(ctx context.Context, req dto.TaxonomyRequest) (models.PropertySubType, error) {
	value, slug, err := valueAndSlug(req, "typeId", req.TypeID)
	if err != nil {
		return models.PropertySubType{}, err
	}
	if _, err := s.repo.FindType(ctx, req.TypeID); err != nil {
		return models.PropertySubType{}, err
	}
	subType := models.PropertySubType{Value: value, Slug: slug, TypeID: req.TypeID}
	if err := s.repo.Create(ctx, "property sub-type", &subType); err != nil {
		return models.PropertySubType{}, err
	}
	return subType, nil
}

func (s *TaxonomyService) UpdateSubType(ctx context.Context, id string, req dto.TaxonomyRequest) (models.PropertySubType, error) {
	value, slug, err := valueAndSlug(req, "typeId", req.TypeID)
	if err != nil {
		return models.PropertySubType{}, err
	}
	subType, err := s.repo.FindSubType(ctx, id)
	if err != nil {
		return subType, err
	}
	if _, err := s.repo.FindType(ctx, req.TypeID); err != nil {
		return models.PropertySubType{}, err
	}
	subType.Value, subType.Slug, subType.TypeID = value, slug, req.TypeID
	if err := s.repo.Save(ctx, "property sub-type", &subType); err != nil {
		return models.PropertySubType{}, err
	}
	return subType, nil
}

func (s *TaxonomyService) DeleteSubType(ctx context.Context, id string) error {
	return s.repo.DeleteSubType(ctx, id)
}

// ListCategories returns categories with their descriptors. An empty typeID
// returns every category.
func (s *TaxonomyService) ListCategories(ctx context.Context, typeID string) ([]models.PropertyDescriptorCategory, error) {
	return s.repo.ListCategories(ctx, typeID)
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id string) (models.PropertyDescriptorCategory, error) {
	return s.repo.FindCategory(ctx, id)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req dto.TaxonomyRequest) (models.PropertyDescriptorCategory, error) {
	value, slug, err := valueAndSlug(req, "typeId", req.TypeID)
	if err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	if _, err := s.repo.FindType(ctx, req.TypeID); err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	category := models.PropertyDescriptorCategory{Value: value, Slug: slug, TypeID: req.TypeID}
	if err := s.repo.Create(ctx, "descriptor category", &category); err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	return category, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, req dto.TaxonomyRequest) (models.PropertyDescriptorCategory, error) {
	value, slug, err := valueAndSlug(req, "typeId", req.TypeID)
	if err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return category, err
	}
	if _, err := s.repo.FindType(ctx, req.TypeID); err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	category.Value, category.Slug, category.TypeID = value, slug, req.TypeID
	if err := s.repo.Save(ctx, "descriptor category", &category); err != nil {
		return models.PropertyDescriptorCategory{}, err
	}
	return category, nil
}

// DeleteCategory also removes the category's descriptors.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Info("descriptor category deleted", zap.String("id", id))
	return nil
}

func (s *TaxonomyService) CreateDescriptor(ctx context.Context, req dto.TaxonomyRequest) (models.PropertyDescriptor, error) {
	value, slug, err := valueAndSlug(req, "categoryId", req.CategoryID)
	if err != nil {
		return models.PropertyDescriptor{}, err
	}
	if _, err := s.repo.FindCategory(ctx, req.CategoryID); err != nil {
		return models.PropertyDescriptor{}, err
	}
	descriptor := models.PropertyDescriptor{Value: value, Slug: slug, CategoryID: req.CategoryID}
	if err := s.repo.Create(ctx, "descriptor", &descriptor); err != nil {
		return models.PropertyDescriptor{}, err
	}
	return descriptor, nil
}

func (s *TaxonomyService) UpdateDescriptor(ctx context.Context, id string, req dto.TaxonomyRequest) (models.PropertyDescriptor, error) {
	value, slug, err := valueAndSlug(req, "categoryId", req.CategoryID)
	if err != nil {
		return models.PropertyDescriptor{}, err
	}
	descriptor, err := s.repo.FindDescriptor(ctx, id)
	if err != nil {
		return descriptor, err
	}
	if _, err := s.repo.FindCategory(ctx, req.CategoryID); err != nil {
		return models.PropertyDescriptor{}, err
	}
	descriptor.Value, descriptor.Slug, descriptor.CategoryID = value, slug, req.CategoryID
	if err := s.repo.Save(ctx, "descriptor", &descriptor); err != nil {
		return models.PropertyDescriptor{}, err
	}
	return descriptor, nil
}

func (s *TaxonomyService) DeleteDescriptor(ctx context.Context, id string) error {
	return s.repo.DeleteDescriptor(ctx, id)
}
