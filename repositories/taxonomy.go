package repositories

import (
	"context"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxonomyRepository handles property types, sub-types, descriptor
// categories and descriptors
type TaxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) WithTx(tx *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: tx}
}

func orderByValue(db *gorm.DB) *gorm.DB {
	return db.Order("value")
}

// ListTypes returns every type with its sub-types
func (r *TaxonomyRepository) ListTypes(ctx context.Context) ([]models.PropertyType, error) {
	var types []models.PropertyType
	err := r.db.WithContext(ctx).Preload("SubTypes", orderByValue).Order("value").Find(&types).Error
	return types, translate(err, "property type")
}

func (r *TaxonomyRepository) FindType(ctx context.Context, id string) (models.PropertyType, error) {
	var typ models.PropertyType
	err := r.db.WithContext(ctx).Preload("SubTypes", orderByValue).First(&typ, "id = ?", id).Error
	return typ, translate(err, "property type")
}

func (r *TaxonomyRepository) FindTypeBySlug(ctx context.Context, slug string) (models.PropertyType, error) {
	var typ models.PropertyType
	err := r.db.WithContext(ctx).First(&typ, "slug = ?", slug).Error
	return typ, translate(err, "property type")
}

func (r *TaxonomyRepository) ListSubTypes(ctx context.Context, typeID string) ([]models.PropertySubType, error) {
	var subTypes []models.PropertySubType
	err := r.db.WithContext(ctx).Where("type_id = ?", typeID).Order("value").Find(&subTypes).Error
	return subTypes, translate(err, "property sub-type")
}

func (r *TaxonomyRepository) FindSubType(ctx context.Context, id string) (models.PropertySubType, error) {
	var subType models.PropertySubType
	err := r.db.WithContext(ctx).First(&subType, "id = ?", id).Error
	return subType, translate(err, "property sub-type")
}

// ListCategories returns categories with nested descriptors, optionally
// narrowed to one type
func (r *TaxonomyRepository) ListCategories(ctx context.Context, typeID string) ([]models.PropertyDescriptorCategory, error) {
	var categories []models.PropertyDescriptorCategory
	db := r.db.WithContext(ctx).Preload("Descriptors", orderByValue)
	if typeID != "" {
		db = db.Where("type_id = ?", typeID)
	}
	err := db.Order("value").Find(&categories).Error
	return categories, translate(err, "descriptor category")
}

func (r *TaxonomyRepository) FindCategory(ctx context.Context, id string) (models.PropertyDescriptorCategory, error) {
	var category models.PropertyDescriptorCategory
	err := r.db.WithContext(ctx).Preload("Descriptors", orderByValue).First(&category, "id = ?", id).Error
	return category, translate(err, "descriptor category")
}

func (r *TaxonomyRepository) FindDescriptor(ctx context.Context, id string) (models.PropertyDescriptor, error) {
	var descriptor models.PropertyDescriptor
	err := r.db.WithContext(ctx).First(&descriptor, "id = ?", id).Error
	return descriptor, translate(err, "descriptor")
}

// FindDescriptors loads the given descriptors with their category. Missing
// ids are simply absent from the result.
func (r *TaxonomyRepository) FindDescriptors(ctx context.Context, ids []string) ([]models.PropertyDescriptor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var descriptors []models.PropertyDescriptor
	err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&descriptors).Error
	return descriptors, translate(err, "descriptor")
}

// Create inserts a type, sub-type, category or descriptor
func (r *TaxonomyRepository) Create(ctx context.Context, entity string, row interface{}) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error, entity)
}

// Save writes the scalar columns of an existing row
func (r *TaxonomyRepository) Save(ctx context.Context, entity string, row interface{}) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error, entity)
}

// DeleteType fails while sub-types, categories or listings reference it.
func (r *TaxonomyRepository) DeleteType(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := guardDependents(tx, "property type",
			dependentCheck{&models.PropertySubType{}, "type_id", id},
			dependentCheck{&models.PropertyDescriptorCategory{}, "type_id", id},
			dependentCheck{&models.Property{}, "type_id", id},
		)
		if err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.PropertyType{}), "property type")
	})
}

// DeleteSubType fails while listings reference it.
func (r *TaxonomyRepository) DeleteSubType(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardDependents(tx, "property sub-type", dependentCheck{&models.Property{}, "sub_type_id", id}); err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.PropertySubType{}), "property sub-type")
	})
}

// DeleteCategory removes the category, its descriptors and their listing
// assignments. Listings themselves are untouched.
func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		descriptorIDs := tx.Model(&models.PropertyDescriptor{}).Select("id").Where("category_id = ?", id)
		if err := tx.Where("property_descriptor_id IN (?)", descriptorIDs).
			Delete(&models.PropertyDescriptorAssignment{}).Error; err != nil {
			return translateDelete(err, "descriptor category")
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.PropertyDescriptor{}).Error; err != nil {
			return translateDelete(err, "descriptor category")
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.PropertyDescriptorCategory{}), "descriptor category")
	})
}

// DeleteDescriptor removes the descriptor and its listing assignments.
func (r *TaxonomyRepository) DeleteDescriptor(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_descriptor_id = ?", id).
			Delete(&models.PropertyDescriptorAssignment{}).Error; err != nil {
			return translateDelete(err, "descriptor")
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.PropertyDescriptor{}), "descriptor")
	})
}
