package repositories

import (
	"context"
	"strings"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropertyFilter narrows listing queries. Empty fields do not filter.
type PropertyFilter struct {
	PublishingStatus models.PublishingStatus
	OrganizationID   string
	OfficeID         string
	AgentID          string
	TypeID           string
	SubTypeID        string
	ContractID       string
	CityID           string
	DistrictID       string
	GeohashPrefix    string
	MinPrice         *float64
	MaxPrice         *float64
	Search           string
	SortBy           string
	SortOrder        string
	Page             Page
}

// Valid sort columns (whitelist approach for security)
var propertySortColumns = map[string]string{
	"created_at": "properties.created_at",
	"updated_at": "properties.updated_at",
	"price":      "properties.price",
	"name":       "properties.name",
}

func sortClause(columns map[string]string, sortBy, sortOrder string) string {
	column, ok := columns[sortBy]
	if !ok {
		column = columns["created_at"]
	}
	if !strings.EqualFold(sortOrder, "asc") {
		return column + " DESC"
	}
	return column + " ASC"
}

// PropertyRepository handles the listing aggregate
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) WithTx(tx *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: tx}
}

func (r *PropertyRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Type").
		Preload("SubType").
		Preload("Contract").
		Preload("Status").
		Preload("DeedStatus").
		Preload("Office").
		Preload("Agent").
		Preload("Location").
		Preload("Feature").
		Preload("Images", inOrder).
		Preload("Descriptors", orderByValue)
}

// FindByID loads a listing with every owned and referenced row
func (r *PropertyRepository) FindByID(ctx context.Context, id string) (models.Property, error) {
	var property models.Property
	err := r.preloaded(ctx).First(&property, "properties.id = ?", id).Error
	return property, translate(err, "property")
}

func (r *PropertyRepository) FindBySlug(ctx context.Context, slug string) (models.Property, error) {
	var property models.Property
	err := r.preloaded(ctx).First(&property, "properties.slug = ?", slug).Error
	return property, translate(err, "property")
}

// FindWithPagination retrieves listings with pagination, filtering and sorting
func (r *PropertyRepository) FindWithPagination(ctx context.Context, filter PropertyFilter) ([]models.Property, int64, error) {
	var (
		properties []models.Property
		totalCount int64
	)
	page := filter.Page.Normalize()

	db := r.db.WithContext(ctx).Model(&models.Property{})
	if filter.PublishingStatus != "" {
		db = db.Where("properties.publishing_status = ?", filter.PublishingStatus)
	}
	if filter.OrganizationID != "" {
		db = db.Where("properties.organization_id = ?", filter.OrganizationID)
	}
	if filter.OfficeID != "" {
		db = db.Where("properties.office_id = ?", filter.OfficeID)
	}
	if filter.AgentID != "" {
		db = db.Where("properties.agent_id = ?", filter.AgentID)
	}
	if filter.TypeID != "" {
		db = db.Where("properties.type_id = ?", filter.TypeID)
	}
	if filter.SubTypeID != "" {
		db = db.Where("properties.sub_type_id = ?", filter.SubTypeID)
	}
	if filter.ContractID != "" {
		db = db.Where("properties.contract_id = ?", filter.ContractID)
	}
	if filter.MinPrice != nil {
		db = db.Where("properties.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("properties.price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where("LOWER(properties.name) LIKE ?", pattern)
	}
	if filter.CityID != "" || filter.DistrictID != "" || filter.GeohashPrefix != "" {
		db = db.Joins("JOIN property_locations ON property_locations.property_id = properties.id")
		if filter.CityID != "" {
			db = db.Where("property_locations.city_id = ?", filter.CityID)
		}
		if filter.DistrictID != "" {
			db = db.Where("property_locations.district_id = ?", filter.DistrictID)
		}
		if filter.GeohashPrefix != "" {
			db = db.Where("property_locations.geohash LIKE ?", filter.GeohashPrefix+"%")
		}
	}

	// Count total records (with the same filters)
	if err := db.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return nil, 0, translate(err, "property")
	}

	err := db.
		Preload("Type").
		Preload("SubType").
		Preload("Contract").
		Preload("Location").
		Preload("Images", inOrder).
		Order(sortClause(propertySortColumns, filter.SortBy, filter.SortOrder)).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&properties).Error
	if err != nil {
		return nil, 0, translate(err, "property")
	}
	return properties, totalCount, nil
}

// Create inserts the listing and its owned rows. Callers run it inside a
// transaction.
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(property).Error; err != nil {
		return translate(err, "property")
	}
	return r.createChildren(db, property)
}

// Replace overwrites the listing's columns and recreates every owned row.
func (r *PropertyRepository) Replace(ctx context.Context, property *models.Property) error {
	db := r.db.WithContext(ctx)
	err := db.Model(property).
		Select("*").
		Omit("ID", "CreatedAt", clause.Associations).
		Updates(property).Error
	if err != nil {
		return translate(err, "property")
	}
	if err := r.deleteChildren(db, property.ID); err != nil {
		return err
	}
	return r.createChildren(db, property)
}

func (r *PropertyRepository) createChildren(db *gorm.DB, property *models.Property) error {
	if property.Location != nil {
		property.Location.ID = ""
		property.Location.PropertyID = property.ID
		if err := db.Create(property.Location).Error; err != nil {
			return translate(err, "property location")
		}
	}
	if property.Feature != nil {
		property.Feature.ID = ""
		property.Feature.PropertyID = property.ID
		if err := db.Create(property.Feature).Error; err != nil {
			return translate(err, "property feature")
		}
	}
	if len(property.Images) > 0 {
		for i := range property.Images {
			property.Images[i].ID = ""
			property.Images[i].PropertyID = property.ID
		}
		if err := db.Create(&property.Images).Error; err != nil {
			return translate(err, "property image")
		}
	}
	if len(property.Descriptors) > 0 {
		assignments := make([]models.PropertyDescriptorAssignment, 0, len(property.Descriptors))
		for _, d := range property.Descriptors {
			assignments = append(assignments, models.PropertyDescriptorAssignment{
				PropertyID:           property.ID,
				PropertyDescriptorID: d.ID,
			})
		}
		if err := db.Create(&assignments).Error; err != nil {
			return translate(err, "descriptor")
		}
	}
	return nil
}

func (r *PropertyRepository) deleteChildren(db *gorm.DB, propertyID string) error {
	children := []interface{}{
		&models.PropertyDescriptorAssignment{},
		&models.PropertyImage{},
		&models.PropertyFeature{},
		&models.PropertyLocation{},
	}
	for _, child := range children {
		if err := db.Where("property_id = ?", propertyID).Delete(child).Error; err != nil {
			return translateDelete(err, "property")
		}
	}
	return nil
}

// UpdatePublishingStatus sets the moderation state of one listing
func (r *PropertyRepository) UpdatePublishingStatus(ctx context.Context, id string, status models.PublishingStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		Update("publishing_status", status)
	if result.Error != nil {
		return translate(result.Error, "property")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "property")
	}
	return nil
}

// Delete removes the listing and its owned rows
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.ProspectCustomer{}).
			Where("property_id = ?", id).
			Update("property_id", nil).Error; err != nil {
			return translate(err, "property")
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.Property{}), "property")
	})
}

// CountByStatus returns listing counts keyed by publishing status
func (r *PropertyRepository) CountByStatus(ctx context.Context) (map[models.PublishingStatus]int64, error) {
	var rows []struct {
		PublishingStatus models.PublishingStatus
		Count            int64
	}
	err := r.db.WithContext(ctx).Model(&models.Property{}).
		Select("publishing_status, COUNT(*) AS count").
		Group("publishing_status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "property")
	}
	counts := make(map[models.PublishingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.PublishingStatus] = row.Count
	}
	return counts, nil
}
