package repositories

import (
	"context"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocationRepository handles database operations for the location tree
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository instance
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *LocationRepository) WithTx(tx *gorm.DB) *LocationRepository {
	return &LocationRepository{db: tx}
}

func (r *LocationRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := r.db.WithContext(ctx).Order("name").Find(&countries).Error
	return countries, translate(err, "country")
}

func (r *LocationRepository) ListCities(ctx context.Context, countryID string) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&cities).Error
	return cities, translate(err, "city")
}

func (r *LocationRepository) ListDistricts(ctx context.Context, cityID string) ([]models.District, error) {
	var districts []models.District
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&districts).Error
	return districts, translate(err, "district")
}

func (r *LocationRepository) ListNeighborhoods(ctx context.Context, cityID, districtID string) ([]models.Neighborhood, error) {
	var neighborhoods []models.Neighborhood
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND district_id = ?", cityID, districtID).
		Order("name").
		Find(&neighborhoods).Error
	return neighborhoods, translate(err, "neighborhood")
}

func (r *LocationRepository) FindCountry(ctx context.Context, id string) (models.Country, error) {
	var country models.Country
	err := r.db.WithContext(ctx).First(&country, "id = ?", id).Error
	return country, translate(err, "country")
}

func (r *LocationRepository) FindCity(ctx context.Context, id string) (models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error
	return city, translate(err, "city")
}

func (r *LocationRepository) FindDistrict(ctx context.Context, id string) (models.District, error) {
	var district models.District
	err := r.db.WithContext(ctx).First(&district, "id = ?", id).Error
	return district, translate(err, "district")
}

func (r *LocationRepository) FindNeighborhood(ctx context.Context, id string) (models.Neighborhood, error) {
	var neighborhood models.Neighborhood
	err := r.db.WithContext(ctx).First(&neighborhood, "id = ?", id).Error
	return neighborhood, translate(err, "neighborhood")
}

// Create inserts any of the four location models
func (r *LocationRepository) Create(ctx context.Context, level models.LocationLevel, row interface{}) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error, level.Entity())
}

// Save writes every column of an existing location row
func (r *LocationRepository) Save(ctx context.Context, level models.LocationLevel, row interface{}) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error, level.Entity())
}

// CascadeCountry rewrites the copied country name below a country.
func (r *LocationRepository) CascadeCountry(ctx context.Context, country models.Country) error {
	db := r.db.WithContext(ctx)
	for _, model := range []interface{}{&models.City{}, &models.District{}, &models.Neighborhood{}} {
		err := db.Model(model).
			Where("country_id = ?", country.ID).
			Update("country_name", country.Name).Error
		if err != nil {
			return translate(err, "location")
		}
	}
	return nil
}

// CascadeCity rewrites the copied city and country fields below a city.
func (r *LocationRepository) CascadeCity(ctx context.Context, city models.City) error {
	db := r.db.WithContext(ctx)
	fields := map[string]interface{}{
		"city_name":    city.Name,
		"country_id":   city.CountryID,
		"country_name": city.CountryName,
	}
	if err := db.Model(&models.District{}).Where("city_id = ?", city.ID).Updates(fields).Error; err != nil {
		return translate(err, "district")
	}
	if err := db.Model(&models.Neighborhood{}).Where("city_id = ?", city.ID).Updates(fields).Error; err != nil {
		return translate(err, "neighborhood")
	}
	return nil
}

// CascadeDistrict rewrites the copied fields of a district's neighborhoods.
func (r *LocationRepository) CascadeDistrict(ctx context.Context, district models.District) error {
	err := r.db.WithContext(ctx).Model(&models.Neighborhood{}).
		Where("district_id = ?", district.ID).
		Updates(map[string]interface{}{
			"district_name": district.Name,
			"city_id":       district.CityID,
			"city_name":     district.CityName,
			"country_id":    district.CountryID,
			"country_name":  district.CountryName,
		}).Error
	return translate(err, "neighborhood")
}

// Delete removes one location row. Children block the delete with a Conflict
// and the database constraint backs the same rule.
func (r *LocationRepository) Delete(ctx context.Context, level models.LocationLevel, id string) error {
	db := r.db.WithContext(ctx)
	entity := level.Entity()

	var (
		model  interface{}
		checks []dependentCheck
	)
	switch level {
	case models.LevelCountry:
		model = &models.Country{}
		checks = []dependentCheck{{&models.City{}, "country_id", id}}
	case models.LevelCity:
		model = &models.City{}
		checks = []dependentCheck{{&models.District{}, "city_id", id}}
	case models.LevelDistrict:
		model = &models.District{}
		checks = []dependentCheck{{&models.Neighborhood{}, "district_id", id}}
	case models.LevelNeighborhood:
		model = &models.Neighborhood{}
		checks = []dependentCheck{{&models.Office{}, "neighborhood_id", id}}
	default:
		return translate(gorm.ErrRecordNotFound, entity)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := guardDependents(tx, entity, checks...); err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(model), entity)
	})
}
