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

// LocationService manages the country → city → district → neighborhood tree.
// Child rows carry copies of their ancestors' names; every rename rewrites
// those copies in the same transaction.
type LocationService struct {
	db   *gorm.DB
	repo *repositories.LocationRepository
	log  *zap.Logger
}

func NewLocationService(db *gorm.DB, log *zap.Logger) *LocationService {
	return &LocationService{db: db, repo: repositories.NewLocationRepository(db), log: log.Named("locations")}
}

func (s *LocationService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return s.repo.ListCountries(ctx)
}

func (s *LocationService) ListCities(ctx context.Context, countryID string) ([]models.City, error) {
	return s.repo.ListCities(ctx, countryID)
}

func (s *LocationService) ListDistricts(ctx context.Context, cityID string) ([]models.District, error) {
	return s.repo.ListDistricts(ctx, cityID)
}

func (s *LocationService) ListNeighborhoods(ctx context.Context, cityID, districtID string) ([]models.Neighborhood, error) {
	return s.repo.ListNeighborhoods(ctx, cityID, districtID)
}

func (s *LocationService) GetNeighborhood(ctx context.Context, id string) (models.Neighborhood, error) {
	return s.repo.FindNeighborhood(ctx, id)
}

// Options maps rows onto the {id, name} dropdown shape
func Options[T any](rows []T, pick func(T) (string, string)) []dto.LocationOption {
	options := make([]dto.LocationOption, 0, len(rows))
	for _, row := range rows {
		id, name := pick(row)
		options = append(options, dto.LocationOption{ID: id, Name: name})
	}
	return options
}

type locationInput struct {
	name, slug string
}

func (s *LocationService) validate(level models.LocationLevel, req dto.LocationRequest) (locationInput, error) {
	fields := apperr.FieldErrors{}
	in := locationInput{name: requireText(fields, "name", req.Name)}
	in.slug = resolveSlug(fields, req.Slug, in.name)

	switch level {
	case models.LevelCity:
		requireText(fields, "countryId", req.CountryID)
	case models.LevelDistrict:
		requireText(fields, "cityId", req.CityID)
	case models.LevelNeighborhood:
		requireText(fields, "districtId", req.DistrictID)
	}
	return in, fields.Err()
}

// Create inserts a row at level after resolving its parent.
func (s *LocationService) Create(ctx context.Context, level models.LocationLevel, req dto.LocationRequest) (interface{}, error) {
	in, err := s.validate(level, req)
	if err != nil {
		return nil, err
	}

	switch level {
	case models.LevelCountry:
		country := models.Country{Name: in.name, Slug: in.slug}
		if err := s.repo.Create(ctx, level, &country); err != nil {
			return nil, err
		}
		return country, nil

	case models.LevelCity:
		country, err := s.repo.FindCountry(ctx, req.CountryID)
		if err != nil {
			return nil, err
		}
		city := models.City{Name: in.name, Slug: in.slug}
		city.CountryID, city.CountryName = country.ID, country.Name
		if err := s.repo.Create(ctx, level, &city); err != nil {
			return nil, err
		}
		return city, nil

	case models.LevelDistrict:
		city, err := s.repo.FindCity(ctx, req.CityID)
		if err != nil {
			return nil, err
		}
		district := models.District{Name: in.name, Slug: in.slug}
		copyCity(&district, city)
		if err := s.repo.Create(ctx, level, &district); err != nil {
			return nil, err
		}
		return district, nil

	case models.LevelNeighborhood:
		district, err := s.repo.FindDistrict(ctx, req.DistrictID)
		if err != nil {
			return nil, err
		}
		neighborhood := models.Neighborhood{Name: in.name, Slug: in.slug}
		copyDistrict(&neighborhood, district)
		if err := s.repo.Create(ctx, level, &neighborhood); err != nil {
			return nil, err
		}
		return neighborhood, nil
	}
	return nil, apperr.NotFound("location level")
}

func copyCity(d *models.District, city models.City) {
	d.CityID, d.CityName = city.ID, city.Name
	d.CountryID, d.CountryName = city.CountryID, city.CountryName
}

func copyDistrict(n *models.Neighborhood, district models.District) {
	n.DistrictID, n.DistrictName = district.ID, district.Name
	n.CityID, n.CityName = district.CityID, district.CityName
	n.CountryID, n.CountryName = district.CountryID, district.CountryName
}

// Update rewrites a row, re-resolves its parent and cascades the new names
// to every descendant.
func (s *LocationService) Update(ctx context.Context, level models.LocationLevel, id string, req dto.LocationRequest) (interface{}, error) {
	in, err := s.validate(level, req)
	if err != nil {
		return nil, err
	}

	var updated interface{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		switch level {
		case models.LevelCountry:
			updated, err = s.updateCountry(ctx, repo, id, in)
		case models.LevelCity:
			updated, err = s.updateCity(ctx, repo, id, in, req.CountryID)
		case models.LevelDistrict:
			updated, err = s.updateDistrict(ctx, repo, id, in, req.CityID)
		case models.LevelNeighborhood:
			updated, err = s.updateNeighborhood(ctx, repo, id, in, req.DistrictID)
		default:
			err = apperr.NotFound("location level")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("location updated", zap.String("level", string(level)), zap.String("id", id))
	return updated, nil
}

func (s *LocationService) updateCountry(ctx context.Context, repo *repositories.LocationRepository, id string, in locationInput) (models.Country, error) {
	country, err := repo.FindCountry(ctx, id)
	if err != nil {
		return country, err
	}
	country.Name, country.Slug = in.name, in.slug
	if err := repo.Save(ctx, models.LevelCountry, &country); err != nil {
		return country, err
	}
	err = repo.CascadeCountry(ctx, country)
	return country, err
}

func (s *LocationService) updateCity(ctx context.Context, repo *repositories.LocationRepository, id string, in locationInput, countryID string) (models.City, error) {
	city, err := repo.FindCity(ctx, id)
	if err != nil {
		return city, err
	}
	country, err := repo.FindCountry(ctx, countryID)
	if err != nil {
		return city, err
	}
	city.Name, city.Slug = in.name, in.slug
	city.CountryID, city.CountryName = country.ID, country.Name
	if err := repo.Save(ctx, models.LevelCity, &city); err != nil {
		return city, err
	}
	err = repo.CascadeCity(ctx, city)
	return city, err
}

func (s *LocationService) updateDistrict(ctx context.Context, repo *repositories.LocationRepository, id string, in locationInput, cityID string) (models.District, error) {
	district, err := repo.FindDistrict(ctx, id)
	if err != nil {
		return district, err
	}
	city, err := repo.FindCity(ctx, cityID)
	if err != nil {
		return district, err
	}
	district.Name, district.Slug = in.name, in.slug
	copyCity(&district, city)
	if err := repo.Save(ctx, models.LevelDistrict, &district); err != nil {
		return district, err
	}
	err = repo.CascadeDistrict(ctx, district)
	return district, err
}

func (s *LocationService) updateNeighborhood(ctx context.Context, repo *repositories.LocationRepository, id string, in locationInput, districtID string) (models.Neighborhood, error) {
	neighborhood, err := repo.FindNeighborhood(ctx, id)
	if err != nil {
		return neighborhood, err
	}
	district, err := repo.FindDistrict(ctx, districtID)
	if err != nil {
		return neighborhood, err
	}
	neighborhood.Name, neighborhood.Slug = in.name, in.slug
	copyDistrict(&neighborhood, district)
	err = repo.Save(ctx, models.LevelNeighborhood, &neighborhood)
	return neighborhood, err
}

// Delete removes a row that nothing references.
func (s *LocationService) Delete(ctx context.Context, level models.LocationLevel, id string) error {
	if err := s.repo.Delete(ctx, level, id); err != nil {
		return err
	}
	s.log.Info("location deleted", zap.String("level", string(level)), zap.String("id", id))
	return nil
}
