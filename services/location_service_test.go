package services

import (
	"context"
	"testing"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocationDeleteBlockedByChildren(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLocationService(db, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, models.LevelCountry, dto.LocationRequest{Name: "Türkiye"})
	require.NoError(t, err)
	country := created.(models.Country)
	assert.Equal(t, "turkiye", country.Slug)

	created, err = svc.Create(ctx, models.LevelCity, dto.LocationRequest{Name: "İstanbul", CountryID: country.ID})
	require.NoError(t, err)
	city := created.(models.City)
	assert.Equal(t, "istanbul", city.Slug)
	assert.Equal(t, "Türkiye", city.CountryName)

	err = svc.Delete(ctx, models.LevelCountry, country.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "country has dependent records, cannot delete", err.Error())

	require.NoError(t, svc.Delete(ctx, models.LevelCity, city.ID))
	require.NoError(t, svc.Delete(ctx, models.LevelCountry, country.ID))

	countries, err := svc.ListCountries(ctx)
	require.NoError(t, err)
	assert.Empty(t, countries)
}

func TestLocationCreateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLocationService(db, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.LevelCity, dto.LocationRequest{Name: "Ankara"})
	assert.Contains(t, fieldsOf(t, err), "countryId")

	_, err = svc.Create(ctx, models.LevelCity, dto.LocationRequest{Name: "Ankara", CountryID: "missing"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, models.LevelCountry, dto.LocationRequest{Name: "Türkiye", Slug: "Not A Slug"})
	assert.Contains(t, fieldsOf(t, err), "slug")

	_, err = svc.Create(ctx, models.LevelCountry, dto.LocationRequest{Name: "Türkiye"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.LevelCountry, dto.LocationRequest{Name: "Türkiye"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestLocationRenameCascades(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewLocationService(db, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, models.LevelCity, f.City.ID, dto.LocationRequest{
		Name:      "İstanbul Büyükşehir",
		Slug:      "istanbul",
		CountryID: f.Country.ID,
	})
	require.NoError(t, err)

	district, err := svc.repo.FindDistrict(ctx, f.District.ID)
	require.NoError(t, err)
	assert.Equal(t, "İstanbul Büyükşehir", district.CityName)

	neighborhood, err := svc.GetNeighborhood(ctx, f.Neighborhood.ID)
	require.NoError(t, err)
	assert.Equal(t, "İstanbul Büyükşehir", neighborhood.CityName)

	_, err = svc.Update(ctx, models.LevelCountry, f.Country.ID, dto.LocationRequest{Name: "Turkey"})
	require.NoError(t, err)
	neighborhood, err = svc.GetNeighborhood(ctx, f.Neighborhood.ID)
	require.NoError(t, err)
	assert.Equal(t, "Turkey", neighborhood.CountryName)
}

func TestLocationOptions(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewLocationService(db, zap.NewNop())

	districts, err := svc.ListDistricts(context.Background(), f.City.ID)
	require.NoError(t, err)
	options := Options(districts, func(d models.District) (string, string) { return d.ID, d.Name })
	require.Len(t, options, 2)
	assert.Equal(t, "Beşiktaş", options[0].Name)
	assert.Equal(t, "Kadıköy", options[1].Name)
}
