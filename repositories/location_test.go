package repositories

import (
	"context"
	"testing"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationListsAreOrderedAndEmptyForUnknownParents(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewLocationRepository(db)
	ctx := context.Background()

	districts, err := repo.ListDistricts(ctx, f.City.ID)
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "Beşiktaş", districts[0].Name)
	assert.Equal(t, "Kadıköy", districts[1].Name)

	cities, err := repo.ListCities(ctx, "no-such-country")
	require.NoError(t, err)
	assert.Empty(t, cities)

	neighborhoods, err := repo.ListNeighborhoods(ctx, f.City.ID, "no-such-district")
	require.NoError(t, err)
	assert.Empty(t, neighborhoods)

	neighborhoods, err = repo.ListNeighborhoods(ctx, f.City.ID, f.District.ID)
	require.NoError(t, err)
	require.Len(t, neighborhoods, 2)
	assert.Equal(t, "Fenerbahçe", neighborhoods[0].Name)
}

func TestLocationDeleteWithChildrenConflicts(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewLocationRepository(db)
	ctx := context.Background()

	err := repo.Delete(ctx, models.LevelCountry, f.Country.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "has dependent records, cannot delete")

	_, err = repo.FindCountry(ctx, f.Country.ID)
	assert.NoError(t, err, "country must survive the failed delete")

	err = repo.Delete(ctx, models.LevelNeighborhood, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLocationDuplicateSlugConflicts(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewLocationRepository(db)

	dup := models.City{Name: "Istanbul", Slug: "istanbul", CountryID: f.Country.ID}
	err := repo.Create(context.Background(), models.LevelCity, &dup)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestLocationCascadeCountry(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewLocationRepository(db)
	ctx := context.Background()

	f.Country.Name = "Turkey"
	require.NoError(t, repo.CascadeCountry(ctx, f.Country))

	city, err := repo.FindCity(ctx, f.City.ID)
	require.NoError(t, err)
	assert.Equal(t, "Turkey", city.CountryName)

	neighborhood, err := repo.FindNeighborhood(ctx, f.Neighborhood.ID)
	require.NoError(t, err)
	assert.Equal(t, "Turkey", neighborhood.CountryName)
}
