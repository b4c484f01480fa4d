package repositories

import (
	"context"
	"testing"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/testutil"
	"github.com/emlak-portal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newListing(f *testutil.Fixtures, tenant testutil.Tenant, slug string) *models.Property {
	return &models.Property{
		Name:             "Listing " + slug,
		Slug:             slug,
		Price:            1000,
		TypeID:           f.Residential.ID,
		SubTypeID:        f.Apartment.ID,
		ContractID:       f.ForRent.ID,
		StatusID:         f.Empty.ID,
		DeedStatusID:     f.NotApplicable.ID,
		OfficeID:         tenant.Office.ID,
		OrganizationID:   tenant.Organization.ID,
		PublishingStatus: models.StatusPending,
	}
}

func createListing(t *testing.T, db *gorm.DB, f *testutil.Fixtures, slug string) *models.Property {
	t.Helper()
	tenant := testutil.CreateTenant(t, db, f, slug)
	prop := newListing(f, tenant, slug)
	require.NoError(t, NewPropertyRepository(db).Create(context.Background(), prop))
	return prop
}

func TestPropertyCreateWritesAggregateAndKeepsImageOrder(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "agg")

	prop := newListing(f, tenant, "aggregate")
	prop.Location = &models.PropertyLocation{LocationSnapshot: models.LocationSnapshot{
		CityID: f.City.ID, CityName: f.City.Name, DistrictID: f.District.ID,
		Latitude: utils.Ptr(40.9833), Longitude: utils.Ptr(29.0297), Geohash: "sxk9hsfc1",
	}}
	prop.Feature = &models.PropertyFeature{Bedrooms: utils.Ptr(3)}
	prop.Images = []models.PropertyImage{
		{URL: "https://img/c.jpg", Order: 2},
		{URL: "https://img/a.jpg", Order: 0},
		{URL: "https://img/b.jpg", Order: 1},
	}
	prop.Descriptors = []models.PropertyDescriptor{f.Interior[0], f.Interior[1]}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(ctx, prop)
	}))

	got, err := repo.FindByID(ctx, prop.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 3)
	assert.Equal(t, "https://img/a.jpg", got.Images[0].URL)
	assert.Equal(t, "https://img/b.jpg", got.Images[1].URL)
	assert.Equal(t, "https://img/c.jpg", got.Images[2].URL)
	assert.Len(t, got.Descriptors, 2)
	require.NotNil(t, got.Location)
	assert.Equal(t, f.District.ID, got.Location.DistrictID)
	require.NotNil(t, got.Feature)
	assert.Equal(t, 3, *got.Feature.Bedrooms)
	assert.Equal(t, models.StatusPending, got.PublishingStatus)
}

func TestPropertyReplaceRecreatesChildren(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	prop := createListing(t, db, f, "replace")
	prop.Images = []models.PropertyImage{{URL: "https://img/1.jpg"}}
	prop.Descriptors = []models.PropertyDescriptor{f.Interior[0]}
	require.NoError(t, repo.Replace(ctx, prop))

	prop.Name = "Renamed"
	prop.Images = []models.PropertyImage{{URL: "https://img/2.jpg"}, {URL: "https://img/3.jpg", Order: 1}}
	prop.Descriptors = []models.PropertyDescriptor{f.Interior[1]}
	require.NoError(t, repo.Replace(ctx, prop))

	got, err := repo.FindByID(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://img/2.jpg", got.Images[0].URL)
	require.Len(t, got.Descriptors, 1)
	assert.Equal(t, f.Interior[1].ID, got.Descriptors[0].ID)

	var images int64
	db.Model(&models.PropertyImage{}).Where("property_id = ?", prop.ID).Count(&images)
	assert.EqualValues(t, 2, images)
}

func TestPropertyFindWithPagination(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "page")

	ids := make([]string, 0, 3)
	for i, price := range []float64{300, 100, 200} {
		prop := newListing(f, tenant, "page-"+string(rune('a'+i)))
		prop.Price = price
		prop.Location = &models.PropertyLocation{LocationSnapshot: models.LocationSnapshot{CityID: f.City.ID, Geohash: "sxk9hsfc1"}}
		require.NoError(t, repo.Create(ctx, prop))
		ids = append(ids, prop.ID)
	}
	require.NoError(t, repo.UpdatePublishingStatus(ctx, ids[0], models.StatusPublished))
	require.NoError(t, repo.UpdatePublishingStatus(ctx, ids[1], models.StatusPublished))

	published, total, err := repo.FindWithPagination(ctx, PropertyFilter{
		PublishingStatus: models.StatusPublished,
		SortBy:           "price",
		SortOrder:        "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, published, 2)
	assert.Equal(t, 100.0, published[0].Price)
	assert.Equal(t, 300.0, published[1].Price)

	cheap, total, err := repo.FindWithPagination(ctx, PropertyFilter{MaxPrice: utils.Ptr(250.0), CityID: f.City.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, cheap, 2)

	nearby, total, err := repo.FindWithPagination(ctx, PropertyFilter{GeohashPrefix: "sxk9"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, nearby, 3)

	paged, total, err := repo.FindWithPagination(ctx, PropertyFilter{Page: Page{Number: 2, Size: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, paged, 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.StatusPublished])
	assert.EqualValues(t, 1, counts[models.StatusPending])
}

func TestPropertyStatusAndDelete(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	err := repo.UpdatePublishingStatus(ctx, "missing", models.StatusPublished)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	prop := createListing(t, db, f, "delete")
	prop.Images = []models.PropertyImage{{URL: "https://img/x.jpg"}}
	prop.Feature = &models.PropertyFeature{}
	require.NoError(t, repo.Replace(ctx, prop))

	lead := models.ProspectCustomer{Name: "Ayşe", Phone: "555", PropertyID: &prop.ID}
	require.NoError(t, db.Create(&lead).Error)

	require.NoError(t, repo.Delete(ctx, prop.ID))

	var images int64
	db.Model(&models.PropertyImage{}).Where("property_id = ?", prop.ID).Count(&images)
	assert.Zero(t, images)

	var kept models.ProspectCustomer
	require.NoError(t, db.First(&kept, "id = ?", lead.ID).Error)
	assert.Nil(t, kept.PropertyID)

	err = repo.Delete(ctx, prop.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
