package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/testutil"
	"github.com/emlak-portal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	return appErr.Fields
}

func countProperties(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Property{}).Count(&count).Error)
	return count
}

func TestPropertyCreateAsAgent(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	tenant := testutil.CreateTenant(t, db, f, "create")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "ayse")

	property, err := svc.Create(context.Background(), agent, apartmentRequest(f))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, property.PublishingStatus)
	assert.Equal(t, "Moda'da 3+1 daire", property.Name)
	assert.True(t, utils.IsValidSlug(property.Slug))
	assert.Equal(t, defaultCurrency, property.Currency)
	assert.Equal(t, tenant.Office.ID, property.OfficeID)
	assert.Equal(t, tenant.Organization.ID, property.OrganizationID)
	require.NotNil(t, property.AgentID)
	assert.Equal(t, agent.WorkerID(), *property.AgentID)

	// not for sale, so the deed status falls back to "not applicable"
	assert.Equal(t, f.NotApplicable.ID, property.DeedStatusID)

	require.NotNil(t, property.Location)
	assert.Equal(t, "Moda", property.Location.NeighborhoodName)
	assert.Equal(t, f.District.Name, property.Location.DistrictName)
	assert.Equal(t, f.City.Name, property.Location.CityName)
	assert.Equal(t, f.Country.Name, property.Location.CountryName)
	assert.Equal(t, "sxk9hsfc1", property.Location.Geohash)

	require.Len(t, property.Images, 3)
	assert.Equal(t, "https://cdn.example.com/a.jpg", property.Images[0].URL)
	assert.Equal(t, "https://cdn.example.com/b.jpg", property.Images[1].URL)
	assert.Equal(t, "https://cdn.example.com/c.jpg", property.Images[2].URL)
	require.Len(t, property.Descriptors, 1)
	assert.Equal(t, f.Interior[0].ID, property.Descriptors[0].ID)
}

func TestPropertyCreateValidation(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	tenant := testutil.CreateTenant(t, db, f, "rules")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "rules-agent")

	tests := []struct {
		name   string
		modify func(*dto.PropertyRequest)
		field  string
	}{
		{
			name:   "missing name and price",
			modify: func(r *dto.PropertyRequest) { r.Name = ""; r.Price = nil },
			field:  "price",
		},
		{
			name:   "sub-type of another type",
			modify: func(r *dto.PropertyRequest) { r.SubTypeID = f.ZonedLand.ID },
			field:  "subTypeId",
		},
		{
			name:   "for sale without deed status",
			modify: func(r *dto.PropertyRequest) { r.ContractID = f.ForSale.ID },
			field:  "deedStatusId",
		},
		{
			name:   "apartment without bedrooms",
			modify: func(r *dto.PropertyRequest) { r.Feature.Bedrooms = nil },
			field:  "feature.bedrooms",
		},
		{
			name: "land without parcel",
			modify: func(r *dto.PropertyRequest) {
				r.TypeID, r.SubTypeID = f.Land.ID, f.ZonedLand.ID
				r.DescriptorIDs = nil
				r.Feature.BlockNumber = "12"
			},
			field: "feature.parcelNumber",
		},
		{
			name:   "descriptor of another type",
			modify: func(r *dto.PropertyRequest) { r.DescriptorIDs = []string{f.Infra[0].ID} },
			field:  "descriptorIds",
		},
		{
			name:   "unknown neighborhood",
			modify: func(r *dto.PropertyRequest) { r.Location.NeighborhoodID = "missing" },
			field:  "location.neighborhoodId",
		},
		{
			name:   "invalid image url",
			modify: func(r *dto.PropertyRequest) { r.Images[1].URL = "not a url" },
			field:  "images[1].url",
		},
		{
			name:   "missing location",
			modify: func(r *dto.PropertyRequest) { r.Location = nil },
			field:  "location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := apartmentRequest(f)
			tt.modify(&req)
			_, err := svc.Create(context.Background(), agent, req)
			require.Error(t, err)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
	assert.Zero(t, countProperties(t, db), "failed validation must not write")
}

func TestPropertyCreateFeatureExemptions(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	tenant := testutil.CreateTenant(t, db, f, "exempt")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "exempt-agent")

	house := apartmentRequest(f)
	house.SubTypeID = f.DetachedHouse.ID
	house.Feature = dto.PropertyFeatureInput{}
	_, err := svc.Create(context.Background(), agent, house)
	require.NoError(t, err)

	land := apartmentRequest(f)
	land.TypeID, land.SubTypeID = f.Land.ID, f.ZonedLand.ID
	land.ContractID, land.DeedStatusID = f.ForSale.ID, f.Condominium.ID
	land.DescriptorIDs = []string{f.Infra[0].ID}
	land.Feature = dto.PropertyFeatureInput{ParcelNumber: "101", BlockNumber: "7"}
	created, err := svc.Create(context.Background(), agent, land)
	require.NoError(t, err)
	assert.Equal(t, f.Condominium.ID, created.DeedStatusID)
	assert.Equal(t, "101", created.Feature.ParcelNumber)
}

func TestPropertyUpdateReplacesChildren(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "update")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "update-agent")

	created, err := svc.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)

	req := apartmentRequest(f)
	req.Name = "Yenilenmiş daire"
	req.Images = []dto.ImageInput{{URL: "https://cdn.example.com/new.jpg"}}
	req.DescriptorIDs = []string{f.Interior[1].ID, f.Interior[2].ID}
	req.Feature.Bedrooms = utils.Ptr(4)

	updated, err := svc.Update(ctx, agent, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Slug, updated.Slug, "slug is kept when none is given")
	assert.Equal(t, "Yenilenmiş daire", updated.Name)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "https://cdn.example.com/new.jpg", updated.Images[0].URL)
	assert.Len(t, updated.Descriptors, 2)
	assert.Equal(t, 4, *updated.Feature.Bedrooms)

	var images int64
	require.NoError(t, db.Model(&models.PropertyImage{}).Where("property_id = ?", created.ID).Count(&images).Error)
	assert.EqualValues(t, 1, images)
}

func TestPropertyOwnership(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "own")
	other := testutil.CreateTenant(t, db, f, "other")

	owner := principalFor(t, db, tenant.Office, f.AgentRole, "owner")
	colleague := principalFor(t, db, tenant.Office, f.AgentRole, "colleague")
	officeAdmin := principalFor(t, db, tenant.Office, f.OfficeAdminRole, "manager")
	foreignAdmin := principalFor(t, db, other.Office, f.OfficeAdminRole, "foreign")
	siteAdmin := principalFor(t, db, other.Office, f.SiteAdminRole, "root")

	created, err := svc.Create(ctx, owner, apartmentRequest(f))
	require.NoError(t, err)

	_, err = svc.Update(ctx, colleague, created.ID, apartmentRequest(f))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.Delete(ctx, foreignAdmin, created.ID), apperr.KindForbidden))

	_, err = svc.Get(ctx, officeAdmin, created.ID)
	assert.NoError(t, err)

	for _, tc := range []struct {
		principal *Principal
		want      int64
	}{
		{owner, 1},
		{colleague, 0},
		{officeAdmin, 1},
		{foreignAdmin, 0},
		{siteAdmin, 1},
	} {
		list, err := svc.List(ctx, tc.principal, dto.PropertyQuery{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, list.TotalCount, tc.principal.Worker.Slug)
	}

	_, err = svc.List(ctx, &Principal{}, dto.PropertyQuery{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestPropertySiteAdminChoosesOffice(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	home := testutil.CreateTenant(t, db, f, "home")
	target := testutil.CreateTenant(t, db, f, "target")
	siteAdmin := principalFor(t, db, home.Office, f.SiteAdminRole, "admin")
	_, targetAgent := testutil.CreateWorker(t, db, target.Office, f.AgentRole, "target-agent")

	req := apartmentRequest(f)
	req.OfficeID = target.Office.ID
	req.AgentID = targetAgent.ID
	property, err := svc.Create(ctx, siteAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, target.Office.ID, property.OfficeID)
	assert.Equal(t, target.Organization.ID, property.OrganizationID)
	assert.Equal(t, targetAgent.ID, *property.AgentID)

	req.OfficeID = home.Office.ID
	_, err = svc.Create(ctx, siteAdmin, req)
	assert.Contains(t, fieldsOf(t, err), "agentId")
}

func TestPropertySetPublishingStatus(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	events := &capturedEvents{}
	svc := NewPropertyService(db, events, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "publish")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "publisher")

	created, err := svc.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)
	assert.Empty(t, events.all(), "creation is not announced")

	_, err = svc.GetPublished(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	published, err := svc.SetPublishingStatus(ctx, created.ID, "PUBLISHED")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.PublishingStatus)

	visible, err := svc.GetPublished(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, visible.ID)

	list, err := svc.ListPublished(ctx, dto.PropertyQuery{Geohash: "sxk9"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)

	// any transition is allowed, including back to pending
	_, err = svc.SetPublishingStatus(ctx, created.ID, "REJECTED")
	require.NoError(t, err)
	_, err = svc.SetPublishingStatus(ctx, created.ID, "PENDING")
	require.NoError(t, err)

	_, err = svc.SetPublishingStatus(ctx, created.ID, "LIVE")
	assert.Contains(t, fieldsOf(t, err), "publishingStatus")

	_, err = svc.SetPublishingStatus(ctx, "missing", "PUBLISHED")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got := events.all()
	require.Len(t, got, 3)
	assert.Equal(t, notify.PublishingChanged, got[0].Kind)
	assert.Equal(t, notify.EntityProperty, got[0].EntityType)
	assert.True(t, got[0].Public)
	assert.Equal(t, created.Slug, got[0].Document.(PropertyDocument).Slug)
	assert.False(t, got[1].Public)
}

func TestPropertyNotifierFailureDoesNotRollBack(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	events := &capturedEvents{err: notify.ErrQueueFull}
	svc := NewPropertyService(db, events, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "dropped")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "dropped-agent")

	created, err := svc.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)

	_, err = svc.SetPublishingStatus(ctx, created.ID, "PUBLISHED")
	require.NoError(t, err)
	_, err = svc.GetPublished(ctx, created.ID)
	assert.NoError(t, err)
}

func TestPropertyDelete(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	events := &capturedEvents{}
	svc := NewPropertyService(db, events, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "delete")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "deleter")

	created, err := svc.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, agent, created.ID))

	assert.Zero(t, countProperties(t, db))
	var locations int64
	require.NoError(t, db.Model(&models.PropertyLocation{}).Count(&locations).Error)
	assert.Zero(t, locations)

	got := events.all()
	require.Len(t, got, 1)
	assert.Equal(t, notify.Deleted, got[0].Kind)

	assert.True(t, apperr.Is(svc.Delete(ctx, agent, created.ID), apperr.KindNotFound))
}

// failImageWrites makes every insert into property_images fail while the
// returned flag is set.
func failImageWrites(t *testing.T, db *gorm.DB) *bool {
	t.Helper()
	enabled := new(bool)
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_property_images", func(tx *gorm.DB) {
		if *enabled && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "property_images" {
			_ = tx.AddError(errors.New("image write failed"))
		}
	})
	require.NoError(t, err)
	return enabled
}

func TestPropertyWritesAreAtomic(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "atomic")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "atomic-agent")
	failing := failImageWrites(t, db)

	created, err := svc.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)

	*failing = true
	before := countProperties(t, db)
	req := apartmentRequest(f)
	req.Name = "Yarım kalan ilan"
	_, err = svc.Create(ctx, agent, req)
	require.Error(t, err)
	assert.Equal(t, before, countProperties(t, db))
	var locations, features int64
	require.NoError(t, db.Model(&models.PropertyLocation{}).Count(&locations).Error)
	require.NoError(t, db.Model(&models.PropertyFeature{}).Count(&features).Error)
	assert.EqualValues(t, 1, locations)
	assert.EqualValues(t, 1, features)

	req = apartmentRequest(f)
	req.Name = "Yarım kalan güncelleme"
	req.Images = []dto.ImageInput{{URL: "https://cdn.example.com/new.jpg"}}
	req.DescriptorIDs = []string{f.Interior[1].ID}
	_, err = svc.Update(ctx, agent, created.ID, req)
	require.Error(t, err)

	*failing = false
	kept, err := svc.Get(ctx, agent, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, kept.Name)
	require.Len(t, kept.Images, 3)
	assert.Equal(t, "https://cdn.example.com/a.jpg", kept.Images[0].URL)
	require.Len(t, kept.Descriptors, 1)
	assert.Equal(t, f.Interior[0].ID, kept.Descriptors[0].ID)
	require.NotNil(t, kept.Location)
	assert.Equal(t, "Moda", kept.Location.NeighborhoodName)
}

func TestPropertyImagesKeepRequestOrder(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "order")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "order-agent")

	for i := 0; i < 10; i++ {
		req := apartmentRequest(f)
		req.Images = []dto.ImageInput{
			{URL: "https://cdn.example.com/first.jpg"},
			{URL: "https://cdn.example.com/second.jpg", Order: utils.Ptr(0)},
			{URL: "https://cdn.example.com/third.jpg", Order: utils.Ptr(1)},
			{URL: "https://cdn.example.com/fourth.jpg", Order: utils.Ptr(1)},
		}
		property, err := svc.Create(ctx, agent, req)
		require.NoError(t, err)

		got, err := svc.Get(ctx, agent, property.ID)
		require.NoError(t, err)
		urls := make([]string, 0, len(got.Images))
		for _, image := range got.Images {
			urls = append(urls, image.URL)
		}
		assert.Equal(t, []string{
			"https://cdn.example.com/first.jpg",
			"https://cdn.example.com/second.jpg",
			"https://cdn.example.com/third.jpg",
			"https://cdn.example.com/fourth.jpg",
		}, urls)
		for position, image := range got.Images {
			assert.Equal(t, position, image.Order)
		}
	}
}
