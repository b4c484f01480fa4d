package services

import (
	"context"
	"testing"
	"time"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/testutil"
	"github.com/emlak-portal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func projectRequest(f *testutil.Fixtures, officeID string) dto.ProjectRequest {
	delivery := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	return dto.ProjectRequest{
		Name:         "Moda Konakları",
		Description:  "<p>Denize <em>yürüme</em> mesafesi</p><script>x</script>",
		OfficeID:     officeID,
		DeliveryDate: &delivery,
		Location: &dto.LocationInput{
			NeighborhoodID: f.Neighborhood.ID,
			Latitude:       utils.Ptr(40.9833),
			Longitude:      utils.Ptr(29.0297),
		},
		Feature: dto.ProjectFeatureInput{BlockCount: utils.Ptr(3), HasPool: true},
		Images:  []dto.ImageInput{{URL: "https://cdn.example.com/2.jpg", Order: utils.Ptr(2)}, {URL: "https://cdn.example.com/1.jpg", Order: utils.Ptr(1)}},
		UnitSizes: []dto.UnitSizeInput{
			{Value: "2+1", GrossArea: utils.Ptr(95.0)},
			{Value: "3+1", GrossArea: utils.Ptr(130.0)},
		},
		SocialFeatures: []string{"Fitness", "Otopark"},
	}
}

func TestProjectLifecycle(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	events := &capturedEvents{}
	svc := NewProjectService(db, events, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "project")
	admin := principalFor(t, db, tenant.Office, f.SiteAdminRole, "project-admin")

	project, err := svc.Create(ctx, admin, projectRequest(f, tenant.Office.ID))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectDraft, project.PublishingStatus)
	assert.Equal(t, "<p>Denize <em>yürüme</em> mesafesi</p>", project.Description)
	require.NotNil(t, project.OrganizationID)
	assert.Equal(t, tenant.Organization.ID, *project.OrganizationID)
	require.Len(t, project.Images, 2)
	assert.Equal(t, "https://cdn.example.com/1.jpg", project.Images[0].URL)
	require.Len(t, project.UnitSizes, 2)
	assert.Equal(t, "2+1", project.UnitSizes[0].Value)
	assert.Len(t, project.SocialFeatures, 2)
	assert.Equal(t, "Kadıköy", project.Location.DistrictName)

	_, err = svc.GetPublished(ctx, project.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	row, err := svc.SetPublishingStatus(ctx, admin, project.ID, "PUBLISHED")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectPublished, row.PublishingStatus)
	assert.Nil(t, row.Location, "the status change returns the bare row")

	list, err := svc.ListPublished(ctx, dto.ProjectQuery{CityID: f.City.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)

	_, err = svc.SetPublishingStatus(ctx, admin, project.ID, "ARCHIVED")
	require.NoError(t, err)
	_, err = svc.SetPublishingStatus(ctx, admin, project.ID, "DRAFT")
	require.NoError(t, err)
	_, err = svc.SetPublishingStatus(ctx, admin, project.ID, "PENDING")
	assert.Contains(t, fieldsOf(t, err), "publishingStatus")

	req := projectRequest(f, tenant.Office.ID)
	req.UnitSizes = req.UnitSizes[:1]
	req.SocialFeatures = nil
	updated, err := svc.Update(ctx, admin, project.ID, req)
	require.NoError(t, err)
	assert.Len(t, updated.UnitSizes, 1)
	assert.Empty(t, updated.SocialFeatures)

	require.NoError(t, svc.Delete(ctx, admin, project.ID))
	_, err = svc.Get(ctx, admin, project.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got := events.all()
	require.Len(t, got, 4)
	assert.True(t, got[0].Public)
	assert.Equal(t, notify.EntityProject, got[0].EntityType)
	doc, ok := got[0].Document.(ProjectDocument)
	require.True(t, ok, "status change carries a project document")
	assert.Equal(t, "Kadıköy", doc.DistrictName)
	assert.Equal(t, f.City.Name, doc.CityName)
	assert.Equal(t, "sxk9hsfc1", doc.Geohash)
	assert.Equal(t, notify.Deleted, got[3].Kind)
}

func TestProjectOfficeAdminScope(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewProjectService(db, nil, zap.NewNop())
	ctx := context.Background()
	mine := testutil.CreateTenant(t, db, f, "mine")
	theirs := testutil.CreateTenant(t, db, f, "theirs")
	officeAdmin := principalFor(t, db, mine.Office, f.OfficeAdminRole, "scoped-admin")
	agent := principalFor(t, db, mine.Office, f.AgentRole, "scoped-agent")

	// the requested office is ignored for office admins
	project, err := svc.Create(ctx, officeAdmin, projectRequest(f, theirs.Office.ID))
	require.NoError(t, err)
	assert.Equal(t, mine.Office.ID, *project.OfficeID)

	_, err = svc.Create(ctx, agent, projectRequest(f, ""))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	other := principalFor(t, db, theirs.Office, f.OfficeAdminRole, "other-admin")
	_, err = svc.SetPublishingStatus(ctx, other, project.ID, "PUBLISHED")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	list, err := svc.List(ctx, other, dto.ProjectQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}
