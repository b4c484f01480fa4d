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

func TestContactFormLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLeadService(db, zap.NewNop())
	ctx := context.Background()

	form, err := svc.SubmitContact(ctx, dto.ContactFormRequest{
		Name:    "Ali <b>Veli</b>",
		Email:   "ali@example.com",
		Message: "Daire hakkında bilgi almak istiyorum",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ali Veli", form.Name)
	assert.Equal(t, models.LeadPending, form.Status)

	pending, err := svc.Contacts.CountPending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	updated, err := svc.Contacts.SetStatus(ctx, form.ID, "PROCESSED")
	require.NoError(t, err)
	assert.Equal(t, models.LeadProcessed, updated.Status)

	_, err = svc.Contacts.SetStatus(ctx, form.ID, "DONE")
	assert.Contains(t, fieldsOf(t, err), "status")

	list, err := svc.Contacts.List(ctx, dto.LeadQuery{Status: "PROCESSED"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)

	list, err = svc.Contacts.List(ctx, dto.LeadQuery{Status: "PENDING"})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
	assert.NotNil(t, list.Items)

	require.NoError(t, svc.Contacts.Delete(ctx, form.ID))
	assert.True(t, apperr.Is(svc.Contacts.Delete(ctx, form.ID), apperr.KindNotFound))
}

func TestProspectCustomerNeedsPublishedListing(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewLeadService(db, zap.NewNop())
	properties := NewPropertyService(db, nil, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "leads")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "lead-agent")

	property, err := properties.Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)

	req := dto.ProspectCustomerRequest{Name: "Deniz", Phone: "+905551112233", PropertyID: property.ID}
	_, err = svc.SubmitProspectCustomer(ctx, req)
	assert.Contains(t, fieldsOf(t, err), "propertyId")

	_, err = properties.SetPublishingStatus(ctx, property.ID, "PUBLISHED")
	require.NoError(t, err)
	prospect, err := svc.SubmitProspectCustomer(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, property.ID, *prospect.PropertyID)

	// deleting the listing keeps the lead
	require.NoError(t, properties.Delete(ctx, agent, property.ID))
	kept, err := svc.Customers.Get(ctx, prospect.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.PropertyID)
}

func TestReviewModeration(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewReviewService(db, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "reviews")
	_, worker := testutil.CreateWorker(t, db, tenant.Office, f.AgentRole, "reviewed")

	_, err := svc.Submit(ctx, dto.ReviewRequest{OfficeWorkerID: worker.ID, AuthorName: "Can", Rating: 6})
	assert.Contains(t, fieldsOf(t, err), "rating")
	_, err = svc.Submit(ctx, dto.ReviewRequest{OfficeWorkerID: "missing", AuthorName: "Can", Rating: 5})
	assert.Contains(t, fieldsOf(t, err), "officeWorkerId")

	first, err := svc.Submit(ctx, dto.ReviewRequest{OfficeWorkerID: worker.ID, AuthorName: "Can", Rating: 5})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, dto.ReviewRequest{OfficeWorkerID: worker.ID, AuthorName: "Ece", Rating: 2})
	require.NoError(t, err)

	public, err := svc.ListPublished(ctx, worker.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Zero(t, public.TotalCount, "pending reviews are hidden")

	_, err = svc.SetStatus(ctx, first.ID, "PUBLISHED")
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, second.ID, "REJECTED")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, worker.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.Count)
	assert.InDelta(t, 5.0, summary.Average, 0.001)

	pending, err := svc.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestDashboardStats(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	leads := NewLeadService(db, zap.NewNop())
	reviews := NewReviewService(db, zap.NewNop())
	svc := NewDashboardService(db, leads, reviews)
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "dash")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "dash-agent")

	_, err := NewPropertyService(db, nil, zap.NewNop()).Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)
	_, err = leads.SubmitProspectAgent(ctx, dto.ProspectAgentRequest{FirstName: "Ece", LastName: "Kaya", Email: "ece@example.com", Phone: "1"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Properties[models.StatusPending])
	assert.EqualValues(t, 1, stats.Users)
	assert.EqualValues(t, 1, stats.PendingAgents)
	assert.Zero(t, stats.PendingContacts)
}
