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
	"gorm.io/gorm/clause"
)

func TestTenancyOrganizationAndOffice(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewTenancyService(db, zap.NewNop())
	ctx := context.Background()

	org, err := svc.CreateOrganization(ctx, dto.OrganizationRequest{Name: "Boğaziçi Emlak"})
	require.NoError(t, err)
	assert.Equal(t, "bogazici-emlak", org.Slug)

	office, err := svc.CreateOffice(ctx, dto.OfficeRequest{
		Name:           "Moda Şube",
		OrganizationID: org.ID,
		NeighborhoodID: f.Neighborhood.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, office.Neighborhood)
	assert.Equal(t, "Moda", office.Neighborhood.Name)

	_, err = svc.CreateOffice(ctx, dto.OfficeRequest{Name: "Hayalet", OrganizationID: "missing"})
	assert.Contains(t, fieldsOf(t, err), "organizationId")

	err = svc.DeleteOrganization(ctx, org.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, worker := testutil.CreateWorker(t, db, office, f.AgentRole, "blocker")
	assert.True(t, apperr.Is(svc.DeleteOffice(ctx, office.ID), apperr.KindConflict))

	require.NoError(t, svc.DeleteWorker(ctx, worker.ID))
	require.NoError(t, svc.DeleteOffice(ctx, office.ID))
	require.NoError(t, svc.DeleteOrganization(ctx, org.ID))
}

func TestTenancyWorkers(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewTenancyService(db, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "staff")

	worker, err := svc.CreateWorker(ctx, dto.OfficeWorkerRequest{
		FirstName: "Zeynep",
		LastName:  "Çelik",
		OfficeID:  tenant.Office.ID,
		RoleID:    f.AgentRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "zeynep-celik", worker.Slug)
	require.NotNil(t, worker.Role)
	assert.Equal(t, f.AgentRole.Slug, worker.Role.Slug)

	_, err = svc.UpdateWorker(ctx, dto.OfficeWorkerRequest{FirstName: "Zeynep", LastName: "Çelik"})
	assert.Contains(t, fieldsOf(t, err), "id")

	updated, err := svc.UpdateWorker(ctx, dto.OfficeWorkerRequest{
		ID:        worker.ID,
		FirstName: "Zeynep",
		LastName:  "Çelik",
		Title:     "Kıdemli Danışman",
		OfficeID:  tenant.Office.ID,
		RoleID:    f.OfficeAdminRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kıdemli Danışman", updated.Title)
	assert.Equal(t, f.OfficeAdminRole.ID, updated.RoleID)

	_, err = svc.CreateWorker(ctx, dto.OfficeWorkerRequest{
		FirstName: "Zeynep",
		LastName:  "Çelik",
		OfficeID:  tenant.Office.ID,
		RoleID:    f.AgentRole.ID,
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "slugs are unique")

	workers, err := svc.ListWorkers(ctx, tenant.Office.ID)
	require.NoError(t, err)
	assert.Len(t, workers, 1)

	assert.True(t, apperr.Is(svc.DeleteRole(ctx, f.OfficeAdminRole.ID), apperr.KindConflict))
	_, err = svc.CreateRole(ctx, dto.RoleRequest{Name: "Stajyer", Slug: "intern"})
	assert.Contains(t, fieldsOf(t, err), "slug")
}

func TestTenancyDeletesKeepProjectsConsistent(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	svc := NewTenancyService(db, zap.NewNop())
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, f, "projects")

	underOffice := models.Project{
		Name:           "Ofis Projesi",
		Slug:           "ofis-projesi",
		OfficeID:       &tenant.Office.ID,
		OrganizationID: &tenant.Organization.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&underOffice).Error)
	orgOnly := models.Project{
		Name:           "Merkez Projesi",
		Slug:           "merkez-projesi",
		OrganizationID: &tenant.Organization.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&orgOnly).Error)

	require.NoError(t, svc.DeleteOffice(ctx, tenant.Office.ID))
	var detached models.Project
	require.NoError(t, db.First(&detached, "id = ?", underOffice.ID).Error)
	assert.Nil(t, detached.OfficeID)
	assert.Nil(t, detached.OrganizationID)

	err := svc.DeleteOrganization(ctx, tenant.Organization.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	require.NoError(t, db.Delete(&models.Project{}, "id = ?", orgOnly.ID).Error)
	require.NoError(t, svc.DeleteOrganization(ctx, tenant.Organization.ID))
}
