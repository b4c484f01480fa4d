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

func TestTaxonomyTree(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTaxonomyService(db, zap.NewNop())
	ctx := context.Background()

	konut, err := svc.CreateType(ctx, dto.TaxonomyRequest{Value: "Konut"})
	require.NoError(t, err)
	assert.Equal(t, "konut", konut.Slug)

	_, err = svc.CreateSubType(ctx, dto.TaxonomyRequest{Value: "Daire"})
	assert.Contains(t, fieldsOf(t, err), "typeId")

	daire, err := svc.CreateSubType(ctx, dto.TaxonomyRequest{Value: "Daire", TypeID: konut.ID})
	require.NoError(t, err)

	category, err := svc.CreateCategory(ctx, dto.TaxonomyRequest{Value: "İç Özellikler", TypeID: konut.ID})
	require.NoError(t, err)
	assert.Equal(t, "ic-ozellikler", category.Slug)

	_, err = svc.CreateDescriptor(ctx, dto.TaxonomyRequest{Value: "Klima", CategoryID: category.ID})
	require.NoError(t, err)

	got, err := svc.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, got.Descriptors, 1)
	assert.Equal(t, "Klima", got.Descriptors[0].Value)

	assert.True(t, apperr.Is(svc.DeleteType(ctx, konut.ID), apperr.KindConflict))

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
	require.NoError(t, svc.DeleteSubType(ctx, daire.ID))
	require.NoError(t, svc.DeleteType(ctx, konut.ID))

	_, err = svc.UpdateType(ctx, konut.ID, dto.TaxonomyRequest{Value: "Konut"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLookupServices(t *testing.T) {
	db, f := testutil.NewSeededDB(t)
	contracts := NewContractService(db)
	deeds := NewDeedStatusService(db)
	ctx := context.Background()

	all, err := contracts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	devren, err := contracts.Create(ctx, dto.LookupRequest{Value: "Devren Kiralık"})
	require.NoError(t, err)
	assert.Equal(t, "devren-kiralik", devren.Slug)

	renamed, err := contracts.Update(ctx, devren.ID, dto.LookupRequest{Value: "Devren", Slug: "devren"})
	require.NoError(t, err)
	assert.Equal(t, "devren", renamed.Slug)
	require.NoError(t, contracts.Delete(ctx, devren.ID))

	_, err = deeds.Create(ctx, dto.LookupRequest{Value: "Başka", Slug: models.DeedStatusSlugNotApplicable})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	tenant := testutil.CreateTenant(t, db, f, "lookup")
	agent := principalFor(t, db, tenant.Office, f.AgentRole, "lookup-agent")
	_, err = NewPropertyService(db, nil, zap.NewNop()).Create(ctx, agent, apartmentRequest(f))
	require.NoError(t, err)
	assert.True(t, apperr.Is(contracts.Delete(ctx, f.ForRent.ID), apperr.KindConflict))
}
