// Package testutil builds migrated in-memory databases and fixture rows for
// package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/emlak-portal/database"
	"github.com/emlak-portal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated, empty in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.Options{Driver: "sqlite", URL: url, LogLevel: "error"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// OpenSQLite opens an existing SQLite database file, closed when t ends.
func OpenSQLite(t testing.TB, path string) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", URL: path, LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixtures are the seeded reference rows, looked up by slug
type Fixtures struct {
	Country      models.Country
	City         models.City
	District     models.District
	Neighborhood models.Neighborhood

	Residential   models.PropertyType
	Land          models.PropertyType
	Apartment     models.PropertySubType
	DetachedHouse models.PropertySubType
	ZonedLand     models.PropertySubType

	InteriorCategory models.PropertyDescriptorCategory
	InfraCategory    models.PropertyDescriptorCategory
	Interior         []models.PropertyDescriptor
	Infra            []models.PropertyDescriptor

	ForSale       models.PropertyContract
	ForRent       models.PropertyContract
	Empty         models.PropertyStatus
	Condominium   models.PropertyDeedStatus
	NotApplicable models.PropertyDeedStatus

	SiteAdminRole   models.Role
	OfficeAdminRole models.Role
	AgentRole       models.Role
}

// NewSeededDB returns a database with the seed data loaded.
func NewSeededDB(t testing.TB) (*gorm.DB, *Fixtures) {
	t.Helper()
	db := NewDB(t)
	require.NoError(t, database.Seed(context.Background(), db))
	return db, LoadFixtures(t, db)
}

// LoadFixtures reads the seeded rows back.
func LoadFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{}
	mustFind(t, db, &f.Country, "slug = ?", "turkiye")
	mustFind(t, db, &f.City, "slug = ?", "istanbul")
	mustFind(t, db, &f.District, "slug = ?", "kadikoy")
	mustFind(t, db, &f.Neighborhood, "slug = ?", "moda")

	mustFind(t, db, &f.Residential, "slug = ?", "konut")
	mustFind(t, db, &f.Land, "slug = ?", models.TypeSlugLand)
	mustFind(t, db, &f.Apartment, "slug = ?", "daire")
	mustFind(t, db, &f.DetachedHouse, "slug = ?", models.SubTypeSlugDetachedHouse)
	mustFind(t, db, &f.ZonedLand, "slug = ?", "imarli-arsa")

	mustFind(t, db, &f.InteriorCategory, "slug = ?", "ic-ozellikler")
	mustFind(t, db, &f.InfraCategory, "slug = ?", "altyapi")
	require.NoError(t, db.Where("category_id = ?", f.InteriorCategory.ID).Order("value").Find(&f.Interior).Error)
	require.NoError(t, db.Where("category_id = ?", f.InfraCategory.ID).Order("value").Find(&f.Infra).Error)

	mustFind(t, db, &f.ForSale, "slug = ?", models.ContractSlugForSale)
	mustFind(t, db, &f.ForRent, "slug = ?", "for-rent")
	mustFind(t, db, &f.Empty, "slug = ?", "empty")
	mustFind(t, db, &f.Condominium, "slug = ?", "condominium")
	mustFind(t, db, &f.NotApplicable, "slug = ?", models.DeedStatusSlugNotApplicable)

	mustFind(t, db, &f.SiteAdminRole, "slug = ?", models.RoleSiteAdmin)
	mustFind(t, db, &f.OfficeAdminRole, "slug = ?", models.RoleOfficeAdmin)
	mustFind(t, db, &f.AgentRole, "slug = ?", models.RoleAgent)
	return f
}

func mustFind(t testing.TB, db *gorm.DB, dest interface{}, query string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Where(query, args...).First(dest).Error)
}

// Tenant is an organization with one office
type Tenant struct {
	Organization models.Organization
	Office       models.Office
}

// CreateTenant inserts an organization and an office located in the
// fixture neighborhood.
func CreateTenant(t testing.TB, db *gorm.DB, f *Fixtures, slug string) Tenant {
	t.Helper()
	org := models.Organization{Name: "Org " + slug, Slug: "org-" + slug}
	require.NoError(t, db.Create(&org).Error)
	office := models.Office{
		Name:           "Office " + slug,
		Slug:           "office-" + slug,
		OrganizationID: org.ID,
		NeighborhoodID: &f.Neighborhood.ID,
	}
	require.NoError(t, db.Omit("Neighborhood", "Workers").Create(&office).Error)
	return Tenant{Organization: org, Office: office}
}

// CreateWorker inserts an office worker with the given role, linked to a
// fresh user row.
func CreateWorker(t testing.TB, db *gorm.DB, office models.Office, role models.Role, slug string) (models.User, models.OfficeWorker) {
	t.Helper()
	user := models.User{ExternalID: "ext-" + slug, Email: slug + "@example.com", Name: slug}
	require.NoError(t, db.Create(&user).Error)
	worker := models.OfficeWorker{
		FirstName: slug,
		LastName:  "Worker",
		Slug:      slug,
		Email:     user.Email,
		OfficeID:  office.ID,
		RoleID:    role.ID,
		UserID:    &user.ID,
	}
	require.NoError(t, db.Omit("Office", "Role", "User", "Reviews").Create(&worker).Error)
	worker.Role = &role
	return user, worker
}
