package database

import (
	"context"
	"fmt"

	"github.com/emlak-portal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.Country{},
		&models.City{},
		&models.District{},
		&models.Neighborhood{},
		&models.PropertyType{},
		&models.PropertySubType{},
		&models.PropertyDescriptorCategory{},
		&models.PropertyDescriptor{},
		&models.PropertyContract{},
		&models.PropertyStatus{},
		&models.PropertyDeedStatus{},
		&models.User{},
		&models.Role{},
		&models.Organization{},
		&models.Office{},
		&models.OfficeWorker{},
		&models.Property{},
		&models.PropertyLocation{},
		&models.PropertyFeature{},
		&models.PropertyImage{},
		&models.PropertyDescriptorAssignment{},
		&models.Project{},
		&models.ProjectLocation{},
		&models.ProjectFeature{},
		&models.ProjectImage{},
		&models.ProjectUnitSize{},
		&models.ProjectSocialFeature{},
		&models.ContactForm{},
		&models.ProspectAgent{},
		&models.ProspectCustomer{},
		&models.OfficeWorkerReview{},
	}
}

// DBConnection represents a named database connection
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Models []interface{}
	log    *zap.Logger
}

// NewDBConnection opens a named database connection
func NewDBConnection(name string, opts Options) (*DBConnection, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DBConnection{
		DB:     db,
		Name:   name,
		Models: Models(),
		log:    log.With(zap.String("database", name)),
	}, nil
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	c.log.Info("migrating database schema")
	if err := Migrate(c.DB); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	c.log.Info("database schema migrated")
	return nil
}

// Close releases the underlying pool
func (c *DBConnection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate runs AutoMigrate for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// CopyReferenceData copies the location tree, the taxonomy, the listing
// lookups and the roles from source to target. Rows already present in the
// target (same primary key) are left alone, so the copy can be re-run.
func CopyReferenceData(ctx context.Context, source, target *DBConnection) error {
	source.log.Info("starting reference data copy", zap.String("target", target.Name))

	steps := []struct {
		name string
		copy func() (int, error)
	}{
		{"countries", copyTable[models.Country](ctx, source.DB, target.DB)},
		{"cities", copyTable[models.City](ctx, source.DB, target.DB)},
		{"districts", copyTable[models.District](ctx, source.DB, target.DB)},
		{"neighborhoods", copyTable[models.Neighborhood](ctx, source.DB, target.DB)},
		{"property types", copyTable[models.PropertyType](ctx, source.DB, target.DB)},
		{"property sub-types", copyTable[models.PropertySubType](ctx, source.DB, target.DB)},
		{"descriptor categories", copyTable[models.PropertyDescriptorCategory](ctx, source.DB, target.DB)},
		{"descriptors", copyTable[models.PropertyDescriptor](ctx, source.DB, target.DB)},
		{"contracts", copyTable[models.PropertyContract](ctx, source.DB, target.DB)},
		{"statuses", copyTable[models.PropertyStatus](ctx, source.DB, target.DB)},
		{"deed statuses", copyTable[models.PropertyDeedStatus](ctx, source.DB, target.DB)},
		{"roles", copyTable[models.Role](ctx, source.DB, target.DB)},
	}

	for _, step := range steps {
		n, err := step.copy()
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", step.name, err)
		}
		source.log.Info("copied reference rows", zap.String("table", step.name), zap.Int("rows", n))
	}

	source.log.Info("reference data copy completed")
	return nil
}

func copyTable[T any](ctx context.Context, source, target *gorm.DB) func() (int, error) {
	return func() (int, error) {
		var rows []T
		if err := source.WithContext(ctx).Find(&rows).Error; err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			return 0, nil
		}
		err := target.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&rows, 200).Error
		return len(rows), err
	}
}
