package repositories

import (
	"context"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
)

// LookupRow is satisfied by the contract, status and deed-status models
type LookupRow interface {
	models.PropertyContract | models.PropertyStatus | models.PropertyDeedStatus
}

// LookupRepository serves one listing lookup table. Column is the
// properties column that references it.
type LookupRepository[T LookupRow] struct {
	db     *gorm.DB
	entity string
	column string
}

func NewContractRepository(db *gorm.DB) *LookupRepository[models.PropertyContract] {
	return &LookupRepository[models.PropertyContract]{db: db, entity: "contract", column: "contract_id"}
}

func NewStatusRepository(db *gorm.DB) *LookupRepository[models.PropertyStatus] {
	return &LookupRepository[models.PropertyStatus]{db: db, entity: "status", column: "status_id"}
}

func NewDeedStatusRepository(db *gorm.DB) *LookupRepository[models.PropertyDeedStatus] {
	return &LookupRepository[models.PropertyDeedStatus]{db: db, entity: "deed status", column: "deed_status_id"}
}

func (r *LookupRepository[T]) WithTx(tx *gorm.DB) *LookupRepository[T] {
	return &LookupRepository[T]{db: tx, entity: r.entity, column: r.column}
}

// Entity is the display name used in errors
func (r *LookupRepository[T]) Entity() string {
	return r.entity
}

func (r *LookupRepository[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	err := r.db.WithContext(ctx).Order("value").Find(&rows).Error
	return rows, translate(err, r.entity)
}

func (r *LookupRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, translate(err, r.entity)
}

func (r *LookupRepository[T]) FindBySlug(ctx context.Context, slug string) (T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, "slug = ?", slug).Error
	return row, translate(err, r.entity)
}

func (r *LookupRepository[T]) Create(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Create(row).Error, r.entity)
}

func (r *LookupRepository[T]) Save(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Save(row).Error, r.entity)
}

// Delete fails while any listing references the row
func (r *LookupRepository[T]) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardDependents(tx, r.entity, dependentCheck{&models.Property{}, r.column, id}); err != nil {
			return err
		}
		var row T
		return deleteResult(tx.Where("id = ?", id).Delete(&row), r.entity)
	})
}
