package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emlak-portal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// translate maps a gorm or driver error from a read or write onto an
// apperr kind. Errors that are already classified pass through.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity)
	case isDuplicate(err):
		return apperr.Conflict(fmt.Sprintf("%s with this slug already exists", entity), err)
	case isForeignKey(err):
		return apperr.Conflict(fmt.Sprintf("%s references a record that does not exist", entity), err)
	}
	return apperr.Internal(err)
}

// translateDelete is translate for deletes, where a foreign key violation
// means children still point at the row.
func translateDelete(err error, entity string) error {
	if err != nil && isForeignKey(err) {
		return dependentsConflict(entity, err)
	}
	return translate(err, entity)
}

func dependentsConflict(entity string, cause error) error {
	return apperr.Conflict(fmt.Sprintf("%s has dependent records, cannot delete", entity), cause)
}

// deleteResult turns a delete outcome into NotFound when nothing matched.
func deleteResult(result *gorm.DB, entity string) error {
	if result.Error != nil {
		return translateDelete(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

// guardDependents fails with a Conflict when any count is non-zero.
func guardDependents(tx *gorm.DB, entity string, checks ...dependentCheck) error {
	for _, check := range checks {
		var count int64
		if err := tx.Model(check.model).Where(check.column+" = ?", check.id).Count(&count).Error; err != nil {
			return apperr.Internal(err)
		}
		if count > 0 {
			return dependentsConflict(entity, nil)
		}
	}
	return nil
}

type dependentCheck struct {
	model  interface{}
	column string
	id     string
}

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps the page into a usable range.
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}
