package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/emlak-portal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "city"))

	err := translate(gorm.ErrRecordNotFound, "city")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "city not found", err.(*apperr.Error).Message)

	err = translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "city")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = translate(&pgconn.PgError{Code: "23505"}, "office")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = translate(errors.New("UNIQUE constraint failed: countries.slug"), "country")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = translate(errors.New("connection reset"), "country")
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	already := apperr.NotFound("type")
	assert.Same(t, already, translate(already, "city"))
}

func TestTranslateDelete(t *testing.T) {
	err := translateDelete(&pgconn.PgError{Code: "23503"}, "country")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "country has dependent records, cannot delete", err.(*apperr.Error).Message)

	err = translateDelete(errors.New("FOREIGN KEY constraint failed"), "city")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = translateDelete(gorm.ErrForeignKeyViolated, "office")
	assert.Contains(t, err.Error(), "cannot delete")
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 20}, Page{}.Normalize())
	assert.Equal(t, Page{Number: 3, Size: 100}, Page{Number: 3, Size: 500}.Normalize())
	assert.Equal(t, 40, Page{Number: 3, Size: 20}.offset())
}
