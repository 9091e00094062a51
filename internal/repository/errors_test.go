package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_stops_company_period"}

	assert.True(t, isUniqueViolation(pgDup))
	assert.True(t, isUniqueViolation(fmt.Errorf("create stop: %w", pgDup)))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))

	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
