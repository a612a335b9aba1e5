package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestTranslateError(t *testing.T) {
	pg := func(code string) error { return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code}) }

	assert.NoError(t, translateError("op", nil))
	assert.Equal(t, domain.ErrDuplicate, translateError("insert item", pg("23505")))
	assert.ErrorIs(t, translateError("insert movement", pg("23514")), domain.ErrInvalidInput)

	conflict := translateError("commit transaction", pg("40001"))
	assert.ErrorIs(t, conflict, domain.ErrConflict)
	assert.True(t, domain.IsRetryable(conflict))
	assert.ErrorIs(t, translateError("commit transaction", pg("40P01")), domain.ErrConflict)

	other := errors.New("conexión cerrada")
	wrapped := translateError("insert item", other)
	assert.ErrorIs(t, wrapped, other)
	assert.Contains(t, wrapped.Error(), "insert item")
}

func TestTranslateError_IdMalFormadoEsEntradaInvalida(t *testing.T) {
	err := translateError("count movements", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotContains(t, err.Error(), "uuid", "no expone el detalle de Postgres")
}

func TestIsMissingRow(t *testing.T) {
	assert.True(t, isMissingRow(pgx.ErrNoRows))
	assert.True(t, isMissingRow(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, isMissingRow(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isMissingRow(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isMissingRow(errors.New("conexión cerrada")))
}
