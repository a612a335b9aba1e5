package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateCheckViolation       = "23514"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	// texto que no convierte al tipo de la columna, p. ej. un id que no es UUID
	sqlStateInvalidTextRepresentation = "22P02"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translateError traduce errores de Postgres: único → ErrDuplicate, CHECK o texto mal formado →
// ErrInvalidInput, serialización o deadlock → ErrConflict (reintentable). El resto se envuelve con op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch sqlState(err) {
	case sqlStateUniqueViolation:
		return domain.ErrDuplicate
	case sqlStateCheckViolation:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidInput, err)
	case sqlStateInvalidTextRepresentation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isMissingRow indica que la lectura por id no encontró fila. Un id que no es UUID no puede existir.
func isMissingRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || sqlState(err) == sqlStateInvalidTextRepresentation
}
