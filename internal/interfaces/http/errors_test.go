package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func respondWith(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_StockInsuficienteIncluyeFaltante(t *testing.T) {
	status, body := respondWith(t, fmt.Errorf("registrar: %w", &domain.InsufficientStockError{
		ItemID: "i-1", CurrentStock: 5, Requested: 8, Shortfall: 3,
	}))

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.NotNil(t, body.Stock)
	assert.Equal(t, dto.StockShortfallInfo{ItemID: "i-1", CurrentStock: 5, Requested: 8, Shortfall: 3}, *body.Stock)
	assert.Contains(t, body.Message, "faltan 3")
}

func TestWriteError_InternoNoExponeElDetalle(t *testing.T) {
	status, body := respondWith(t, errors.New(`get item: ERROR: invalid input syntax for type uuid: "abc" (SQLSTATE 22P02)`))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "SQLSTATE")
	assert.NotContains(t, body.Message, "uuid")
	assert.Nil(t, body.Stock)
}

func TestWriteError_EntradaInvalidaDelAlmacen(t *testing.T) {
	status, body := respondWith(t, fmt.Errorf("count movements: %w", domain.ErrInvalidInput))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}
