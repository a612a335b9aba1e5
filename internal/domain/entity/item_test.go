package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestDeriveStatus_Transiciones(t *testing.T) {
	// mínimo 10: 15 → 8 → 0
	assert.Equal(t, entity.ItemStatusActive, entity.DeriveStatus(15, 10))
	assert.Equal(t, entity.ItemStatusLowStock, entity.DeriveStatus(8, 10))
	assert.Equal(t, entity.ItemStatusOutOfStock, entity.DeriveStatus(0, 10))
}

func TestDeriveStatus_Limites(t *testing.T) {
	assert.Equal(t, entity.ItemStatusLowStock, entity.DeriveStatus(10, 10), "igual al mínimo es low_stock")
	assert.Equal(t, entity.ItemStatusActive, entity.DeriveStatus(11, 10))
	assert.Equal(t, entity.ItemStatusOutOfStock, entity.DeriveStatus(-1, 10))
	assert.Equal(t, entity.ItemStatusActive, entity.DeriveStatus(1, 0))
}

func TestParseMovementType(t *testing.T) {
	mt, err := entity.ParseMovementType("IN")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, mt)

	mt, err = entity.ParseMovementType("adjustment")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustment, mt)

	_, err = entity.ParseMovementType("transfer")
	assert.Error(t, err)
}

func TestMovement_AccesoresPorTipo(t *testing.T) {
	adj := &entity.Movement{Payload: entity.AdjustmentPayload{TargetLevel: 4}, StockBefore: 9, StockAfter: 4}
	assert.Equal(t, entity.MovementTypeAdjustment, adj.Type())
	assert.Equal(t, int64(4), adj.Quantity(), "la cantidad de un ajuste es el nivel objetivo")
	assert.Equal(t, int64(-5), adj.Delta())
	assert.True(t, adj.TotalCost().IsZero())
}
