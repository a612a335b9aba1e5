// Package inventory contiene los servicios de dominio puros del libro de stock:
// reproducción del historial, verificación de la cadena y valoración.
package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockState resultado de reproducir el historial de un ítem.
type StockState struct {
	CurrentStock  int64
	LastRestocked *time.Time
	Movements     int
}

// SortMovements ordena in situ por fecha y secuencia.
func SortMovements(movs []*entity.Movement) {
	sort.SliceStable(movs, func(i, j int) bool { return movs[i].Before(movs[j]) })
}

// Replay pliega los movimientos en orden del libro y devuelve el stock autoritativo.
// Entradas suman, salidas restan y ajustes fijan el nivel objetivo.
func Replay(movs []*entity.Movement) StockState {
	ordered := make([]*entity.Movement, len(movs))
	copy(ordered, movs)
	SortMovements(ordered)

	var st StockState
	for _, m := range ordered {
		if m.Payload == nil {
			continue
		}
		st.CurrentStock = m.Payload.Apply(st.CurrentStock)
		st.Movements++
		if m.Type() == entity.MovementTypeIn {
			d := m.MovementDate
			st.LastRestocked = &d
		}
	}
	return st
}

// Derive calcula los campos derivados de un ítem a partir de su historial.
func Derive(movs []*entity.Movement, minimumStock int64) entity.DerivedFields {
	st := Replay(movs)
	return entity.DerivedFields{
		CurrentStock:  st.CurrentStock,
		Status:        entity.DeriveStatus(st.CurrentStock, minimumStock),
		LastRestocked: st.LastRestocked,
	}
}

// ChainBreak eslabón roto en el historial de un ítem.
type ChainBreak struct {
	Index          int
	MovementID     string
	ExpectedBefore int64
	ActualBefore   int64
	ExpectedAfter  int64
	ActualAfter    int64
}

// VerifyChain comprueba que cada stockBefore coincida con el stockAfter anterior (0 para el primero)
// y que stockAfter sea el resultado de aplicar el movimiento.
func VerifyChain(movs []*entity.Movement) []ChainBreak {
	ordered := make([]*entity.Movement, len(movs))
	copy(ordered, movs)
	SortMovements(ordered)

	var breaks []ChainBreak
	var prev int64
	for i, m := range ordered {
		expectedAfter := m.StockAfter
		if m.Payload != nil {
			expectedAfter = m.Payload.Apply(m.StockBefore)
		}
		if m.StockBefore != prev || m.StockAfter != expectedAfter {
			breaks = append(breaks, ChainBreak{
				Index:          i,
				MovementID:     m.ID,
				ExpectedBefore: prev,
				ActualBefore:   m.StockBefore,
				ExpectedAfter:  expectedAfter,
				ActualAfter:    m.StockAfter,
			})
		}
		prev = m.StockAfter
	}
	return breaks
}
