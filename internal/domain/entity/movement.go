package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIn         MovementType = "in"         // entrada
	MovementTypeOut        MovementType = "out"        // salida
	MovementTypeAdjustment MovementType = "adjustment" // ajuste a nivel absoluto
)

// ParseMovementType acepta el tipo sin distinguir mayúsculas.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(strings.ToLower(strings.TrimSpace(s))) {
	case MovementTypeIn:
		return MovementTypeIn, nil
	case MovementTypeOut:
		return MovementTypeOut, nil
	case MovementTypeAdjustment:
		return MovementTypeAdjustment, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
}

// Razones estándar registradas por el sistema.
const (
	ReasonInitialStock   = "initial_stock"
	ReasonOpeningBalance = "opening_balance"
	ReasonStockIn        = "stock_in"
	ReasonStockOut       = "stock_out"
)

// MovementPayload datos propios de cada tipo de movimiento.
type MovementPayload interface {
	Kind() MovementType
	// Apply devuelve el stock resultante a partir del stock previo.
	Apply(before int64) int64
}

// InPayload entrada de unidades con su costo unitario (un lote para FIFO/LIFO).
type InPayload struct {
	Quantity      int64
	UnitCost      decimal.Decimal
	Supplier      string
	PurchaseOrder string
}

func (p InPayload) Kind() MovementType { return MovementTypeIn }
func (p InPayload) Apply(before int64) int64 { return before + p.Quantity }

// TotalCost costo total del lote.
func (p InPayload) TotalCost() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(p.Quantity))
}

// OutPayload salida de unidades. UnitCost es el costo de referencia del ítem al momento de la salida.
type OutPayload struct {
	Quantity     int64
	UnitCost     decimal.Decimal
	Customer     string
	SalesOrder   string
	SellingPrice *decimal.Decimal
}

func (p OutPayload) Kind() MovementType { return MovementTypeOut }
func (p OutPayload) Apply(before int64) int64 { return before - p.Quantity }

// TotalCost costo de las unidades salientes.
func (p OutPayload) TotalCost() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(p.Quantity))
}

// AdjustmentPayload fija el stock en un nivel absoluto.
type AdjustmentPayload struct {
	TargetLevel int64
	AdjustedBy  string
}

func (p AdjustmentPayload) Kind() MovementType { return MovementTypeAdjustment }
func (p AdjustmentPayload) Apply(int64) int64 { return p.TargetLevel }

// Movement registro inmutable de un cambio de stock.
type Movement struct {
	ID          string
	CompanyID   string
	ItemID      string
	Payload     MovementPayload
	Reason      string
	Reference   string
	Notes       string
	StockBefore int64
	StockAfter  int64
	// Sequence desempata movimientos con la misma MovementDate; lo asigna el almacenamiento.
	Sequence     int64
	MovementDate time.Time
	CreatedAt    time.Time
	CreatedBy    string
}

// Type tipo del movimiento según su payload.
func (m *Movement) Type() MovementType {
	if m.Payload == nil {
		return ""
	}
	return m.Payload.Kind()
}

// Delta cambio efectivo de stock (para ajustes, after − before).
func (m *Movement) Delta() int64 {
	return m.StockAfter - m.StockBefore
}

// Quantity magnitud registrada: unidades para in/out, nivel objetivo para ajustes.
func (m *Movement) Quantity() int64 {
	switch p := m.Payload.(type) {
	case InPayload:
		return p.Quantity
	case OutPayload:
		return p.Quantity
	case AdjustmentPayload:
		return p.TargetLevel
	}
	return 0
}

// UnitCost costo unitario del movimiento; cero para ajustes.
func (m *Movement) UnitCost() decimal.Decimal {
	switch p := m.Payload.(type) {
	case InPayload:
		return p.UnitCost
	case OutPayload:
		return p.UnitCost
	}
	return decimal.Zero
}

// TotalCost costo total del movimiento; cero para ajustes.
func (m *Movement) TotalCost() decimal.Decimal {
	switch p := m.Payload.(type) {
	case InPayload:
		return p.TotalCost()
	case OutPayload:
		return p.TotalCost()
	}
	return decimal.Zero
}

// Before indica si m va antes que o en el orden del libro (fecha, luego secuencia).
func (m *Movement) Before(o *Movement) bool {
	if !m.MovementDate.Equal(o.MovementDate) {
		return m.MovementDate.Before(o.MovementDate)
	}
	return m.Sequence < o.Sequence
}
