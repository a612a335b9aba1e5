package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus estado derivado del stock frente al mínimo.
type ItemStatus string

const (
	ItemStatusActive     ItemStatus = "active"
	ItemStatusLowStock   ItemStatus = "low_stock"
	ItemStatusOutOfStock ItemStatus = "out_of_stock"
)

// Item representa un artículo vendible de una empresa.
// CurrentStock, Status y LastRestocked son derivados: solo los escribe el motor de recálculo
// a partir del historial de movimientos.
type Item struct {
	ID           string
	CompanyID    string
	Name         string
	Category     string
	Unit         string          // unidad de medida (unidad, kg, caja...)
	CostPrice    decimal.Decimal // costo de referencia
	SellingPrice decimal.Decimal
	Supplier     string
	Location     string

	MinimumStock int64
	MaximumStock *int64

	CurrentStock  int64
	Status        ItemStatus
	LastRestocked *time.Time
	Version       int64 // se incrementa en cada escritura de campos derivados

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus aplica la regla: out_of_stock si stock ≤ 0; low_stock si 0 < stock ≤ mínimo; si no, active.
func DeriveStatus(currentStock, minimumStock int64) ItemStatus {
	switch {
	case currentStock <= 0:
		return ItemStatusOutOfStock
	case currentStock <= minimumStock:
		return ItemStatusLowStock
	default:
		return ItemStatusActive
	}
}

// IsLowStock indica si el ítem entra en el reporte de reposición.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

// DerivedFields campos cacheados que se recalculan desde el libro de movimientos.
type DerivedFields struct {
	CurrentStock  int64
	Status        ItemStatus
	LastRestocked *time.Time
}

// Derived devuelve los campos derivados actuales del ítem.
func (i *Item) Derived() DerivedFields {
	return DerivedFields{CurrentStock: i.CurrentStock, Status: i.Status, LastRestocked: i.LastRestocked}
}

// ApplyDerived copia los campos derivados sobre el ítem e incrementa la versión.
func (i *Item) ApplyDerived(f DerivedFields, now time.Time) {
	i.CurrentStock = f.CurrentStock
	i.Status = f.Status
	i.LastRestocked = f.LastRestocked
	i.Version++
	i.UpdatedAt = now
}
