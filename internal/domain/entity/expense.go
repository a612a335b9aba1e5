package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores fijos de los gastos de costo de venta generados automáticamente.
const (
	ExpenseCategoryCOGS     = "Cost of Goods Sold"
	ExpensePaymentMethodInv = "inventory"
)

// ExpenseTagsCOGS etiquetas de un gasto COGS automático.
var ExpenseTagsCOGS = []string{"COGS", "Inventory", "Auto-generated"}

// ExpenseEntry asiento en el libro de gastos externo.
type ExpenseEntry struct {
	ID            string
	CompanyID     string
	Amount        decimal.Decimal
	Title         string
	Description   string
	Category      string
	Tags          []string
	PaymentMethod string
	Notes         string
	ItemID        string
	MovementID    string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
