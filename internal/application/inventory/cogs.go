package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CostRecognizer genera el gasto de costo de venta (COGS) de cada salida en el libro de gastos externo.
type CostRecognizer struct {
	expenses repository.ExpenseRepository
	now      func() time.Time
}

// NewCostRecognizer construye el reconocedor.
func NewCostRecognizer(expenses repository.ExpenseRepository) *CostRecognizer {
	return &CostRecognizer{expenses: expenses, now: time.Now}
}

// Recognize registra un gasto por costPrice × cantidad, enlazado al ítem y al movimiento.
func (r *CostRecognizer) Recognize(ctx context.Context, item *entity.Item, mov *entity.Movement) (*entity.ExpenseEntry, error) {
	out, ok := mov.Payload.(entity.OutPayload)
	if !ok {
		return nil, fmt.Errorf("cogs: el movimiento %s no es una salida", mov.ID)
	}
	amount := item.CostPrice.Mul(decimal.NewFromInt(out.Quantity))
	entry := &entity.ExpenseEntry{
		ID:            uuid.New().String(),
		CompanyID:     item.CompanyID,
		Amount:        amount,
		Title:         "COGS - " + item.Name,
		Description:   fmt.Sprintf("Costo de venta de %d %s de %s", out.Quantity, item.Unit, item.Name),
		Category:      entity.ExpenseCategoryCOGS,
		Tags:          append([]string(nil), entity.ExpenseTagsCOGS...),
		PaymentMethod: entity.ExpensePaymentMethodInv,
		Notes:         fmt.Sprintf("Generado automáticamente por el movimiento %s", mov.ID),
		ItemID:        item.ID,
		MovementID:    mov.ID,
		Date:          mov.MovementDate,
		CreatedAt:     r.now().UTC(),
		CreatedBy:     mov.CreatedBy,
	}
	if err := r.expenses.CreateCogsEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("cogs: crear gasto: %w", err)
	}
	return entry, nil
}
