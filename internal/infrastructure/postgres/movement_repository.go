package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.seq, m.company_id, m.item_id, m.type, m.quantity, m.target_level, m.unit_cost, m.selling_price,
	m.supplier, m.purchase_order, m.customer, m.sales_order, m.adjusted_by, m.reason, m.reference, m.notes,
	m.stock_before, m.stock_after, m.movement_date, m.created_at, m.created_by`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// El payload se guarda en columnas anulables según el tipo.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento; seq lo asigna la base de datos.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var (
		quantity, target                                          *int64
		unitCost, sellingPrice                                    *decimal.Decimal
		supplier, purchaseOrder, customer, salesOrder, adjustedBy string
	)
	switch p := m.Payload.(type) {
	case entity.InPayload:
		quantity, unitCost = &p.Quantity, &p.UnitCost
		supplier, purchaseOrder = p.Supplier, p.PurchaseOrder
	case entity.OutPayload:
		quantity, unitCost, sellingPrice = &p.Quantity, &p.UnitCost, p.SellingPrice
		customer, salesOrder = p.Customer, p.SalesOrder
	case entity.AdjustmentPayload:
		target = &p.TargetLevel
		adjustedBy = p.AdjustedBy
	default:
		return fmt.Errorf("append movement %s: %w", m.ID, domain.ErrInvalidMovementType)
	}

	query := `
		INSERT INTO inventory_movements (id, company_id, item_id, type, quantity, target_level, unit_cost, selling_price,
			supplier, purchase_order, customer, sales_order, adjusted_by, reason, reference, notes,
			stock_before, stock_after, movement_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.CompanyID, m.ItemID, string(m.Type()), quantity, target, unitCost, sellingPrice,
		supplier, purchaseOrder, customer, salesOrder, adjustedBy, m.Reason, m.Reference, m.Notes,
		m.StockBefore, m.StockAfter, m.MovementDate, m.CreatedAt, m.CreatedBy,
	).Scan(&m.Sequence)
	return translateError("insert movement", err)
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements m WHERE m.id = $1`, id))
	if err != nil {
		if isMissingRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItem historial completo del ítem en orden ascendente.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM inventory_movements m
		WHERE m.item_id = $1 ORDER BY m.movement_date, m.seq`, itemID)
}

// ListInbound entradas del ítem en orden ascendente.
func (r *MovementRepo) ListInbound(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM inventory_movements m
		WHERE m.item_id = $1 AND m.type = 'in' ORDER BY m.movement_date, m.seq`, itemID)
}

// List historial filtrado, más reciente primero. Limit ≤ 0 devuelve todos.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	from, where, args := movementWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM `+from+where, args...).Scan(&total); err != nil {
		return nil, 0, translateError("count movements", err)
	}
	query := `SELECT ` + movementColumns + ` FROM ` + from + where + ` ORDER BY m.movement_date DESC, m.seq DESC`
	query, args = withPage(query, args, f.Limit, f.Offset)
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CountByItem número de movimientos del ítem.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// DeleteByItem borra el historial del ítem.
func (r *MovementRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list movements", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func movementWhere(f repository.MovementFilter) (from, where string, args []any) {
	from = "inventory_movements m"
	var conds []string
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CompanyID != "" {
		add("m.company_id = $%d", f.CompanyID)
	}
	if f.ItemID != "" {
		add("m.item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		add("m.type = $%d", string(f.Type))
	}
	if f.Category != "" {
		from += " JOIN items i ON i.id = m.item_id"
		add("i.category = $%d", f.Category)
	}
	if f.From != nil {
		add("m.movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.movement_date <= $%d", *f.To)
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	return from, where, args
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                      entity.Movement
		kind                   string
		quantity, target       *int64
		unitCost, sellingPrice *decimal.Decimal
		supplier, purchase     string
		customer, sales        string
		adjustedBy             string
	)
	err := row.Scan(
		&m.ID, &m.Sequence, &m.CompanyID, &m.ItemID, &kind, &quantity, &target, &unitCost, &sellingPrice,
		&supplier, &purchase, &customer, &sales, &adjustedBy, &m.Reason, &m.Reference, &m.Notes,
		&m.StockBefore, &m.StockAfter, &m.MovementDate, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	switch entity.MovementType(kind) {
	case entity.MovementTypeIn:
		m.Payload = entity.InPayload{Quantity: deref(quantity), UnitCost: derefDecimal(unitCost), Supplier: supplier, PurchaseOrder: purchase}
	case entity.MovementTypeOut:
		m.Payload = entity.OutPayload{Quantity: deref(quantity), UnitCost: derefDecimal(unitCost), Customer: customer, SalesOrder: sales, SellingPrice: sellingPrice}
	case entity.MovementTypeAdjustment:
		m.Payload = entity.AdjustmentPayload{TargetLevel: deref(target), AdjustedBy: adjustedBy}
	default:
		return nil, fmt.Errorf("movimiento %s con tipo %q: %w", m.ID, kind, domain.ErrInvalidMovementType)
	}
	return &m, nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefDecimal(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
