package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, company_id, name, category, unit, cost_price, selling_price, supplier, location,
	minimum_stock, maximum_stock, current_stock, status, last_restocked, version, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.Name, item.Category, item.Unit, item.CostPrice, item.SellingPrice,
		item.Supplier, item.Location, item.MinimumStock, item.MaximumStock, item.CurrentStock,
		string(item.Status), item.LastRestocked, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	return translateError("insert item", err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetByCompanyAndName busca por nombre sin distinguir mayúsculas.
func (r *ItemRepo) GetByCompanyAndName(ctx context.Context, companyID, name string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE company_id = $1 AND lower(name) = lower($2)`, companyID, name)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isMissingRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update actualiza atributos maestros; no toca campos derivados ni versión.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category = $3, unit = $4, cost_price = $5, selling_price = $6,
			supplier = $7, location = $8, minimum_stock = $9, maximum_stock = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Unit, item.CostPrice, item.SellingPrice,
		item.Supplier, item.Location, item.MinimumStock, item.MaximumStock, item.UpdatedAt,
	)
	if err != nil {
		return translateError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDerivedFields escribe stock, estado y última reposición si la versión coincide y devuelve la nueva versión.
func (r *ItemRepo) UpdateDerivedFields(ctx context.Context, id string, fields entity.DerivedFields, expectedVersion int64) (int64, error) {
	query := `
		UPDATE items SET current_stock = $2, status = $3, last_restocked = $4, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $5
		RETURNING version`
	var version int64
	err := r.q.QueryRow(ctx, query, id, fields.CurrentStock, string(fields.Status), fields.LastRestocked, expectedVersion).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("update derived fields: %w", err)
	}
	var actual int64
	if err := r.q.QueryRow(ctx, `SELECT version FROM items WHERE id = $1`, id).Scan(&actual); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("read item version: %w", err)
	}
	return 0, &domain.ConcurrencyConflictError{ItemID: id, ExpectedVersion: expectedVersion, ActualVersion: actual}
}

// List filtra y pagina por nombre. Limit ≤ 0 devuelve todos.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	where, args := itemWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, translateError("count items", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY name, id`
	query, args = withPage(query, args, f.Limit, f.Offset)
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock ítems con stock actual ≤ mínimo, del menor stock al mayor.
func (r *ItemRepo) ListLowStock(ctx context.Context, companyID, category string) ([]*entity.Item, error) {
	where, args := itemWhere(repository.ItemFilter{CompanyID: companyID, Category: category, LowStockOnly: true})
	return r.query(ctx, `SELECT `+itemColumns+` FROM items`+where+` ORDER BY current_stock ASC, name`, args...)
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func itemWhere(f repository.ItemFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CompanyID != "" {
		add("company_id = $%d", f.CompanyID)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("name ILIKE $%d", "%"+s+"%")
	}
	if f.LowStockOnly {
		conds = append(conds, "current_stock <= minimum_stock")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func withPage(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var status string
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.Name, &it.Category, &it.Unit, &it.CostPrice, &it.SellingPrice,
		&it.Supplier, &it.Location, &it.MinimumStock, &it.MaximumStock, &it.CurrentStock,
		&status, &it.LastRestocked, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Status = entity.ItemStatus(status)
	return &it, nil
}
