package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RecomputeUseCase reconstruye los campos derivados de un ítem reproduciendo su libro completo.
// También audita el cache contra el libro para reconciliaciones periódicas.
type RecomputeUseCase struct {
	txRunner TxRunner
	items    repository.ItemRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewRecomputeUseCase construye el caso de uso.
func NewRecomputeUseCase(txRunner TxRunner, items repository.ItemRepository, log *logger.Logger) *RecomputeUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &RecomputeUseCase{txRunner: txRunner, items: items, log: log.Component("recompute"), now: time.Now}
}

// Recompute reproduce todos los movimientos del ítem y escribe stock, estado y última reposición.
// Es idempotente. companyID vacío omite la verificación de empresa (uso administrativo).
func (uc *RecomputeUseCase) Recompute(ctx context.Context, companyID, itemID string) (*entity.Item, error) {
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if companyID != "" && item.CompanyID != companyID {
			return domain.ErrForbidden
		}
		history, err := movements.ListByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		now := uc.now().UTC()
		if len(history) == 0 && item.CurrentStock > 0 {
			// Sin libro no hay de dónde recalcular: se registra el saldo cacheado como apertura
			opening := openingBalance(item, "", now)
			if err := movements.Append(ctx, opening); err != nil {
				return err
			}
			history = append(history, opening)
		}
		updated, err = refreshDerivedFields(ctx, items, item, history, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("item_id", updated.ID).Int64("stock", updated.CurrentStock).Str("status", string(updated.Status)).Msg("stock recalculado")
	return updated, nil
}

// Audit compara el stock cacheado con el reproducido y verifica la cadena stockBefore/stockAfter.
// Solo lectura.
func (uc *RecomputeUseCase) Audit(ctx context.Context, companyID, itemID string) (*dto.AuditReportDTO, error) {
	var report *dto.AuditReportDTO
	err := uc.txRunner.ReadSnapshot(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if companyID != "" && item.CompanyID != companyID {
			return domain.ErrForbidden
		}
		history, err := movements.ListByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		report = buildAuditReport(item, history)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// AuditAll audita todos los ítems de la empresa. Con repair recalcula los desincronizados.
func (uc *RecomputeUseCase) AuditAll(ctx context.Context, companyID string, repair bool) ([]dto.AuditReportDTO, error) {
	all, _, err := uc.items.List(ctx, repository.ItemFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	reports := make([]dto.AuditReportDTO, 0, len(all))
	for _, it := range all {
		rep, err := uc.Audit(ctx, companyID, it.ID)
		if err != nil {
			return nil, err
		}
		if !rep.InSync {
			uc.log.Warn().Str("item_id", it.ID).
				Int64("cached_stock", rep.CachedStock).
				Int64("replayed_stock", rep.ReplayedStock).
				Int("chain_breaks", len(rep.ChainBreaks)).
				Msg("ítem desincronizado con el libro")
			if repair {
				if _, err := uc.Recompute(ctx, companyID, it.ID); err != nil {
					return nil, err
				}
			}
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}

func buildAuditReport(item *entity.Item, history []*entity.Movement) *dto.AuditReportDTO {
	derived := inventory.Derive(history, item.MinimumStock)
	breaks := inventory.VerifyChain(history)
	rep := &dto.AuditReportDTO{
		ItemID:         item.ID,
		ItemName:       item.Name,
		CachedStock:    item.CurrentStock,
		ReplayedStock:  derived.CurrentStock,
		CachedStatus:   string(item.Status),
		ReplayedStatus: string(derived.Status),
		Movements:      len(history),
	}
	for _, b := range breaks {
		rep.ChainBreaks = append(rep.ChainBreaks, dto.ChainBreakDTO{
			MovementID:     b.MovementID,
			Position:       b.Index,
			ExpectedBefore: b.ExpectedBefore,
			ActualBefore:   b.ActualBefore,
			ExpectedAfter:  b.ExpectedAfter,
			ActualAfter:    b.ActualAfter,
		})
	}
	rep.InSync = rep.CachedStock == rep.ReplayedStock && rep.CachedStatus == rep.ReplayedStatus && len(breaks) == 0
	return rep
}

// refreshDerivedFields recalcula los campos derivados desde history y los escribe con control de versión.
func refreshDerivedFields(ctx context.Context, items repository.ItemRepository, item *entity.Item, history []*entity.Movement, now time.Time) (*entity.Item, error) {
	fields := inventory.Derive(history, item.MinimumStock)
	version, err := items.UpdateDerivedFields(ctx, item.ID, fields, item.Version)
	if err != nil {
		return nil, err
	}
	updated := *item
	updated.ApplyDerived(fields, now)
	updated.Version = version
	return &updated, nil
}
