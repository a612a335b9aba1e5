package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ValuationUseCase valora el stock por ítem o para toda la empresa. Nunca modifica el libro.
type ValuationUseCase struct {
	txRunner      TxRunner
	items         repository.ItemRepository
	renderer      ValuationReportRenderer
	defaultMethod inventory.Method
	log           *logger.Logger
	now           func() time.Time
}

// NewValuationUseCase construye el caso de uso. defaultMethod se usa cuando la petición no indica método;
// si no es válido se usa current. renderer puede ser nil si no se exporta PDF.
func NewValuationUseCase(txRunner TxRunner, items repository.ItemRepository, renderer ValuationReportRenderer, defaultMethod string, log *logger.Logger) *ValuationUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	m, err := inventory.ParseMethod(defaultMethod)
	if err != nil {
		m = inventory.MethodCurrent
	}
	return &ValuationUseCase{
		txRunner:      txRunner,
		items:         items,
		renderer:      renderer,
		defaultMethod: m,
		log:           log.Component("valuation"),
		now:           time.Now,
	}
}

// Valuate valora un ítem con el método indicado sobre una lectura consistente del ítem y sus entradas.
func (uc *ValuationUseCase) Valuate(ctx context.Context, companyID, itemID, method string) (*dto.ItemValuationDTO, error) {
	m, err := uc.resolveMethod(method)
	if err != nil {
		return nil, err
	}
	return uc.valuateItem(ctx, companyID, itemID, m)
}

func (uc *ValuationUseCase) valuateItem(ctx context.Context, companyID, itemID string, m inventory.Method) (*dto.ItemValuationDTO, error) {
	var out *dto.ItemValuationDTO
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
		inbound, err := movements.ListInbound(ctx, item.ID)
		if err != nil {
			return err
		}
		v := inventory.Valuate(m, item.CurrentStock, item.CostPrice, item.SellingPrice, inventory.LotsFromMovements(inbound))
		out = toItemValuationDTO(item, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Report valora todos los ítems de la empresa (opcionalmente de una categoría) con resumen
// y desglose por categoría. Cada ítem se lee en su propia instantánea consistente.
func (uc *ValuationUseCase) Report(ctx context.Context, companyID, method, category string) (*dto.ValuationReportDTO, error) {
	m, err := uc.resolveMethod(method)
	if err != nil {
		return nil, err
	}
	all, _, err := uc.items.List(ctx, repository.ItemFilter{CompanyID: companyID, Category: category})
	if err != nil {
		return nil, err
	}

	report := &dto.ValuationReportDTO{
		CompanyID:         companyID,
		Method:            string(m),
		MethodDescription: m.Description(),
		Category:          category,
		GeneratedAt:       uc.now().UTC(),
		Items:             make([]dto.ItemValuationDTO, 0, len(all)),
	}
	sum := dto.ValuationSummaryDTO{
		TotalValue:            decimal.Zero,
		TotalPotentialRevenue: decimal.Zero,
		TotalPotentialProfit:  decimal.Zero,
		ProfitMarginPct:       decimal.Zero,
	}
	byCategory := map[string]*dto.CategoryValuationDTO{}

	for _, it := range all {
		v, err := uc.valuateItem(ctx, companyID, it.ID, m)
		if errors.Is(err, domain.ErrNotFound) {
			// borrado entre el listado y la lectura
			continue
		}
		if err != nil {
			return nil, err
		}
		report.Items = append(report.Items, *v)

		sum.TotalItems++
		sum.TotalQuantity += v.CurrentStock
		sum.TotalValue = sum.TotalValue.Add(v.TotalValue)
		sum.TotalPotentialRevenue = sum.TotalPotentialRevenue.Add(v.PotentialRevenue)
		sum.TotalPotentialProfit = sum.TotalPotentialProfit.Add(v.PotentialProfit)

		cat, ok := byCategory[v.Category]
		if !ok {
			cat = &dto.CategoryValuationDTO{Category: v.Category, TotalValue: decimal.Zero, PotentialRevenue: decimal.Zero}
			byCategory[v.Category] = cat
		}
		cat.Items++
		cat.Quantity += v.CurrentStock
		cat.TotalValue = cat.TotalValue.Add(v.TotalValue)
		cat.PotentialRevenue = cat.PotentialRevenue.Add(v.PotentialRevenue)
	}

	if sum.TotalPotentialRevenue.IsPositive() {
		sum.ProfitMarginPct = sum.TotalPotentialProfit.Div(sum.TotalPotentialRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	report.Summary = sum

	report.Categories = make([]dto.CategoryValuationDTO, 0, len(byCategory))
	for _, c := range byCategory {
		report.Categories = append(report.Categories, *c)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	uc.log.Info().Str("company_id", companyID).Str("method", string(m)).Int("items", sum.TotalItems).Msg("reporte de valoración generado")
	return report, nil
}

// ReportPDF genera el reporte y lo renderiza como PDF.
func (uc *ValuationUseCase) ReportPDF(ctx context.Context, companyID, method, category string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("valoración: generador PDF no configurado")
	}
	report, err := uc.Report(ctx, companyID, method, category)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderValuationReport(ctx, report)
}

func (uc *ValuationUseCase) resolveMethod(method string) (inventory.Method, error) {
	if method == "" {
		return uc.defaultMethod, nil
	}
	m, err := inventory.ParseMethod(method)
	if err != nil {
		return "", domain.NewValidationError("method", "debe ser current, fifo, lifo o weighted_average")
	}
	return m, nil
}

func toItemValuationDTO(item *entity.Item, v inventory.Valuation) *dto.ItemValuationDTO {
	return &dto.ItemValuationDTO{
		ItemID:           item.ID,
		ItemName:         item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		CurrentStock:     v.CurrentStock,
		Method:           string(v.Method),
		EffectiveMethod:  string(v.EffectiveMethod),
		UnitValue:        v.UnitValue,
		TotalValue:       v.TotalValue,
		CostPrice:        item.CostPrice,
		SellingPrice:     item.SellingPrice,
		PotentialRevenue: v.PotentialRevenue,
		PotentialProfit:  v.PotentialProfit,
		UncoveredUnits:   v.UncoveredUnits,
	}
}
