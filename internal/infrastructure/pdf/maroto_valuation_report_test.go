package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
)

func TestRenderValuationReport_GeneraPDF(t *testing.T) {
	report := &dto.ValuationReportDTO{
		CompanyID:         "co-1",
		Method:            "fifo",
		MethodDescription: "Primeras entradas, primeras salidas",
		GeneratedAt:       time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Items: []dto.ItemValuationDTO{
			{ItemName: "Pintura", CurrentStock: 6, Method: "fifo", EffectiveMethod: "fifo",
				UnitValue: decimal.RequireFromString("10.3333"), TotalValue: decimal.NewFromInt(62), PotentialRevenue: decimal.NewFromInt(90)},
			{ItemName: "Brocha", CurrentStock: 1200, Method: "fifo", EffectiveMethod: "current",
				UnitValue: decimal.NewFromInt(4), TotalValue: decimal.NewFromInt(4800), PotentialRevenue: decimal.NewFromInt(7200)},
		},
		Summary: dto.ValuationSummaryDTO{
			TotalItems: 2, TotalQuantity: 1206,
			TotalValue: decimal.NewFromInt(4862), TotalPotentialRevenue: decimal.NewFromInt(7290),
			TotalPotentialProfit: decimal.NewFromInt(2428), ProfitMarginPct: decimal.RequireFromString("33.31"),
		},
		Categories: []dto.CategoryValuationDTO{
			{Category: "", Items: 1, Quantity: 1200, TotalValue: decimal.NewFromInt(4800)},
			{Category: "Insumos", Items: 1, Quantity: 6, TotalValue: decimal.NewFromInt(62)},
		},
	}

	out, err := pdf.NewValuationReportPDF("es-CO", "COP").RenderValuationReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderValuationReport_ReporteVacioYLocaleInvalido(t *testing.T) {
	report := &dto.ValuationReportDTO{CompanyID: "co-1", Method: "current", GeneratedAt: time.Now()}

	out, err := pdf.NewValuationReportPDF("??", "XXXX").RenderValuationReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
