package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado sobre todas las entradas:
// Σ(costo total del lote) / Σ(cantidad). ok es falso si no hay unidades de entrada.
func WeightedAverageCost(lots []Lot) (unit decimal.Decimal, ok bool) {
	var qty int64
	total := decimal.Zero
	for _, l := range lots {
		if l.Quantity <= 0 {
			continue
		}
		qty += l.Quantity
		total = total.Add(l.TotalCost())
	}
	if qty == 0 {
		return decimal.Zero, false
	}
	return total.Div(decimal.NewFromInt(qty)), true
}
