package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Method convención de costeo para valorar el stock.
type Method string

const (
	MethodCurrent         Method = "current"
	MethodFIFO            Method = "fifo"
	MethodLIFO            Method = "lifo"
	MethodWeightedAverage Method = "weighted_average"
)

// Methods lista de métodos soportados.
var Methods = []Method{MethodCurrent, MethodFIFO, MethodLIFO, MethodWeightedAverage}

// ParseMethod interpreta el método; "average" es alias de weighted_average.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current":
		return MethodCurrent, nil
	case "fifo":
		return MethodFIFO, nil
	case "lifo":
		return MethodLIFO, nil
	case "weighted_average", "average":
		return MethodWeightedAverage, nil
	}
	return "", fmt.Errorf("método de valoración desconocido %q", s)
}

// IsValid indica si el método es uno de los soportados.
func (m Method) IsValid() bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

// Description texto legible para reportes.
func (m Method) Description() string {
	switch m {
	case MethodCurrent:
		return "Costo actual"
	case MethodFIFO:
		return "Primeras entradas, primeras salidas (FIFO)"
	case MethodLIFO:
		return "Últimas entradas, primeras salidas (LIFO)"
	case MethodWeightedAverage:
		return "Costo promedio ponderado"
	}
	return string(m)
}

// Lot unidades de una entrada con su costo unitario.
type Lot struct {
	MovementID string
	Quantity   int64
	UnitCost   decimal.Decimal
	Date       time.Time
}

// TotalCost costo total del lote.
func (l Lot) TotalCost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
}

// LotsFromMovements extrae los lotes de las entradas, del más antiguo al más reciente.
func LotsFromMovements(movs []*entity.Movement) []Lot {
	ordered := make([]*entity.Movement, len(movs))
	copy(ordered, movs)
	SortMovements(ordered)

	lots := make([]Lot, 0, len(ordered))
	for _, m := range ordered {
		in, ok := m.Payload.(entity.InPayload)
		if !ok {
			continue
		}
		lots = append(lots, Lot{MovementID: m.ID, Quantity: in.Quantity, UnitCost: in.UnitCost, Date: m.MovementDate})
	}
	return lots
}

// Valuation valor del stock de un ítem bajo un método.
// EffectiveMethod difiere de Method cuando no hay entradas y se usa el costo actual.
// UncoveredUnits son unidades en stock sin lote que las respalde; FIFO y LIFO no les asignan valor.
type Valuation struct {
	Method           Method
	EffectiveMethod  Method
	CurrentStock     int64
	UnitValue        decimal.Decimal
	TotalValue       decimal.Decimal
	PotentialRevenue decimal.Decimal
	PotentialProfit  decimal.Decimal
	UncoveredUnits   int64
}

// Valuate calcula el valor del stock. No modifica nada.
func Valuate(method Method, currentStock int64, costPrice, sellingPrice decimal.Decimal, lots []Lot) Valuation {
	v := Valuation{Method: method, EffectiveMethod: method, CurrentStock: currentStock}
	stock := decimal.NewFromInt(currentStock)

	if method != MethodCurrent && len(lots) == 0 {
		v.EffectiveMethod = MethodCurrent
	}

	switch v.EffectiveMethod {
	case MethodFIFO:
		v.TotalValue, v.UncoveredUnits = walkLots(lots, currentStock, false)
		v.UnitValue = unitOf(v.TotalValue, currentStock)
	case MethodLIFO:
		v.TotalValue, v.UncoveredUnits = walkLots(lots, currentStock, true)
		v.UnitValue = unitOf(v.TotalValue, currentStock)
	case MethodWeightedAverage:
		unit, ok := WeightedAverageCost(lots)
		if !ok {
			v.EffectiveMethod = MethodCurrent
			unit = costPrice
		}
		v.UnitValue = unit
		v.TotalValue = unit.Mul(stock)
	default:
		v.EffectiveMethod = MethodCurrent
		v.UnitValue = costPrice
		v.TotalValue = costPrice.Mul(stock)
	}

	v.PotentialRevenue = sellingPrice.Mul(stock)
	v.PotentialProfit = v.PotentialRevenue.Sub(v.TotalValue)
	return v
}

// walkLots consume hasta currentStock unidades de los lotes (más recientes primero si newestFirst).
// Devuelve el costo de las unidades consumidas y las que ningún lote cubre.
func walkLots(lots []Lot, currentStock int64, newestFirst bool) (decimal.Decimal, int64) {
	total := decimal.Zero
	remaining := currentStock
	for i := range lots {
		if remaining <= 0 {
			break
		}
		l := lots[i]
		if newestFirst {
			l = lots[len(lots)-1-i]
		}
		if l.Quantity <= 0 {
			continue
		}
		take := min(remaining, l.Quantity)
		total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(take)))
		remaining -= take
	}
	return total, max(0, remaining)
}

func unitOf(total decimal.Decimal, currentStock int64) decimal.Decimal {
	if currentStock <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(currentStock))
}
