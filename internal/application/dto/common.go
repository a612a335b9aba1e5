package dto

// Límites de paginación de los listados de ítems y movimientos.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto, lo acota a MaxPageLimit y descarta offsets negativos.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. Total cuenta todos los registros del filtro.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse arma los metadatos para una página con returned filas de un total.
func NewPageResponse(p PageRequest, returned, total int) PageResponse {
	return PageResponse{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Total:   total,
		HasMore: p.Offset+returned < total,
	}
}

// ErrorResponse cuerpo de error HTTP. Field indica el campo rechazado en errores de validación;
// Stock acompaña a INSUFFICIENT_STOCK.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
	Stock   *StockShortfallInfo `json:"stock,omitempty"`
}

// StockShortfallInfo detalle de una salida rechazada por falta de stock.
type StockShortfallInfo struct {
	ItemID       string `json:"item_id"`
	CurrentStock int64  `json:"current_stock"`
	Requested    int64  `json:"requested"`
	Shortfall    int64  `json:"shortfall"`
}
