package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
)

// CartItemDTO is one product line rendered for the API.
type CartItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
	IsAvailable bool      `json:"is_available"`
}

// SummaryDTO aggregates the cart. An empty cart renders all zeros.
type SummaryDTO struct {
	ItemTypes  int    `json:"item_types"`
	TotalItems int    `json:"total_items"`
	Total      string `json:"total"`
}

// CartSummaryDTO is the standalone summary payload.
type CartSummaryDTO struct {
	CartID uuid.UUID `json:"cart_id"`
	SummaryDTO
}

// CartDTO is the full cart payload.
type CartDTO struct {
	ID      uuid.UUID     `json:"id"`
	Items   []CartItemDTO `json:"items"`
	Summary SummaryDTO    `json:"summary"`
}

// NewCartDTO projects a cart with loaded items into the API shape.
func NewCartDTO(cart *models.Cart) *CartDTO {
	if cart == nil {
		return nil
	}
	dto := &CartDTO{
		ID:    cart.ID,
		Items: make([]CartItemDTO, 0, len(cart.Items)),
	}

	total := decimal.Zero
	for _, item := range cart.Items {
		line := CartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.UnitPrice = item.Product.Price.StringFixed(2)
			line.IsAvailable = item.Product.IsAvailable
			lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.LineTotal = lineTotal.StringFixed(2)
			total = total.Add(lineTotal)
		}
		dto.Items = append(dto.Items, line)
		dto.Summary.TotalItems += item.Quantity
	}
	dto.Summary.ItemTypes = len(cart.Items)
	dto.Summary.Total = total.StringFixed(2)
	return dto
}
