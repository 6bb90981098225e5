package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/productos/catalog-api/internal/models"
)

// timestampLayout renders UTC times with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ProductResponse represents a product resource in API responses.
// @Description Product resource
type ProductResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Price     json.Number `json:"price" swaggertype:"number"`
	CreatedAt string      `json:"created_at"`
}

// TopProductResponse is a product entry in the most-expensive listing.
// @Description Top priced product
type TopProductResponse struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    json.Number `json:"price" swaggertype:"number"`
}

// SummaryResponse aggregates the whole table. Price fields are null when
// there are no products.
// @Description Global price summary
type SummaryResponse struct {
	TotalProducts  int64        `json:"total_products"`
	AveragePrice   *json.Number `json:"average_price" swaggertype:"number"`
	MinPrice       *json.Number `json:"min_price" swaggertype:"number"`
	MaxPrice       *json.Number `json:"max_price" swaggertype:"number"`
	InventoryValue *json.Number `json:"inventory_value" swaggertype:"number"`
}

// CategoryStatsResponse holds price statistics for one category.
// @Description Category statistics
type CategoryStatsResponse struct {
	Category     string      `json:"category"`
	Total        int64       `json:"total"`
	MinPrice     json.Number `json:"min_price" swaggertype:"number"`
	MaxPrice     json.Number `json:"max_price" swaggertype:"number"`
	AveragePrice json.Number `json:"average_price" swaggertype:"number"`
	TotalValue   json.Number `json:"total_value" swaggertype:"number"`
}

// StatisticsResponse is the body of the statistics endpoint.
// @Description Catalog statistics
type StatisticsResponse struct {
	Resumen      SummaryResponse         `json:"resumen"`
	Categorias   []CategoryStatsResponse `json:"categorias"`
	TopProductos []TopProductResponse    `json:"topProductos"`
	Timestamp    string                  `json:"timestamp"`
}

// PriceRangeResponse counts products in [min, max). Max is null for the
// open-ended range.
// @Description Price range bucket
type PriceRangeResponse struct {
	Rango string       `json:"rango"`
	Total int64        `json:"total"`
	Min   json.Number  `json:"min" swaggertype:"number"`
	Max   *json.Number `json:"max" swaggertype:"number"`
}

// PriceDistributionResponse is the body of the price analysis endpoint.
// @Description Price distribution
type PriceDistributionResponse struct {
	DistribucionPrecios []PriceRangeResponse `json:"distribucionPrecios"`
	Timestamp           string               `json:"timestamp"`
}

// StatusResponse is the liveness probe body.
// @Description Service status
type StatusResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func nullMoney(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := money(d.Decimal)
	return &n
}

func convertToProductResponse(product *models.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     money(product.Price),
		CreatedAt: product.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func convertToStatisticsResponse(stats *models.Statistics, now time.Time) StatisticsResponse {
	categories := make([]CategoryStatsResponse, len(stats.Categories))
	for i, c := range stats.Categories {
		categories[i] = CategoryStatsResponse{
			Category:     c.Category,
			Total:        c.Total,
			MinPrice:     money(c.MinPrice),
			MaxPrice:     money(c.MaxPrice),
			AveragePrice: money(c.AveragePrice),
			TotalValue:   money(c.TotalValue),
		}
	}

	top := make([]TopProductResponse, len(stats.TopProducts))
	for i, p := range stats.TopProducts {
		top[i] = TopProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    money(p.Price),
		}
	}

	return StatisticsResponse{
		Resumen: SummaryResponse{
			TotalProducts:  stats.Summary.TotalProducts,
			AveragePrice:   nullMoney(stats.Summary.AveragePrice),
			MinPrice:       nullMoney(stats.Summary.MinPrice),
			MaxPrice:       nullMoney(stats.Summary.MaxPrice),
			InventoryValue: nullMoney(stats.Summary.InventoryValue),
		},
		Categorias:   categories,
		TopProductos: top,
		Timestamp:    formatTimestamp(now),
	}
}

func convertToPriceDistributionResponse(counts []models.PriceRangeCount, now time.Time) PriceDistributionResponse {
	ranges := make([]PriceRangeResponse, len(counts))
	for i, c := range counts {
		ranges[i] = PriceRangeResponse{
			Rango: c.Range.Label,
			Total: c.Total,
			Min:   json.Number(c.Range.Min.String()),
		}
		if c.Range.Max != nil {
			upper := json.Number(c.Range.Max.String())
			ranges[i].Max = &upper
		}
	}

	return PriceDistributionResponse{
		DistribucionPrecios: ranges,
		Timestamp:           formatTimestamp(now),
	}
}
