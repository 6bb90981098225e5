// Package seed fills the products table with synthetic data.
package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/productos/catalog-api/internal/models"
)

// Categories are the labels assigned to generated products.
var Categories = []string{
	"Electrónica", "Ropa", "Hogar", "Deportes", "Juguetes",
	"Jardín", "Alimentación", "Belleza", "Salud", "Libros",
	"Música", "Automóvil", "Bebés", "Mascotas", "Oficina",
}

var (
	devices   = []string{"Smartphone", "Tablet", "Portátil", "TV", "Auriculares", "Altavoz"}
	garments  = []string{"Camiseta", "Pantalón", "Vestido", "Chaqueta", "Zapatillas", "Calcetines"}
	furniture = []string{"Sofá", "Mesa", "Lámpara", "Silla", "Estantería", "Alfombra"}
)

// Generator builds random products. It is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
}

// priceCeiling is the exclusive upper bound for generated prices.
var priceCeiling = decimal.NewFromInt(1001)

// NewGenerator returns a generator; a seed of 0 picks a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Product returns a product with a uniformly chosen category and a price in
// [1, 1001) rounded to two decimals.
func (g *Generator) Product() models.NewProduct {
	category := g.faker.RandomString(Categories)
	price := roundPrice(g.faker.Float64Range(1, 1001))

	return models.NewProduct{
		Name:     g.name(category),
		Category: category,
		Price:    price,
	}
}

// roundPrice rounds to cents, keeping values that round up to the ceiling
// just below it.
func roundPrice(f float64) decimal.Decimal {
	price := decimal.NewFromFloat(f).Round(2)
	if price.GreaterThanOrEqual(priceCeiling) {
		return priceCeiling.Sub(decimal.New(1, -2))
	}
	return price
}

// Batch returns n generated products.
func (g *Generator) Batch(n int) []models.NewProduct {
	products := make([]models.NewProduct, n)
	for i := range products {
		products[i] = g.Product()
	}
	return products
}

func (g *Generator) name(category string) string {
	switch category {
	case "Electrónica":
		return fmt.Sprintf("%s %s", g.faker.RandomString(devices), firstWord(g.faker.Company()))
	case "Ropa":
		return fmt.Sprintf("%s %s", g.faker.RandomString(garments), g.faker.Color())
	case "Hogar":
		return fmt.Sprintf("%s %s", g.faker.RandomString(furniture), g.faker.ProductMaterial())
	default:
		return g.faker.ProductName()
	}
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
