package catalog

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// DemoProducts mirrors the rows seeded by the sqlite migrations so the memory
// driver serves the same catalog.
func DemoProducts() []domain.Product {
	casacaSale := decimal.RequireFromString("149.90")
	gorraSale := decimal.RequireFromString("29.90")

	return []domain.Product{
		{
			ID: 1, SKU: "JEAN-MOM-01", Name: "Jean Mom",
			ListPrice: decimal.RequireFromString("120.00"), Stock: 25, Thumbnail: "/img/jean-mom.jpg",
			Sizes:  []domain.Size{{ID: 1, Code: "28"}, {ID: 2, Code: "30"}, {ID: 3, Code: "32"}},
			Colors: []domain.Color{{ID: 1, Name: "Azul", Hex: "#1F3A93"}},
		},
		{
			ID: 2, SKU: "POLO-OVS-01", Name: "Polo Oversize",
			ListPrice: decimal.RequireFromString("20.00"), Stock: 80, Thumbnail: "/img/polo-oversize.jpg",
			Sizes:  []domain.Size{{ID: 4, Code: "S"}, {ID: 5, Code: "M"}, {ID: 6, Code: "L"}},
			Colors: []domain.Color{{ID: 2, Name: "Negro", Hex: "#000000"}, {ID: 3, Name: "Blanco", Hex: "#FFFFFF"}},
		},
		{
			ID: 3, SKU: "CASACA-DN-01", Name: "Casaca Denim",
			ListPrice: decimal.RequireFromString("199.90"), SalePrice: &casacaSale, OnSale: true,
			Stock: 10, Thumbnail: "/img/casaca-denim.jpg",
			Sizes:  []domain.Size{{ID: 7, Code: "M"}, {ID: 8, Code: "L"}},
			Colors: []domain.Color{{ID: 4, Name: "Celeste", Hex: "#8DB6E0"}},
		},
		{
			ID: 4, SKU: "GORRA-BS-01", Name: "Gorra Baseball",
			ListPrice: decimal.RequireFromString("35.00"), SalePrice: &gorraSale,
			Stock: 40, Thumbnail: "/img/gorra.jpg",
		},
		{
			ID: 5, SKU: "MEDIAS-PK-01", Name: "Medias Pack x3",
			ListPrice: decimal.RequireFromString("15.00"), Thumbnail: "/img/medias.jpg",
		},
	}
}
