//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fg-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Writes a small gzipped JSON-lines catalogue for local runs of
// cmd/catalog-import. Run with: go run scripts/generate_sample_catalog.go
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	original := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}

	products := []model.ProductRequest{
		{ID: "TSHIRT-01", Name: "Basic Tee", Price: decimal.NewFromInt(990), Stock: 40, Category: "tops"},
		{ID: "TSHIRT-02", Name: "Striped Tee", Price: decimal.NewFromInt(1190), Stock: 25, Category: "tops"},
		{ID: "POLO-01", Name: "Pique Polo", Price: decimal.NewFromInt(1290), OriginalPrice: original(1590), Stock: 18, Category: "tops"},
		{ID: "JEANS-01", Name: "Slim Jeans", Price: decimal.NewFromInt(699), OriginalPrice: original(899), Stock: 12, Category: "bottoms"},
		{ID: "CHINO-01", Name: "Stretch Chino", Price: decimal.NewFromInt(1750), Stock: 9, Category: "bottoms"},
		{ID: "PANJABI-01", Name: "Cotton Panjabi", Price: decimal.NewFromInt(2450), OriginalPrice: original(2990), Stock: 7, Category: "ethnic"},
	}

	path := filepath.Join(dataDir, "products.jsonl.gz")
	if err := writeCatalog(path, products); err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	fmt.Printf("Created %s with %d products\n", path, len(products))
}

func writeCatalog(path string, products []model.ProductRequest) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	return nil
}
