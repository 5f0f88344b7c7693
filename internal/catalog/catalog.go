// Package catalog imports product catalogue files into the product store.
//
// A catalogue file is gzipped JSON lines, one product per line:
//
//	{"id":"TSHIRT-01","name":"Basic Tee","price":"990","stock":10,"category":"tops"}
//	{"id":"JEANS-01","name":"Slim Jeans","price":"699","originalPrice":"899","stock":5,"category":"bottoms"}
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"fg-storefront/internal/model"
)

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a gzipped catalogue file and returns its products.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

const maxLineBytes = 1024 * 1024

// decode reads gzipped JSON lines from r. Any malformed or invalid record
// fails the whole file so a half-broken export is never applied.
func decode(ctx context.Context, r io.Reader, now time.Time) ([]model.Product, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	products := []model.Product{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req model.ProductRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", lineNo, req.ID, err)
		}
		products = append(products, req.ToProduct(now))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue: %w", err)
	}

	return products, nil
}
