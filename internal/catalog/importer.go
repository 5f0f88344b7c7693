package catalog

import (
	"context"
	"fmt"
	"sync"

	"fg-storefront/internal/model"

	"github.com/rs/zerolog"
)

// Store is where imported products are written.
type Store interface {
	Upsert(ctx context.Context, products []model.Product) error
}

// Importer loads catalogue files and upserts their products.
type Importer struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// Result summarises an import run.
type Result struct {
	Files    int
	Products int
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every file concurrently and upserts the union. When the same
// product id appears in several files, the later file in paths wins. Nothing
// is written unless every file loads.
func (i *Importer) Import(ctx context.Context, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, fmt.Errorf("no catalogue files given")
	}

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			products, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := []model.Product{}
	position := map[string]int{}
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", paths[idx]).
				Msg("failed to load catalogue file")
			return Result{}, fmt.Errorf("failed to load catalogue file %s: %w", paths[idx], result.err)
		}
		for _, p := range result.products {
			if pos, ok := position[p.ID]; ok {
				merged[pos] = p
				continue
			}
			position[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}

	if err := i.store.Upsert(ctx, merged); err != nil {
		return Result{}, fmt.Errorf("failed to store catalogue: %w", err)
	}

	i.logger.Info().
		Int("files", len(paths)).
		Int("products", len(merged)).
		Msg("catalogue imported")

	return Result{Files: len(paths), Products: len(merged)}, nil
}
