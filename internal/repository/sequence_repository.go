package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type sequenceRepository struct {
	logger zerolog.Logger
}

// NewSequenceRepository creates a counter store backed by the order_sequences table.
func NewSequenceRepository(logger zerolog.Logger) SequenceRepository {
	return &sequenceRepository{
		logger: logger.With().Str("repository", "sequence").Logger(),
	}
}

// Next increments the counter for key inside tx. The row lock taken by the
// upsert serialises concurrent callers until tx ends.
func (r *sequenceRepository) Next(ctx context.Context, tx pgx.Tx, key string) (int64, error) {
	const query = `
		INSERT INTO order_sequences (sequence_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (sequence_key) DO UPDATE SET
			last_sequence = order_sequences.last_sequence + 1,
			updated_at = NOW()
		RETURNING last_sequence
	`

	var seq int64
	if err := tx.QueryRow(ctx, query, key).Scan(&seq); err != nil {
		r.logger.Error().Err(err).Str("sequence_key", key).Msg("failed to advance sequence")
		return 0, fmt.Errorf("failed to advance sequence %q: %w", key, err)
	}
	return seq, nil
}
