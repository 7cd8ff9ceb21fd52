package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/metrics"
	"github.com/renaqd/team1-ADS507/internal/models"
)

// Execer is the slice of the pgx pool the writer needs; tests substitute a
// stub to observe batch boundaries.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BatchWriter persists canonical rows in bounded batches. Each batch is one
// multi-row INSERT ... ON CONFLICT DO UPDATE statement, committed on its
// own: a crash loses at most one batch, never part of a row. A batch the
// database rejects is logged and abandoned; the writer carries on with the
// next one, trading completeness for forward progress.
type BatchWriter struct {
	db        Execer
	batchSize int
}

// NewBatchWriter creates a writer with the given batch size bound
func NewBatchWriter(db Execer, batchSize int) *BatchWriter {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &BatchWriter{db: db, batchSize: batchSize}
}

// Write upserts all rows into the table described by the descriptor and
// returns the number of rows committed. Row values must follow the
// descriptor's column order; the normalizer guarantees this by deriving its
// Row methods from the same descriptor.
func (w *BatchWriter) Write(ctx context.Context, table models.Table, rows [][]any) (int, error) {
	written := 0

	for start := 0; start < len(rows); start += w.batchSize {
		end := start + w.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		if err := ctx.Err(); err != nil {
			return written, err
		}

		sql := upsertSQL(table, len(batch))
		args := make([]any, 0, len(batch)*len(table.Columns))
		for _, row := range batch {
			args = append(args, row...)
		}

		if _, err := w.db.Exec(ctx, sql, args...); err != nil {
			metrics.RecordBatchFailure(table.Name)
			log.Error().
				Err(err).
				Str("table", table.Name).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("Batch upsert failed, skipping batch")
			continue
		}

		written += len(batch)
	}

	if written > 0 {
		metrics.RecordRowsWritten(table.Name, written)
	}

	log.Debug().
		Str("table", table.Name).
		Int("rows", len(rows)).
		Int("written", written).
		Msg("Batch write complete")

	return written, nil
}

// upsertSQL builds the multi-row insert-or-update statement for n rows of
// the table: on conflict over the key columns, every value column is
// replaced from the incoming row.
func upsertSQL(table models.Table, n int) string {
	var b strings.Builder

	b.WriteString("INSERT INTO ")
	b.WriteString(table.Name)
	b.WriteString(" (")
	b.WriteString(strings.Join(table.Columns, ", "))
	b.WriteString(") VALUES ")

	cols := len(table.Columns)
	for row := 0; row < n; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for col := 0; col < cols; col++ {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", row*cols+col+1)
		}
		b.WriteByte(')')
	}

	b.WriteString(" ON CONFLICT (")
	b.WriteString(strings.Join(table.Key, ", "))
	b.WriteString(") DO UPDATE SET ")

	setParts := make([]string, 0, len(table.Columns))
	for _, col := range table.ValueColumns() {
		setParts = append(setParts, col+" = EXCLUDED."+col)
	}
	setParts = append(setParts, "updated_at = NOW()")
	b.WriteString(strings.Join(setParts, ", "))

	return b.String()
}
