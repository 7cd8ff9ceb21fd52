package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renaqd/team1-ADS507/internal/models"
)

// execRecorder captures every statement the writer issues
type execRecorder struct {
	calls []execCall
	fail  func(call int) error
}

type execCall struct {
	sql  string
	args []any
}

func (r *execRecorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	call := len(r.calls)
	r.calls = append(r.calls, execCall{sql: sql, args: args})
	if r.fail != nil {
		if err := r.fail(call); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

var testTable = models.Table{
	Name:    "widgets",
	Columns: []string{"widget_id", "name", "count"},
	Key:     []string{"widget_id"},
}

func testRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i + 1, "widget", i * 10}
	}
	return rows
}

func TestBatchWriter_SplitsIntoBatches(t *testing.T) {
	rec := &execRecorder{}
	writer := NewBatchWriter(rec, 2)

	written, err := writer.Write(context.Background(), testTable, testRows(5))
	require.NoError(t, err)
	assert.Equal(t, 5, written)

	// 5 rows with batch size 2 means three statements: 2, 2, 1
	require.Len(t, rec.calls, 3)
	assert.Len(t, rec.calls[0].args, 6)
	assert.Len(t, rec.calls[1].args, 6)
	assert.Len(t, rec.calls[2].args, 3)

	// Rows stay in input order across batch boundaries
	assert.Equal(t, 1, rec.calls[0].args[0])
	assert.Equal(t, 3, rec.calls[1].args[0])
	assert.Equal(t, 5, rec.calls[2].args[0])
}

func TestBatchWriter_SingleBatch(t *testing.T) {
	rec := &execRecorder{}
	writer := NewBatchWriter(rec, 500)

	written, err := writer.Write(context.Background(), testTable, testRows(3))
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.Len(t, rec.calls, 1)
}

func TestBatchWriter_EmptyInput(t *testing.T) {
	rec := &execRecorder{}
	writer := NewBatchWriter(rec, 2)

	written, err := writer.Write(context.Background(), testTable, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Empty(t, rec.calls)
}

func TestBatchWriter_FailedBatchIsSkipped(t *testing.T) {
	rec := &execRecorder{
		fail: func(call int) error {
			if call == 1 {
				return errors.New("deadlock detected")
			}
			return nil
		},
	}
	writer := NewBatchWriter(rec, 2)

	written, err := writer.Write(context.Background(), testTable, testRows(5))
	require.NoError(t, err, "a failed batch is logged, not returned")
	assert.Equal(t, 3, written, "the failed middle batch is not counted")
	assert.Len(t, rec.calls, 3, "later batches still run")
}

func TestBatchWriter_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &execRecorder{}
	writer := NewBatchWriter(rec, 2)

	written, err := writer.Write(ctx, testTable, testRows(5))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, written)
	assert.Empty(t, rec.calls)
}

func TestBatchWriter_ZeroBatchSizeUsesDefault(t *testing.T) {
	writer := NewBatchWriter(&execRecorder{}, 0)
	assert.Equal(t, defaultBatchSize, writer.batchSize)
}

func TestUpsertSQL(t *testing.T) {
	sql := upsertSQL(testTable, 2)

	assert.Equal(t,
		"INSERT INTO widgets (widget_id, name, count) VALUES ($1, $2, $3), ($4, $5, $6)"+
			" ON CONFLICT (widget_id) DO UPDATE SET name = EXCLUDED.name, count = EXCLUDED.count, updated_at = NOW()",
		sql,
	)
}

func TestUpsertSQL_CompositeKey(t *testing.T) {
	sql := upsertSQL(models.HustleStatsTable, 1)

	assert.Contains(t, sql, "INSERT INTO hustle_stats (")
	assert.Contains(t, sql, "ON CONFLICT (game_id, player_id) DO UPDATE SET")
	assert.Contains(t, sql, "deflections = EXCLUDED.deflections")
	assert.NotContains(t, sql, "game_id = EXCLUDED.game_id", "key columns are never updated")
	assert.Contains(t, sql, "updated_at = NOW()")
}
