package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityRepository_MarkProcessed_WriteRejected(t *testing.T) {
	rec := &execRecorder{
		fail: func(int) error { return errors.New("connection refused") },
	}
	repo := &AvailabilityRepository{writer: NewBatchWriter(rec, 1)}

	err := repo.MarkProcessed(context.Background(), 22400500, 1)
	require.Error(t, err, "an uncommitted marker must not look marked")
	assert.Contains(t, err.Error(), "22400500")
	assert.Len(t, rec.calls, 1)
}

func TestAvailabilityRepository_MarkProcessed_Committed(t *testing.T) {
	rec := &execRecorder{}
	repo := &AvailabilityRepository{writer: NewBatchWriter(rec, 1)}

	err := repo.MarkProcessed(context.Background(), 22400500, 1)
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []any{22400500, 1}, rec.calls[0].args)
	assert.Contains(t, rec.calls[0].sql, "INSERT INTO hustle_stats_available")
}
