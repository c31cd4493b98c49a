package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/shelter-booking/pkg/txmanager"
)

type failingExecutor struct {
	err error
}

func (e *failingExecutor) ExecContext(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
	return nil, e.err
}

func (e *failingExecutor) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, e.err
}

func (e *failingExecutor) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

func TestRepository_KeepsDriverErrorInChain(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	repo := NewRepository(&failingExecutor{err: conflict})
	ctx := context.Background()

	_, err := repo.ListBySlot(ctx, SlotFilter{ServiceID: 1, Datetime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsSerializationFailure(err))

	_, err = repo.ListByParticipant(ctx, 5)
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
