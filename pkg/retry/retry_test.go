package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fast = Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func TestPolicy_Do(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")
	isFatal := func(err error) bool { return errors.Is(err, fatal) }

	tests := []struct {
		name      string
		failures  []error
		wantErr   error
		wantCalls int
	}{
		{name: "first try", wantCalls: 1},
		{name: "recovers", failures: []error{transient, transient}, wantCalls: 3},
		{name: "exhausted", failures: []error{transient, transient, transient, transient}, wantErr: transient, wantCalls: 3},
		{name: "permanent", failures: []error{fatal}, wantErr: fatal, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Do(context.Background(), func(ctx context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, isFatal)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPolicy_DoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Policy{MaxAttempts: 5}.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	}, nil)

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}
