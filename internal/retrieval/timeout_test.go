package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallWithTimeout(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		fn        func(calls *int) func(context.Context) (string, error)
		wantValue string
		wantCalls int
		wantErr   error
	}{
		{
			name: "success first attempt",
			fn: func(calls *int) func(context.Context) (string, error) {
				return func(context.Context) (string, error) {
					*calls++
					return "ok", nil
				}
			},
			wantValue: "ok",
			wantCalls: 1,
		},
		{
			name: "retried once after timeout",
			fn: func(calls *int) func(context.Context) (string, error) {
				return func(ctx context.Context) (string, error) {
					*calls++
					if *calls == 1 {
						<-ctx.Done()
						return "", ctx.Err()
					}
					return "second", nil
				}
			},
			wantValue: "second",
			wantCalls: 2,
		},
		{
			name: "timeout twice surfaces TimeoutError",
			fn: func(calls *int) func(context.Context) (string, error) {
				return func(ctx context.Context) (string, error) {
					*calls++
					<-ctx.Done()
					return "", ctx.Err()
				}
			},
			wantCalls: 2,
			wantErr:   ErrTimeout,
		},
		{
			name: "other errors are not retried",
			fn: func(calls *int) func(context.Context) (string, error) {
				return func(context.Context) (string, error) {
					*calls++
					return "", boom
				}
			},
			wantCalls: 1,
			wantErr:   boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := CallWithTimeout(context.Background(), 20*time.Millisecond, "embed", tt.fn(&calls))

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantValue {
				t.Errorf("value = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestCallWithTimeout_TimeoutErrorDetails(t *testing.T) {
	_, err := CallWithTimeout(context.Background(), 10*time.Millisecond, "generate", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if te.Op != "generate" || te.Attempts != 2 {
		t.Errorf("TimeoutError = %+v", te)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should wrap the deadline error")
	}
}

func TestCallWithTimeout_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := CallWithTimeout(ctx, time.Second, "embed", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		<-ctx.Done()
		return 0, ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("caller cancellation must not be reported as timeout")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
