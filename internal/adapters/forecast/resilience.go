package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/surfcast/pkg/metrics"
	"github.com/sony/gobreaker/v2"
)

const defaultHTTPTimeout = 10 * time.Second

// BackoffConfig controls exponential backoff between upstream attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var defaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

// newBreaker builds a breaker that trips after five consecutive failures and
// exports its state.
func newBreaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	metrics.UpdateCircuitBreakerState(name, float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			metrics.UpdateCircuitBreakerState(name, float64(to))
		},
	})
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrRateLimited) || isTransport(err)
}

type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransport(err error) bool {
	var te *transportError
	return errors.As(err, &te)
}

// doRequestWithResilience executes the request built by build with retries,
// exponential backoff and a circuit breaker. Non-2xx responses are closed
// before an error is returned.
func doRequestWithResilience(
	ctx context.Context,
	client *http.Client,
	backoff BackoffConfig,
	cb *gobreaker.CircuitBreaker[*http.Response],
	build func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if backoff.MaxRetries < 0 || backoff.InitialInterval <= 0 {
		return nil, ErrInvalidBackoff
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := cb.Execute(func() (*http.Response, error) {
			resp, err := client.Do(req)
			if err != nil {
				return nil, &transportError{err: err}
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, ErrRateLimited
			case resp.StatusCode >= http.StatusInternalServerError:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, cb.Name())
		}
		if ctx.Err() != nil || !retryable(err) || attempt >= backoff.MaxRetries {
			return nil, err
		}

		delay := backoff.InitialInterval << attempt
		if backoff.MaxInterval > 0 && delay > backoff.MaxInterval {
			delay = backoff.MaxInterval
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
