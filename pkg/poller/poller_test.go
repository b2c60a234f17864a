package poller

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helvethink/sevalla-action/pkg/schemas"
	"github.com/helvethink/sevalla-action/pkg/sevalla"
)

type recorder struct {
	lines []string
}

func (r *recorder) Info(msg string) {
	r.lines = append(r.lines, msg)
}

// newTestPoller returns a Poller whose sleeps are counted instead of waited.
func newTestPoller(maxRetries int, o Observer) (*Poller, *int) {
	sleeps := new(int)
	p := New(DefaultInterval, maxRetries, o)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps++
		return ctx.Err()
	}

	return p, sleeps
}

// sequence returns a Fetcher replaying statuses, then repeating the last one.
func sequence(calls *int, statuses ...string) Fetcher {
	return func(_ context.Context, _ string) (string, error) {
		i := *calls
		*calls++

		if i >= len(statuses) {
			i = len(statuses) - 1
		}

		return statuses[i], nil
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(time.Second, 0, nil)
	assert.Equal(t, DefaultMaxRetries, p.MaxRetries)
	assert.Equal(t, time.Second, p.Interval)
}

func TestPollSucceeded(t *testing.T) {
	r := &recorder{}
	p, sleeps := newTestPoller(DefaultMaxRetries, r)

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch:      sequence(&calls, "succeeded"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, *sleeps)
	assert.Equal(t, []string{"Deployment status: succeeded"}, r.lines)
}

func TestPollFailureTerminal(t *testing.T) {
	for _, tc := range []struct {
		name       string
		kind       schemas.OperationKind
		vocabulary schemas.Vocabulary
		status     string
		message    string
	}{
		{"static site failed", schemas.OperationKindDeployment, schemas.StaticSiteDeploymentVocabulary, "failed", "Deployment failed: status is failed"},
		{"static site cancelled", schemas.OperationKindDeployment, schemas.StaticSiteDeploymentVocabulary, "cancelled", "Deployment failed: status is cancelled"},
		{"app error", schemas.OperationKindDeployment, schemas.AppDeploymentVocabulary, "error", "Deployment failed: status is error"},
		{"promotion failed", schemas.OperationKindPromotion, schemas.PromotionVocabulary, "failed", "Promotion failed: status is failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPoller(DefaultMaxRetries, nil)

			var calls int
			err := p.Poll(context.Background(), Target{
				ID:         "x",
				Kind:       tc.kind,
				Vocabulary: tc.vocabulary,
				Fetch:      sequence(&calls, tc.status),
			})

			require.EqualError(t, err, tc.message)

			var dfe *DeploymentFailedError
			require.True(t, errors.As(err, &dfe))
			assert.Equal(t, tc.status, dfe.Status)
			assert.False(t, errors.Is(err, ErrRetryBudgetExceeded))
			assert.Equal(t, 1, calls)
		})
	}
}

func TestPollNonTerminalThenSucceeded(t *testing.T) {
	r := &recorder{}
	p, sleeps := newTestPoller(DefaultMaxRetries, r)

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "p1",
		Kind:       schemas.OperationKindPromotion,
		Vocabulary: schemas.PromotionVocabulary,
		Fetch:      sequence(&calls, "running", "succeeded"),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, *sleeps)
	assert.Equal(t, []string{"Promotion status: running", "Promotion status: succeeded"}, r.lines)
}

func TestPollRetryBudgetExceeded(t *testing.T) {
	p, sleeps := newTestPoller(DefaultMaxRetries, nil)

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch:      sequence(&calls, "building"),
	})

	require.EqualError(t, err, "Max retries reached while polling deployment status")
	assert.True(t, errors.Is(err, ErrRetryBudgetExceeded))

	var dfe *DeploymentFailedError
	assert.False(t, errors.As(err, &dfe))

	// The ceiling check runs after the delay and before the fetch.
	assert.Equal(t, DefaultMaxRetries, calls)
	assert.Equal(t, DefaultMaxRetries+1, *sleeps)
}

func TestPollSucceedsOnLastAllowedAttempt(t *testing.T) {
	p, _ := newTestPoller(DefaultMaxRetries, nil)

	statuses := make([]string, DefaultMaxRetries)
	for i := range statuses {
		statuses[i] = "building"
	}
	statuses[DefaultMaxRetries-1] = "finished"

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch:      sequence(&calls, statuses...),
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRetries, calls)
}

func TestPollTransientFailuresConsumeBudget(t *testing.T) {
	r := &recorder{}
	p, _ := newTestPoller(3, r)

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch: func(_ context.Context, _ string) (string, error) {
			calls++
			return "", &sevalla.RequestError{Operation: "Deployment status", StatusCode: http.StatusBadGateway, Reason: "Bad Gateway"}
		},
	})

	assert.True(t, errors.Is(err, ErrRetryBudgetExceeded))
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{
		"Failed to fetch deployment status (id: d1) - 502; Bad Gateway",
		"Failed to fetch deployment status (id: d1) - 502; Bad Gateway",
		"Failed to fetch deployment status (id: d1) - 502; Bad Gateway",
	}, r.lines)
}

func TestPollRecoversFromTransientFailure(t *testing.T) {
	r := &recorder{}
	p, _ := newTestPoller(DefaultMaxRetries, r)

	var calls int
	err := p.Poll(context.Background(), Target{
		ID:         "s1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.StaticSiteDeploymentVocabulary,
		Fetch: func(_ context.Context, _ string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("connection reset")
			}

			return "success", nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{
		"Failed to fetch deployment status (id: s1) - connection reset",
		"Deployment status: success",
	}, r.lines)
}

func TestPollContextCancelled(t *testing.T) {
	p, _ := newTestPoller(DefaultMaxRetries, nil)

	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	err := p.Poll(ctx, Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch: func(ctx context.Context, _ string) (string, error) {
			calls++
			cancel()
			return "", ctx.Err()
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPollIsRepeatable(t *testing.T) {
	p, _ := newTestPoller(DefaultMaxRetries, nil)

	target := Target{
		ID:         "d1",
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch: func(_ context.Context, _ string) (string, error) {
			return "failed", nil
		},
	}

	first := p.Poll(context.Background(), target)
	second := p.Poll(context.Background(), target)

	assert.Equal(t, first.Error(), second.Error())
}

func TestPollWithoutFetcher(t *testing.T) {
	p, _ := newTestPoller(DefaultMaxRetries, nil)
	assert.Error(t, p.Poll(context.Background(), Target{ID: "d1"}))
}

func TestSleep(t *testing.T) {
	assert.NoError(t, sleep(context.Background(), 0))
	assert.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}
