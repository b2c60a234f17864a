package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/helvethink/sevalla-action/pkg/schemas"
	"github.com/helvethink/sevalla-action/pkg/sevalla"
)

const tracerName = "sevalla-action"

// Defaults matching the platform's expected cadence.
const (
	DefaultInterval   = 5 * time.Second
	DefaultMaxRetries = 1000
)

// Fetcher reads the current status of the operation identified by id.
type Fetcher func(ctx context.Context, id string) (status string, err error)

// Target is one remote operation to wait for.
type Target struct {
	ID         string
	Kind       schemas.OperationKind
	Vocabulary schemas.Vocabulary
	Fetch      Fetcher
}

// Observer receives the human readable progress lines.
type Observer interface {
	Info(msg string)
}

// Poller waits for remote operations to reach a terminal status.
type Poller struct {
	Interval   time.Duration // Interval is waited before every attempt, the first one included.
	MaxRetries int           // MaxRetries is the attempt ceiling.
	Observer   Observer      // Observer is optional.

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Poller. Non-positive maxRetries falls back to DefaultMaxRetries.
func New(interval time.Duration, maxRetries int, observer Observer) *Poller {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &Poller{
		Interval:   interval,
		MaxRetries: maxRetries,
		Observer:   observer,
		sleep:      sleep,
	}
}

// Poll fetches the target status until it is terminal or the attempt budget is spent.
// It returns nil on a success-terminal status, a *DeploymentFailedError on a
// failure-terminal one and a *RetryBudgetExceededError when the budget is spent.
// Fetch errors are retried, except those caused by ctx ending.
func (p *Poller) Poll(ctx context.Context, t Target) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "poller:Poll")
	defer span.End()
	span.SetAttributes(
		attribute.String("operation_kind", string(t.Kind)),
		attribute.String("operation_id", t.ID),
	)

	if t.Fetch == nil {
		return errors.New("poller: target has no fetcher")
	}

	fields := log.Fields{
		"operation-kind": t.Kind,
		"operation-id":   t.ID,
	}

	for attempt := 0; ; attempt++ {
		if err := p.sleep(ctx, p.Interval); err != nil {
			return err
		}

		if attempt >= p.MaxRetries {
			err := &RetryBudgetExceededError{Kind: t.Kind, Attempts: attempt}
			span.SetAttributes(attribute.Int("attempts", attempt))
			span.SetStatus(codes.Error, err.Error())

			return err
		}

		status, err := t.Fetch(ctx, t.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			transient := &TransientFetchError{Attempt: attempt + 1, Err: err}
			span.AddEvent("fetch failed", trace.WithAttributes(
				attribute.Int("attempt", transient.Attempt),
				attribute.String("error", err.Error()),
			))

			log.WithContext(ctx).
				WithFields(fields).
				WithField("attempt", transient.Attempt).
				WithError(err).
				Debug("status fetch failed, retrying")

			p.info(fetchFailureMessage(t, err))

			continue
		}

		p.info(fmt.Sprintf("%s status: %s", t.Kind.Title(), status))

		outcome := t.Vocabulary.Classify(status)
		span.AddEvent("status", trace.WithAttributes(
			attribute.Int("attempt", attempt+1),
			attribute.String("status", status),
			attribute.String("outcome", outcome.String()),
		))

		switch outcome {
		case schemas.OutcomeSucceeded:
			span.SetAttributes(attribute.Int("attempts", attempt+1))
			return nil
		case schemas.OutcomeFailed:
			err := &DeploymentFailedError{Kind: t.Kind, Status: status}
			span.SetAttributes(attribute.Int("attempts", attempt+1))
			span.SetStatus(codes.Error, err.Error())

			return err
		}
	}
}

func (p *Poller) info(msg string) {
	if p.Observer != nil {
		p.Observer.Info(msg)
	}
}

func fetchFailureMessage(t Target, err error) string {
	var re *sevalla.RequestError
	if errors.As(err, &re) {
		return fmt.Sprintf("Failed to fetch %s status (id: %s) - %d; %s", t.Kind, t.ID, re.StatusCode, re.Reason)
	}

	return fmt.Sprintf("Failed to fetch %s status (id: %s) - %s", t.Kind, t.ID, err)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
