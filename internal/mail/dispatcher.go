package mail

import (
	"context"
	"log/slog"
	netmail "net/mail"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enrolld/enrolld/internal/metrics"
)

// DispatchTimeout is the maximum time a single delivery attempt may take.
const DispatchTimeout = 15 * time.Second

// Dispatcher hands verification mail to the transport after the registration
// transaction has committed. Fire-and-forget: exactly one attempt per
// registration, failures are logged and dropped, never retried, never
// surfaced to the original caller.
type Dispatcher struct {
	mailer  Mailer
	baseURL string
	logger  *slog.Logger
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(mailer Mailer, baseURL string, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger.With("component", "mail.dispatcher"),
		metrics: recorder,
	}
}

// DispatchVerification schedules delivery of the verification mail without
// blocking the caller.
func (d *Dispatcher) DispatchVerification(recipient string, tokenID uuid.UUID) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), DispatchTimeout)
		defer cancel()

		if _, err := netmail.ParseAddress(recipient); err != nil {
			d.logger.Warn("dropping verification mail, bad recipient address",
				"token_id", tokenID,
				"error", err,
			)
			d.metrics.IncMailDispatch("dropped")
			return
		}

		msg := VerificationMessage(d.baseURL, recipient, tokenID)
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Warn("verification mail delivery failed",
				"token_id", tokenID,
				"error", err,
			)
			d.metrics.IncMailDispatch("dropped")
			return
		}

		d.logger.Debug("verification mail sent", "token_id", tokenID)
		d.metrics.IncMailDispatch("sent")
	}()
}

// Close waits for in-flight deliveries to finish or the context to expire.
// Registered with the server's shutdown hooks.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
