package mail

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enrolld/enrolld/internal/metrics"
)

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func closeDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestDispatcher_SendsVerificationMail(t *testing.T) {
	t.Parallel()

	fm := &fakeMailer{}
	rec := metrics.NewInMemory()
	d := NewDispatcher(fm, "https://example.com", testLogger(), rec)

	tokenID := uuid.New()
	d.DispatchVerification("a@test.com", tokenID)
	closeDispatcher(t, d)

	if fm.sentCount() != 1 {
		t.Fatalf("sent %d messages, want 1", fm.sentCount())
	}
	msg := fm.sent[0]
	if msg.To != "a@test.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Body, "https://example.com/auth/verify-email?token="+tokenID.String()) {
		t.Errorf("body missing verification link: %q", msg.Body)
	}
	if rec.Snapshot().MailDispatchSent != 1 {
		t.Error("sent counter not incremented")
	}
}

func TestDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	fm := &fakeMailer{err: errors.New("smtp down")}
	rec := metrics.NewInMemory()
	d := NewDispatcher(fm, "https://example.com", testLogger(), rec)

	// Must not panic, block, or surface the error anywhere.
	d.DispatchVerification("a@test.com", uuid.New())
	closeDispatcher(t, d)

	if fm.sentCount() != 0 {
		t.Error("no message should have been recorded")
	}
	if rec.Snapshot().MailDispatchDropped != 1 {
		t.Error("dropped counter not incremented")
	}
}

func TestDispatcher_BadRecipientNeverReachesTransport(t *testing.T) {
	t.Parallel()

	fm := &fakeMailer{}
	rec := metrics.NewInMemory()
	d := NewDispatcher(fm, "https://example.com", testLogger(), rec)

	d.DispatchVerification("not an address", uuid.New())
	closeDispatcher(t, d)

	if fm.sentCount() != 0 {
		t.Error("transport should not be called for an unparseable recipient")
	}
	if rec.Snapshot().MailDispatchDropped != 1 {
		t.Error("dropped counter not incremented")
	}
}

func TestDispatcher_OneAttemptPerRegistration(t *testing.T) {
	t.Parallel()

	fm := &fakeMailer{}
	d := NewDispatcher(fm, "https://example.com", testLogger(), nil)

	for i := 0; i < 10; i++ {
		d.DispatchVerification("a@test.com", uuid.New())
	}
	closeDispatcher(t, d)

	if fm.sentCount() != 10 {
		t.Errorf("sent %d messages, want 10 (one per dispatch, no retries)", fm.sentCount())
	}
}
