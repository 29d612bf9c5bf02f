package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignupsCreated         uint64
	SignupValidationErrors uint64
	SignupConflicts        uint64
	SignupInfraErrors      uint64

	VerificationsVerified   uint64
	VerificationsInvalid    uint64
	VerificationsUsed       uint64
	VerificationsExpired    uint64
	VerificationInfraErrors uint64

	MailDispatchSent    uint64
	MailDispatchDropped uint64
}

// InMemoryRecorder stores counters in memory.
type InMemoryRecorder struct {
	signupsCreated         uint64
	signupValidationErrors uint64
	signupConflicts        uint64
	signupInfraErrors      uint64

	verificationsVerified   uint64
	verificationsInvalid    uint64
	verificationsUsed       uint64
	verificationsExpired    uint64
	verificationInfraErrors uint64

	mailDispatchSent    uint64
	mailDispatchDropped uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SignupsCreated:         atomic.LoadUint64(&m.signupsCreated),
		SignupValidationErrors: atomic.LoadUint64(&m.signupValidationErrors),
		SignupConflicts:        atomic.LoadUint64(&m.signupConflicts),
		SignupInfraErrors:      atomic.LoadUint64(&m.signupInfraErrors),

		VerificationsVerified:   atomic.LoadUint64(&m.verificationsVerified),
		VerificationsInvalid:    atomic.LoadUint64(&m.verificationsInvalid),
		VerificationsUsed:       atomic.LoadUint64(&m.verificationsUsed),
		VerificationsExpired:    atomic.LoadUint64(&m.verificationsExpired),
		VerificationInfraErrors: atomic.LoadUint64(&m.verificationInfraErrors),

		MailDispatchSent:    atomic.LoadUint64(&m.mailDispatchSent),
		MailDispatchDropped: atomic.LoadUint64(&m.mailDispatchDropped),
	}
}

// IncSignup increments the signup counter for the given outcome.
func (m *InMemoryRecorder) IncSignup(status string) {
	switch status {
	case "created":
		atomic.AddUint64(&m.signupsCreated, 1)
	case "validation_error":
		atomic.AddUint64(&m.signupValidationErrors, 1)
	case "conflict":
		atomic.AddUint64(&m.signupConflicts, 1)
	case "infra_error":
		atomic.AddUint64(&m.signupInfraErrors, 1)
	}
}

// IncVerification increments the verification counter for the given outcome.
func (m *InMemoryRecorder) IncVerification(status string) {
	switch status {
	case "verified":
		atomic.AddUint64(&m.verificationsVerified, 1)
	case "invalid":
		atomic.AddUint64(&m.verificationsInvalid, 1)
	case "used":
		atomic.AddUint64(&m.verificationsUsed, 1)
	case "expired":
		atomic.AddUint64(&m.verificationsExpired, 1)
	case "infra_error":
		atomic.AddUint64(&m.verificationInfraErrors, 1)
	}
}

// IncMailDispatch increments the mail dispatch counter for the given outcome.
func (m *InMemoryRecorder) IncMailDispatch(status string) {
	switch status {
	case "sent":
		atomic.AddUint64(&m.mailDispatchSent, 1)
	case "dropped":
		atomic.AddUint64(&m.mailDispatchDropped, 1)
	}
}
