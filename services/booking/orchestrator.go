package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"reservas/models"
	"reservas/utils"

	"go.uber.org/zap"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStateObserver registers fn to be called after every state change.
// fn runs on the goroutine calling Book and must not block for long.
func WithStateObserver(fn func(State)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs the verify-then-create booking flow:
//
//	Idle -> Verifying -> ConflictFound | VerifyFailed | Creating
//	Creating -> Created | CreateFailed
//
// Every outcome other than Created is returned as an error and none is retried.
// The check and the create are two separate calls; another client can still
// take the window in between, which surfaces as a CreationError.
type Orchestrator struct {
	checker   ConflictChecker
	submitter BookingSubmitter
	logger    *zap.Logger
	observer  func(State)

	mu     sync.Mutex
	state  State
	busy   bool
	closed bool
}

func NewOrchestrator(checker ConflictChecker, submitter BookingSubmitter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		checker:   checker,
		submitter: submitter,
		logger:    zap.NewNop(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.Named("booking")
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close discards the orchestrator. A Book call still in flight returns its
// result to its caller but no longer changes State or notifies the observer.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

// Book validates window, checks it for conflicts and, only when the check came
// back clean, creates the reservation with the same resource and times.
func (o *Orchestrator) Book(ctx context.Context, window models.ReservationWindow, comments string) (*models.Reservation, error) {
	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer o.release()

	logger := o.logger.With(zap.Int("resource_id", window.ResourceID))

	o.transition(StateIdle)
	if err := validateWindow(window); err != nil {
		logger.Debug("Booking window rejected locally", zap.Error(err))
		return nil, err
	}

	start := utils.FormatLocal(window.Start)
	end := utils.FormatLocal(window.End)
	logger = logger.With(zap.String("start", start), zap.String("end", end))

	o.transition(StateVerifying)
	report, err := o.checker.CheckConflicts(ctx, window.ResourceID, start, end)
	if err == nil && report == nil {
		err = errors.New("empty conflict report")
	}
	if err != nil {
		o.transition(StateVerifyFailed)
		logger.Warn("Conflict check failed", zap.Error(err))
		return nil, &VerificationError{Err: err}
	}

	if report.HasConflict {
		conflictErr := &ConflictError{ResourceID: window.ResourceID}
		if len(report.Conflicts) > 0 {
			first := report.Conflicts[0]
			conflictErr.Conflict = &first
		}
		o.transition(StateConflictFound)
		logger.Info("Booking window conflicts", zap.Int("conflicts", len(report.Conflicts)))
		return nil, conflictErr
	}

	req := models.BookingRequest{
		ResourceID: window.ResourceID,
		Start:      start,
		End:        end,
		Comments:   comments,
	}

	o.transition(StateCreating)
	created, err := o.submitter.Create(ctx, req)
	if err != nil {
		o.transition(StateCreateFailed)
		logger.Warn("Reservation creation failed", zap.Error(err))
		return nil, newCreationError(err)
	}

	o.transition(StateCreated)
	logger.Info("Reservation booked", zap.Int("reservation_id", created.ID))
	return created, nil
}

func validateWindow(window models.ReservationWindow) error {
	if window.ResourceID <= 0 {
		return &ValidationError{Field: "resource", Message: "A resource must be selected."}
	}
	if !fourDigitYear(window.Start) {
		return &ValidationError{Field: "start", Message: "Start date must fall between years 0000 and 9999."}
	}
	if !fourDigitYear(window.End) {
		return &ValidationError{Field: "end", Message: "End date must fall between years 0000 and 9999."}
	}
	if err := window.Validate(); err != nil {
		return &ValidationError{Field: "end", Message: "End date must be after start date."}
	}
	return nil
}

// fourDigitYear reports whether t renders with a YYYY year on the wire.
func fourDigitYear(t time.Time) bool {
	return t.Year() >= 0 && t.Year() <= 9999
}

func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOrchestratorClosed
	}
	if o.busy {
		return ErrSubmitInFlight
	}
	o.busy = true
	return nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

func (o *Orchestrator) transition(next State) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	prev := o.state
	o.state = next
	observer := o.observer
	o.mu.Unlock()

	if prev == next {
		return
	}
	o.logger.Debug("Booking state changed", zap.Stringer("from", prev), zap.Stringer("to", next))
	if observer != nil {
		observer(next)
	}
}
