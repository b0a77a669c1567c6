package contact

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

const (
	DefaultResetDelay = 5 * time.Second
	DefaultTimeout    = 15 * time.Second
)

// User-facing notices.
const (
	NoticeSuccess = "Message sent successfully!"
	NoticeFailure = "Failed to send message. Please try again later."
)

type Options struct {
	Endpoint Endpoint
	// ResetDelay is how long Success is shown before the form returns to Idle.
	ResetDelay time.Duration
	// Timeout bounds a single send; zero disables it.
	Timeout time.Duration
	Clock   Clock
	Logger  *zap.Logger
	// OnChange is called (outside the form's lock) after every state change.
	OnChange func(Snapshot)
}

// Snapshot is a consistent copy of the form state for rendering.
type Snapshot struct {
	Values Values      `json:"values"`
	Errors FieldErrors `json:"errors"`
	Status Status      `json:"status"`
	Notice string      `json:"notice,omitempty"`
}

// Form owns contact-form state and its submit lifecycle:
//
//	Idle --Start(valid)--> Submitting --ok--> Success --reset delay--> Idle
//	Submitting --err--> Failed --SetField/Start--> Idle
//	Idle --Start(invalid)--> Idle (errors populated)
//
// At most one submission is in flight; while Submitting, edits and further
// submits are ignored.
type Form struct {
	sender   Sender
	endpoint Endpoint
	reset    time.Duration
	timeout  time.Duration
	clock    Clock
	log      *zap.Logger
	onChange func(Snapshot)

	mu         sync.Mutex
	values     Values
	errors     FieldErrors
	status     Status
	lastErr    error
	resetGen   int
	resetTimer Timer
}

func NewForm(sender Sender, opts Options) *Form {
	f := &Form{
		sender:   sender,
		endpoint: opts.Endpoint,
		reset:    opts.ResetDelay,
		timeout:  opts.Timeout,
		clock:    opts.Clock,
		log:      opts.Logger,
		onChange: opts.OnChange,
		errors:   FieldErrors{},
	}
	if f.reset <= 0 {
		f.reset = DefaultResetDelay
	}
	if f.clock == nil {
		f.clock = SystemClock
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	return f
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() Snapshot {
	s := Snapshot{Values: f.values, Errors: f.errors.clone(), Status: f.status}
	switch f.status {
	case StatusSuccess:
		s.Notice = NoticeSuccess
	case StatusFailed:
		s.Notice = NoticeFailure
	}
	return s
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.clone()
}

// LastError is the cause of the most recent failed send, if any.
func (f *Form) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Validate checks the current values without touching form state.
func (f *Form) Validate() ValidationResult {
	return Validate(f.Values())
}

// SetField updates one value and clears that field's error. It is a silent
// no-op while a submission is in flight. Editing a failed form returns it to Idle.
func (f *Form) SetField(name Field, value string) error {
	if _, err := ParseField(string(name)); err != nil {
		return err
	}
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return nil
	}
	f.values.set(name, value)
	delete(f.errors, name)
	if f.status == StatusFailed {
		f.status = StatusIdle
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
	return nil
}

// Outcome classifies what a submit attempt did.
type Outcome int

const (
	// OutcomeInvalid: validation failed, nothing was sent.
	OutcomeInvalid Outcome = iota
	// OutcomeBusy: another submission is in flight; the call was ignored.
	OutcomeBusy
	OutcomeSent
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeBusy:
		return "busy"
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

type SubmitResult struct {
	Outcome Outcome     `json:"outcome"`
	Status  Status      `json:"status"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Attempt is an accepted submission. Its send runs at most once.
type Attempt struct {
	f       *Form
	payload Payload

	once sync.Once
	res  SubmitResult
	err  error
}

// Start validates and, when valid, locks the form in Submitting and returns
// the pending Attempt. Invalid or busy forms return a nil Attempt and the
// result describing why.
func (f *Form) Start() (*Attempt, SubmitResult) {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return nil, SubmitResult{Outcome: OutcomeBusy, Status: StatusSubmitting}
	}

	v := Validate(f.values)
	if !v.Valid {
		f.errors = v.Errors.clone()
		f.status = StatusIdle
		f.cancelResetLocked()
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.notify(snap)
		return nil, SubmitResult{Outcome: OutcomeInvalid, Status: StatusIdle, Errors: v.Errors}
	}

	f.errors = FieldErrors{}
	f.status = StatusSubmitting
	f.lastErr = nil
	f.cancelResetLocked()
	a := &Attempt{f: f, payload: payloadFrom(f.values)}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
	return a, SubmitResult{Outcome: OutcomeSent, Status: StatusSubmitting}
}

// Payload is what the attempt will send.
func (a *Attempt) Payload() Payload { return a.payload }

// Wait performs the send and settles the form into Success or Failed. A
// failure returns a *SubmissionError; user input is left intact for a retry.
// Later calls, concurrent or not, return the first call's result without
// sending again.
func (a *Attempt) Wait(ctx context.Context) (SubmitResult, error) {
	a.once.Do(func() { a.res, a.err = a.send(ctx) })
	return a.res, a.err
}

func (a *Attempt) send(ctx context.Context) (SubmitResult, error) {
	f := a.f
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var err error
	if f.sender == nil {
		err = errNoSender
	} else {
		err = f.sender.Send(ctx, f.endpoint, a.payload)
	}

	f.mu.Lock()
	if err != nil {
		f.status = StatusFailed
		f.lastErr = err
		snap := f.snapshotLocked()
		f.mu.Unlock()

		f.log.Error("contact submission failed",
			zap.Error(err),
			zap.String("from_email", a.payload.FromEmail),
			zap.String("service_id", f.endpoint.ServiceID),
		)
		f.notify(snap)
		return SubmitResult{Outcome: OutcomeFailed, Status: StatusFailed}, &SubmissionError{Cause: err}
	}

	f.status = StatusSuccess
	f.values = Values{}
	f.errors = FieldErrors{}
	f.resetGen++
	gen := f.resetGen
	f.resetTimer = f.clock.AfterFunc(f.reset, func() { f.expireSuccess(gen) })
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.log.Info("contact submission sent", zap.String("from_email", a.payload.FromEmail))
	f.notify(snap)
	return SubmitResult{Outcome: OutcomeSent, Status: StatusSuccess}, nil
}

// Submit runs Start and, when accepted, Wait.
func (f *Form) Submit(ctx context.Context) (SubmitResult, error) {
	a, res := f.Start()
	if a == nil {
		return res, nil
	}
	return a.Wait(ctx)
}

// Close stops a pending success-reset timer.
func (f *Form) Close() {
	f.mu.Lock()
	f.cancelResetLocked()
	f.mu.Unlock()
}

func (f *Form) expireSuccess(gen int) {
	f.mu.Lock()
	if gen != f.resetGen || f.status != StatusSuccess {
		f.mu.Unlock()
		return
	}
	f.status = StatusIdle
	f.resetTimer = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.notify(snap)
}

func (f *Form) cancelResetLocked() {
	f.resetGen++
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
}

func (f *Form) notify(s Snapshot) {
	if f.onChange != nil {
		f.onChange(s)
	}
}
