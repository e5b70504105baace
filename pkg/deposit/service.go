// Package deposit runs the simulated deposit flow that follows a valid
// purchase form: a timed deposit window, a fake payment check and a
// fabricated transaction id.
package deposit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultDepositAddress receives the TRX fee.
const DefaultDepositAddress = "TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH"

// Config holds the deposit flow timings.
type Config struct {
	DepositAddress string
	Timeout        time.Duration
	CheckDelay     time.Duration
	TransferDelay  time.Duration
	// Retention keeps finished sessions readable after the window closes.
	Retention time.Duration
}

// DefaultConfig returns a 30 minute window with 2s and 3s check delays.
func DefaultConfig() Config {
	return Config{
		DepositAddress: DefaultDepositAddress,
		Timeout:        30 * time.Minute,
		CheckDelay:     2 * time.Second,
		TransferDelay:  3 * time.Second,
		Retention:      15 * time.Minute,
	}
}

// StartRequest is the submitted purchase form.
type StartRequest struct {
	Amount  string `json:"amount"`
	Email   string `json:"email"`
	Address string `json:"wallet_address"`
	Method  Method `json:"method"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSleep replaces the context-aware wait between check stages.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.sleep = sleep }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithTransactionIDGenerator replaces the transaction id generator.
func WithTransactionIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newTxID = gen }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithStatusHook registers a callback invoked after every status change.
func WithStatusHook(fn func(Status)) Option {
	return func(s *Service) { s.onStatus = fn }
}

// WithPublisher publishes a StatusChanged event after every status change.
func WithPublisher(p eventbus.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// Service drives deposit sessions through their lifecycle.
type Service struct {
	cfg       Config
	engine    *pricing.Engine
	validator *validation.Validator
	store     Store
	logger    *slog.Logger

	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	newID     func() string
	newTxID   func() string
	onStatus  func(Status)
	publisher eventbus.Publisher

	// mu serialises read-modify-write cycles against the store.
	mu    sync.Mutex
	group singleflight.Group
}

// NewService returns a Service.
func NewService(
	cfg Config,
	engine *pricing.Engine,
	validator *validation.Validator,
	store Store,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:       cfg,
		engine:    engine,
		validator: validator,
		store:     store,
		logger:    slog.Default(),
		now:       time.Now,
		sleep:     sleepContext,
		newID:     uuid.NewString,
		newTxID:   NewTransactionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Snapshot renders session at the service clock.
func (s *Service) Snapshot(session *Session) Snapshot {
	return session.Snapshot(s.now())
}

// Config returns the flow timings.
func (s *Service) Config() Config { return s.cfg }

func (s *Service) ttl() time.Duration {
	return s.cfg.Timeout + s.cfg.Retention
}

// Start validates req and opens a pending session.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Session, error) {
	if req.Method == MethodFiat {
		return nil, ErrFiatUnavailable
	}
	res := s.validator.Form(validation.Form{
		Amount:        req.Amount,
		Email:         req.Email,
		WalletAddress: req.Address,
	})
	if !res.Valid {
		return nil, &FormError{Result: res}
	}

	amount, _ := validation.ParseAmount(req.Amount)
	fee := s.engine.Compute(amount)
	now := s.now().UTC()
	session := &Session{
		ID:             s.newID(),
		Amount:         fee.Receivable(),
		Email:          strings.TrimSpace(req.Email),
		Address:        strings.TrimSpace(req.Address),
		Fee:            fee,
		DepositAmount:  fee.Payable(),
		DepositAddress: s.cfg.DepositAddress,
		Status:         StatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.cfg.Timeout),
	}
	if err := s.store.Save(ctx, session, s.ttl()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Info("deposit session started",
		"session_id", session.ID,
		"amount", session.Amount.String(),
		"deposit_amount", session.DepositAmount.String(),
	)
	s.notify(ctx, session.ID, StatusPending)
	return session, nil
}

// Get returns the current snapshot of a session. A pending session past its
// window is marked expired first.
func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	var changes []Status
	s.mu.Lock()
	session, err := s.load(ctx, id, &changes)
	s.mu.Unlock()
	s.notify(ctx, id, changes...)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(s.now()), nil
}

// Cancel moves a pending session to canceled.
func (s *Service) Cancel(ctx context.Context, id string) (*Session, error) {
	return s.transition(ctx, id, StatusPending, StatusCanceled)
}

// Check runs the simulated payment check: checking, confirmed after
// CheckDelay, completed after TransferDelay. Concurrent checks of the same
// session share one run. If ctx is done mid-check the session returns to
// pending.
func (s *Service) Check(ctx context.Context, id string) (*Session, error) {
	v, err, shared := s.group.Do(id, func() (any, error) {
		return s.check(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("payment check shared", "session_id", id)
	}
	session := *v.(*Session)
	return &session, nil
}

func (s *Service) check(ctx context.Context, id string) (*Session, error) {
	if _, err := s.transition(ctx, id, StatusPending, StatusChecking); err != nil {
		return nil, err
	}
	s.logger.Info("checking payment", "session_id", id)

	if err := s.sleep(ctx, s.cfg.CheckDelay); err != nil {
		s.revert(id)
		return nil, err
	}
	if _, err := s.transition(ctx, id, StatusChecking, StatusConfirmed); err != nil {
		return nil, err
	}

	if err := s.sleep(ctx, s.cfg.TransferDelay); err != nil {
		s.revert(id)
		return nil, err
	}
	return s.update(ctx, id, StatusConfirmed, func(session *Session) {
		now := s.now().UTC()
		session.Status = StatusCompleted
		session.TransactionID = s.newTxID()
		session.CompletedAt = &now
	})
}

// revert puts an interrupted check back to pending so it can be retried.
func (s *Service) revert(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.revertLocked(ctx, id) {
		s.notify(ctx, id, StatusPending)
	}
}

func (s *Service) revertLocked(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to revert interrupted check", "session_id", id, "error", err)
		return false
	}
	if session.Status != StatusChecking && session.Status != StatusConfirmed {
		return false
	}
	session.Status = StatusPending
	if err := s.store.Save(ctx, session, s.ttl()); err != nil {
		s.logger.Warn("failed to revert interrupted check", "session_id", id, "error", err)
		return false
	}
	return true
}

func (s *Service) transition(ctx context.Context, id string, from, to Status) (*Session, error) {
	return s.update(ctx, id, from, func(session *Session) { session.Status = to })
}

// update applies fn to the session if it is currently in status from.
// Status changes are published after mu is released.
func (s *Service) update(ctx context.Context, id string, from Status, fn func(*Session)) (*Session, error) {
	var changes []Status
	s.mu.Lock()
	session, err := s.updateLocked(ctx, id, from, fn, &changes)
	s.mu.Unlock()
	s.notify(ctx, id, changes...)
	return session, err
}

func (s *Service) updateLocked(
	ctx context.Context,
	id string,
	from Status,
	fn func(*Session),
	changes *[]Status,
) (*Session, error) {
	session, err := s.load(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusExpired {
		return nil, ErrSessionExpired
	}
	if session.Status != from {
		return nil, fmt.Errorf("%w: session is %s, want %s", ErrInvalidTransition, session.Status, from)
	}
	fn(session)
	if err := s.store.Save(ctx, session, s.ttl()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Debug("deposit session transition",
		"session_id", id, "from", from, "to", session.Status)
	*changes = append(*changes, session.Status)
	return session, nil
}

// load reads a session and applies lazy expiry, recording the expiry in
// changes. Callers hold mu.
func (s *Service) load(ctx context.Context, id string, changes *[]Status) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(s.now()) {
		session.Status = StatusExpired
		if err := s.store.Save(ctx, session, s.ttl()); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		s.logger.Info("deposit session expired", "session_id", id)
		*changes = append(*changes, StatusExpired)
	}
	return session, nil
}

// notify reports status changes to the hook and publisher. It must not be
// called with mu held: publishers may block on a broker.
func (s *Service) notify(ctx context.Context, id string, statuses ...Status) {
	for _, status := range statuses {
		if s.onStatus != nil {
			s.onStatus(status)
		}
		if s.publisher == nil {
			continue
		}
		e := StatusChanged{SessionID: id, Status: status, At: s.now()}
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("failed to publish status change", "session_id", id, "status", status, "error", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
