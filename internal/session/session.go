// Package session holds the signed-in state shared by every command and
// view. A Session is created once at startup, seeded from the credential
// store, and passed to whatever needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/tinytrail/internal/credential"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptyCredential is returned by Login for a token that
	// credential.Valid rejects.
	ErrEmptyCredential = errors.New("empty credential")

	// ErrOutsideLifetime is the panic value for use of a nil or closed Session.
	ErrOutsideLifetime = errors.New("session used outside its lifetime")
)

// CredentialStore is the persistence the session reads and writes through.
type CredentialStore interface {
	Read(ctx context.Context) (string, bool)
	ReadUsername(ctx context.Context) string
	WriteSession(ctx context.Context, credential, username string) error
	Clear(ctx context.Context) error
}

// State is a snapshot of the session. Token is "" when signed out.
type State struct {
	Token    string
	Username string
}

// SignedIn reports whether the snapshot carries a credential.
func (s State) SignedIn() bool { return s.Token != "" }

// Session is safe for concurrent use.
type Session struct {
	store  CredentialStore
	logger zerolog.Logger

	// writeMu keeps the persisted credential and state in step across
	// concurrent Login and Logout calls.
	writeMu sync.Mutex

	mu     sync.RWMutex
	state  State
	closed bool

	notifyMu  sync.Mutex
	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(State)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a Session seeded from store. The store is read exactly once.
func New(ctx context.Context, store CredentialStore, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: zerolog.Nop(),
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if token, ok := store.Read(ctx); ok {
		s.state = State{Token: token, Username: store.ReadUsername(ctx)}
	}
	s.logger.Debug().Bool("signed_in", s.state.SignedIn()).Msg("session started")
	return s
}

// State returns the current snapshot.
func (s *Session) State() State {
	if s == nil {
		panic(ErrOutsideLifetime)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustBeOpen()
	return s.state
}

// Token returns the current credential, or "".
func (s *Session) Token() string {
	return s.State().Token
}

// SignedIn reports whether a credential is held.
func (s *Session) SignedIn() bool {
	return s.State().SignedIn()
}

// Login persists token and username, updates the state, then notifies
// subscribers. A token the credential store would not persist changes
// nothing.
func (s *Session) Login(ctx context.Context, token, username string) error {
	s.guard()
	if !credential.Valid(token) {
		return ErrEmptyCredential
	}

	if err := s.persist(func() error {
		if err := s.store.WriteSession(ctx, token, username); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		s.set(State{Token: token, Username: username})
		return nil
	}); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("signed in")
	s.notify()
	return nil
}

// Logout clears the persisted credential and the state, then notifies
// subscribers. The in-memory state is cleared even if storage fails.
func (s *Session) Logout(ctx context.Context) error {
	s.guard()

	storeErr := s.persist(func() error {
		err := s.store.Clear(ctx)
		s.set(State{})
		return err
	})

	s.logger.Info().Msg("signed out")
	s.notify()
	if storeErr != nil {
		return fmt.Errorf("clearing session: %w", storeErr)
	}
	return nil
}

// Subscribe registers fn to receive each new snapshot after Login and
// Logout. fn must not call Login or Logout itself. Call the returned
// function to stop receiving.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.guard()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Close ends the session's lifetime. Later calls on s panic.
func (s *Session) Close() {
	s.guard()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.subMu.Lock()
	s.subs = make(map[int]func(State))
	s.subMu.Unlock()
}

// persist runs fn with other Login and Logout calls held off.
func (s *Session) persist(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return fn()
}

func (s *Session) set(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeOpen()
	s.state = next
}

// notify hands every subscriber the latest state. Deliveries are
// serialized and each reads the state afresh, so the last delivery always
// carries the final state even when logins race.
func (s *Session) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()

	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// guard panics when s is nil or closed.
func (s *Session) guard() {
	if s == nil {
		panic(ErrOutsideLifetime)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustBeOpen()
}

// mustBeOpen expects s.mu to be held.
func (s *Session) mustBeOpen() {
	if s.closed {
		panic(ErrOutsideLifetime)
	}
}
