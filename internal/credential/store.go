// Package credential persists the session credential in client storage.
//
// Two encodings exist in stored data: a bare token and a JSON-quoted token.
// Writes always produce the JSON-quoted form; reads accept both.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alexanderramin/tinytrail/internal/db"
	"github.com/alexanderramin/tinytrail/internal/repository"
	"github.com/rs/zerolog"
)

const (
	// TokenKey is the storage key holding the credential.
	TokenKey = "JWT_TOKEN"

	// UsernameKey holds the name the credential was issued to.
	UsernameKey = "USERNAME"

	// undefinedArtifact is left behind by an earlier write of a missing value.
	undefinedArtifact = "undefined"
)

// ErrNotUTF8 is returned when a value cannot be stored without changing
// it: the JSON encoding replaces invalid UTF-8 bytes.
var ErrNotUTF8 = errors.New("value is not valid UTF-8")

// Store reads and writes the session credential.
type Store struct {
	storage repository.StorageRepo
	uow     db.UnitOfWork
	logger  zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed decode and storage errors.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithUnitOfWork makes multi-key writes atomic. Without it, keys are
// written one after another.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(s *Store) { s.uow = uow }
}

// NewStore creates a Store over the given storage.
func NewStore(storage repository.StorageRepo, opts ...Option) *Store {
	s := &Store{storage: storage, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Valid reports whether c may be persisted or attached to a request.
func Valid(c string) bool {
	return c != "" && c != undefinedArtifact
}

// Read returns the current credential. It never fails: missing, empty,
// or undefined values and storage errors all read as absent.
func (s *Store) Read(ctx context.Context) (string, bool) {
	raw, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("key", TokenKey).Msg("credential read failed")
		}
		return "", false
	}
	c, ok := Decode(raw)
	if !ok {
		return "", false
	}
	if c == raw {
		s.logger.Debug().Str("key", TokenKey).Msg("credential is not JSON-encoded, using raw value")
	}
	return c, true
}

// Decode reconciles the stored encodings. A JSON string that decodes to a
// valid credential wins; otherwise the raw text is used verbatim.
func Decode(raw string) (string, bool) {
	if !Valid(raw) {
		return "", false
	}
	var decoded string
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil && Valid(decoded) {
		return decoded, true
	}
	return raw, true
}

// Encode returns the canonical stored form of c.
func Encode(c string) string {
	b, _ := json.Marshal(c)
	return string(b)
}

// Write persists c in the canonical encoding. Empty or undefined
// credentials are ignored.
func (s *Store) Write(ctx context.Context, c string) error {
	if !Valid(c) {
		s.logger.Debug().Msg("ignoring empty credential write")
		return nil
	}
	if !utf8.ValidString(c) {
		return fmt.Errorf("writing credential: %w", ErrNotUTF8)
	}
	if err := s.storage.SetItem(ctx, TokenKey, Encode(c)); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	return nil
}

// WriteSession persists c together with the username it was issued to.
// An invalid credential writes nothing.
func (s *Store) WriteSession(ctx context.Context, c, username string) error {
	if !Valid(c) {
		s.logger.Debug().Msg("ignoring empty credential write")
		return nil
	}
	if !utf8.ValidString(c) {
		return fmt.Errorf("writing credential: %w", ErrNotUTF8)
	}
	if !utf8.ValidString(username) {
		return fmt.Errorf("writing username: %w", ErrNotUTF8)
	}
	return s.withStorage(ctx, func(ctx context.Context, st repository.StorageRepo) error {
		if err := st.SetItem(ctx, TokenKey, Encode(c)); err != nil {
			return fmt.Errorf("writing credential: %w", err)
		}
		if username == "" {
			if err := st.RemoveItem(ctx, UsernameKey); err != nil {
				return fmt.Errorf("clearing username: %w", err)
			}
			return nil
		}
		if err := st.SetItem(ctx, UsernameKey, Encode(username)); err != nil {
			return fmt.Errorf("writing username: %w", err)
		}
		return nil
	})
}

// ReadUsername returns the stored username, or "" when there is none.
func (s *Store) ReadUsername(ctx context.Context) string {
	raw, err := s.storage.GetItem(ctx, UsernameKey)
	if err != nil {
		return ""
	}
	name, _ := Decode(raw)
	return name
}

// Clear removes the persisted credential and username. Clearing twice is fine.
func (s *Store) Clear(ctx context.Context) error {
	return s.withStorage(ctx, func(ctx context.Context, st repository.StorageRepo) error {
		if err := st.RemoveItem(ctx, TokenKey); err != nil {
			return fmt.Errorf("clearing credential: %w", err)
		}
		if err := st.RemoveItem(ctx, UsernameKey); err != nil {
			return fmt.Errorf("clearing username: %w", err)
		}
		return nil
	})
}

func (s *Store) withStorage(ctx context.Context, fn func(ctx context.Context, st repository.StorageRepo) error) error {
	if s.uow == nil {
		return fn(ctx, s.storage)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, repository.NewSQLiteStorageRepo(tx))
	})
}

// Normalize rewrites a legacy stored value in the canonical encoding and
// drops an undefined artifact. It reports whether storage changed.
func (s *Store) Normalize(ctx context.Context) (bool, error) {
	raw, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("reading credential: %w", err)
	}

	c, ok := Decode(raw)
	if !ok {
		if err := s.Clear(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	if Encode(c) == raw {
		return false, nil
	}
	s.logger.Info().Msg("rewriting legacy credential encoding")
	return true, s.Write(ctx, c)
}
