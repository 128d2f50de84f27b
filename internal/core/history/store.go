package history

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/sadopc/chop/internal/core/kv"
	"github.com/sadopc/chop/internal/errkind"
)

const (
	// StorageKey is where the list is persisted.
	StorageKey = "tinyurl-history"
	// MaxEntries bounds the list length.
	MaxEntries = 5
)

// PersistError reports a failed write. The in-memory list already reflects
// the mutation when it is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: persisting history: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return errkind.New(errkind.Persistence, e.Op, e.Err)
}

// Store owns the recent-history list and is its only writer.
type Store struct {
	storage kv.Storage
	entries List
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for malformed-state diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a store over storage and loads the persisted list.
func NewStore(storage kv.Storage, opts ...Option) *Store {
	s := &Store{storage: storage, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load re-reads the persisted list. Absent, unreadable or malformed state
// yields an empty list.
func (s *Store) Load() List {
	s.entries = s.read()
	return s.Snapshot()
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() List {
	if len(s.entries) == 0 {
		return List{}
	}
	return slices.Clone(s.entries)
}

// Record prepends e, keeps the first MaxEntries and persists the result.
func (s *Store) Record(e Entry) (List, error) {
	next := make(List, 0, MaxEntries)
	next = append(next, e)
	next = append(next, s.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	s.entries = next
	return s.Snapshot(), s.write("record")
}

// Clear empties the list and persists the empty state.
func (s *Store) Clear() (List, error) {
	s.entries = List{}
	return s.Snapshot(), s.write("clear")
}

func (s *Store) read() List {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading history")
		return List{}
	}
	if !ok {
		return List{}
	}

	list, err := decode(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("ignoring malformed history")
		return List{}
	}
	return list
}

func (s *Store) write(op string) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return &PersistError{Op: op, Err: err}
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("persisting history")
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func decode(raw string) (List, error) {
	var list List
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("history is not an array")
	}
	for i, e := range list {
		if e.LongURL == "" || e.ShortURL == "" {
			return nil, fmt.Errorf("entry %d is missing longUrl or shortUrl", i)
		}
	}
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return list, nil
}
