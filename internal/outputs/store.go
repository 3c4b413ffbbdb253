package outputs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"asciivid/internal/config"
	"asciivid/internal/logging"
)

const (
	// StorageKey is the well-known key holding the history blob.
	StorageKey = "ascii_video_outputs"
	// DefaultCapacity bounds the history length.
	DefaultCapacity = 20
)

// Store is the capped export history.
type Store struct {
	backend  Backend
	key      string
	capacity int
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewStore wraps backend. A non-positive capacity selects DefaultCapacity.
func NewStore(backend Backend, capacity int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		backend:  backend,
		key:      StorageKey,
		capacity: capacity,
		logger:   logging.NewComponentLogger(logger, "outputs"),
	}
}

// Open builds the store with the backend selected in cfg.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Outputs.Backend {
	case "sqlite":
		backend, err = OpenSQLite(cfg.OutputsDBPath(), cfg.Outputs.MaxBytes)
	default:
		backend, err = NewFileBackend(cfg.Paths.DataDir, cfg.Outputs.MaxBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("open outputs backend: %w", err)
	}
	return NewStore(backend, cfg.Outputs.Capacity, logger), nil
}

// Capacity returns the maximum number of records kept.
func (s *Store) Capacity() int {
	return s.capacity
}

// Close releases the backend.
func (s *Store) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// GetAll returns every record, most recent first. Missing or unreadable
// history yields an empty list.
func (s *Store) GetAll(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return []Record{}
	}
	return records
}

// GetByID returns the first record with id.
func (s *Store) GetByID(ctx context.Context, id string) (Record, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false
	}
	for _, rec := range s.GetAll(ctx) {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Save prepends rec, evicting from the back past capacity, and persists the
// whole list. It reports false when the write failed or when the existing
// history could not be read, so a transient read error never overwrites it.
// An unparsable history is replaced.
func (s *Store) Save(ctx context.Context, rec Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return false
	}
	list := newDeque(existing, s.capacity)
	evicted := list.PushFront(rec)
	for _, old := range evicted {
		s.logger.Debug("evicted output from history",
			logging.String("output_id", old.ID),
			logging.String("name", old.Name))
	}
	if !s.persist(ctx, list.Items()) {
		return false
	}
	s.logger.Info("output saved",
		logging.String("output_id", rec.ID),
		logging.String("name", rec.Name),
		logging.Bytes("size", rec.Size),
		logging.Int("history_len", list.Len()))
	return true
}

// Delete removes every record with id. Deleting an unknown id succeeds
// without touching storage; an unreadable history reports false.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return false
	}
	list := newDeque(existing, s.capacity)
	removed := list.RemoveFunc(func(rec Record) bool { return rec.ID == id })
	if removed == 0 {
		return true
	}
	if !s.persist(ctx, list.Items()) {
		return false
	}
	s.logger.Info("output deleted", logging.String("output_id", id), logging.Int("removed", removed))
	return true
}

// load returns the stored records. A backend error is returned to the caller;
// a blob that does not parse is logged and read as an empty history.
func (s *Store) load(ctx context.Context) ([]Record, error) {
	data, err := s.backend.Load(ctx, s.key)
	if err != nil {
		logging.WarnWithContext(s.logger, "failed to read output history", "outputs_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the data directory permissions"),
			logging.String(logging.FieldImpact, "history shown as empty and left unchanged"))
		return nil, err
	}
	if len(data) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		logging.WarnWithContext(s.logger, "failed to parse output history", "outputs_parse_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the next save rewrites the history"),
			logging.String(logging.FieldImpact, "history shown as empty"))
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Store) persist(ctx context.Context, records []Record) bool {
	data, err := json.Marshal(records)
	if err != nil {
		logging.ErrorWithContext(s.logger, "failed to encode output history", "outputs_encode_failed",
			logging.Error(err))
		return false
	}
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		logging.WarnWithContext(s.logger, "failed to write output history", "outputs_save_failed",
			logging.Error(err),
			logging.Int("blob_bytes", len(data)),
			logging.String(logging.FieldErrorHint, "delete older outputs or raise outputs.max_bytes"),
			logging.String(logging.FieldImpact, "history unchanged"))
		return false
	}
	return true
}
