package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"asciivid/internal/logging"
	"asciivid/internal/preview"
	"asciivid/internal/sampler"
	"asciivid/internal/services"
)

// ErrNoSession is returned when no video has been selected.
var ErrNoSession = errors.New("no video selected")

// Opener opens a sampler source for path.
type Opener func(ctx context.Context, path string) (sampler.VideoSource, error)

// Session is the state for one selected video.
type Session struct {
	ID         string
	Generation int64
	Path       string
	BaseName   string
	Window     *preview.Window

	ctx    context.Context
	cancel context.CancelFunc
	live   func() bool

	mu     sync.RWMutex
	frames []image.Image
}

// Context is cancelled when the session is replaced.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Live reports whether this session is still the current selection.
func (s *Session) Live() bool {
	return s.live()
}

// Frames returns the sampled preview frames.
func (s *Session) Frames() []image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

// Frame returns the cached frame at index.
func (s *Session) Frame(index int) (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.frames) {
		return nil, false
	}
	return s.frames[index], true
}

// Current returns the frame the preview window points at.
func (s *Session) Current() (image.Image, bool) {
	idx, ok := s.Window.Index()
	if !ok {
		return nil, false
	}
	return s.Frame(idx)
}

// Manager tracks the current session.
type Manager struct {
	open    Opener
	opts    sampler.Options
	logger  *slog.Logger
	gen     atomic.Int64
	mu      sync.Mutex
	current *Session
}

// NewManager builds a manager that opens sources with open.
func NewManager(open Opener, opts sampler.Options, logger *slog.Logger) *Manager {
	logger = logging.NewComponentLogger(logger, "session")
	opts.Logger = logger
	return &Manager{open: open, opts: opts, logger: logger}
}

// BaseName strips directories and the final extension from path.
func BaseName(path string) string {
	name := filepath.Base(strings.TrimSpace(path))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// Select replaces the current session with a fresh one for path. The
// previous session's context is cancelled.
func (m *Manager) Select(parent context.Context, path string) (*Session, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "select video", "No video file selected", nil)
	}
	gen := m.gen.Add(1)
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	ctx = services.WithSessionID(ctx, id)
	s := &Session{
		ID:         id,
		Generation: gen,
		Path:       path,
		BaseName:   BaseName(path),
		Window:     preview.NewWindow(0),
		ctx:        ctx,
		cancel:     cancel,
		live:       func() bool { return m.gen.Load() == gen },
	}

	m.mu.Lock()
	prev := m.current
	m.current = s
	m.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}
	logging.WithContext(ctx, m.logger).Debug("video selected",
		logging.String("path", path),
		logging.Int64("generation", gen))
	return s, nil
}

// Current returns the live session.
func (m *Manager) Current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// Load samples preview frames into s. Frames are only installed when s is
// still current once sampling finishes.
func (m *Manager) Load(s *Session) error {
	ctx := services.WithStage(s.ctx, "sampling")
	logger := logging.WithContext(ctx, m.logger)
	src, err := m.open(ctx, s.Path)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "session", "open video", "Unable to open video for preview", err)
	}
	frames, err := sampler.Sample(ctx, src, m.opts, s.Live)
	if err != nil {
		if errors.Is(err, sampler.ErrStale) || (!s.Live() && errors.Is(err, context.Canceled)) {
			logger.Debug("discarded samples from superseded session")
			return sampler.ErrStale
		}
		return fmt.Errorf("sample preview frames: %w", err)
	}

	s.mu.Lock()
	if !s.Live() {
		s.mu.Unlock()
		return sampler.ErrStale
	}
	s.frames = frames
	s.mu.Unlock()
	s.Window.SetTotal(len(frames))
	logger.Info("preview ready", logging.Int("samples", len(frames)))
	return nil
}

// SelectAndLoad selects path and samples it.
func (m *Manager) SelectAndLoad(ctx context.Context, path string) (*Session, error) {
	s, err := m.Select(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := m.Load(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Close cancels the current session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.cancel()
	}
}
