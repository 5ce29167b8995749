// Package settings persists user preferences for the overlay: scalar
// settings, the quick-reply button list and per-window geometry, all held
// in one JSON document on disk.
//
// A Store is created once per process and handed to every consumer. Reads
// are served from memory. Every write updates memory and then rewrites the
// whole document atomically before returning.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Reasons reported in Change for writes that are not a single key.
const (
	ReasonInit    = "init"
	ReasonReload  = "reload"
	ReasonRestore = "restore"
)

// Change describes one persisted write.
type Change struct {
	// Reason is the key that changed, or one of the Reason constants.
	Reason string
	// Document is the file content as written.
	Document []byte
}

// Listener is called after each successful persist, outside the store lock.
// Listeners see changes in the order they were written and may read from
// the store, but must not write to it.
type Listener func(Change)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLegacyFrameSizeFallback makes SaveFrameSize on a window with no saved
// layout store the default layout and drop the requested size.
func WithLegacyFrameSizeFallback(on bool) Option {
	return func(s *Store) { s.legacyFrameSize = on }
}

// WithListener registers a change listener at construction.
func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

// Store is the settings cache plus its on-disk document.
type Store struct {
	path            string
	logger          *slog.Logger
	legacyFrameSize bool

	mu        sync.Mutex
	doc       []byte // compact, authoritative
	written   []byte // last bytes read from or written to path
	values    Values
	buttons   []Button
	frames    map[string]FrameLayout
	listeners []Listener
	pending   []Change // persisted, not yet delivered; guarded by mu

	// notifyMu serializes delivery so listeners observe write order.
	notifyMu sync.Mutex
}

// New returns a store for the document at path holding the defaults table.
// Call Load to read or create the file.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  slog.Default(),
		values:  DefaultValues(),
		buttons: DefaultButtons(),
		frames:  make(map[string]FrameLayout),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc, _ = seedDocument(s.values, s.buttons, s.frames)
	return s
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// TempDir returns the scratch directory created next to the settings file.
func (s *Store) TempDir() string {
	return filepath.Join(filepath.Dir(s.path), "temp")
}

// OnChange registers a listener for persisted writes.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load reads the settings file, or creates it from the defaults table when
// it does not exist.
//
// The store stays usable whatever Load returns. A corrupt document yields
// ErrCorruptDocument and leaves the defaults table in effect; unparsable
// scalars are reported as joined *FieldError values and fall back to their
// defaults individually.
func (s *Store) Load() error {
	s.mu.Lock()
	err := s.loadLocked()
	s.mu.Unlock()
	s.notify()
	return err
}

func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.initLocked()
	}
	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	d, err := decode(data)
	if err != nil {
		s.resetLocked()
		return fmt.Errorf("%w: %s", err, s.path)
	}
	s.written = data
	return s.applyLocked(d)
}

func (s *Store) initLocked() error {
	s.logger.Info("settings file not found, creating defaults", "path", s.path)
	if err := os.MkdirAll(s.TempDir(), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	s.values = DefaultValues()
	s.buttons = DefaultButtons()
	s.frames = DefaultFrameLayouts()
	doc, err := seedDocument(s.values, s.buttons, s.frames)
	if err != nil {
		return err
	}
	s.doc = doc
	return s.persistLocked(ReasonInit)
}

func (s *Store) resetLocked() {
	s.values = DefaultValues()
	s.buttons = DefaultButtons()
	s.frames = make(map[string]FrameLayout)
	s.doc, _ = seedDocument(s.values, s.buttons, s.frames)
}

type decoded struct {
	doc           []byte
	values        Values
	buttons       []Button
	buttonsReset  bool
	frames        map[string]FrameLayout
	skippedFrames []int
	fieldErrs     []error
}

// decode parses a whole document without touching any store state.
func decode(data []byte) (*decoded, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrCorruptDocument
	}
	d := &decoded{doc: pretty.Ugly(data)}

	buttons, ok := decodeButtons(d.doc)
	if !ok {
		buttons = DefaultButtons()
		doc, err := setButtons(d.doc, buttons)
		if err != nil {
			return nil, err
		}
		d.doc = doc
		d.buttonsReset = true
	}
	d.buttons = buttons

	d.frames, d.skippedFrames = decodeFrames(d.doc)

	d.values = DefaultValues()
	for _, spec := range specs {
		raw := rawProperty(d.doc, spec)
		val, err := spec.parse(raw)
		if err != nil {
			d.fieldErrs = append(d.fieldErrs, &FieldError{Key: spec.key, Raw: raw, Err: err})
			continue
		}
		spec.apply(&d.values, val)
	}
	return d, nil
}

func (s *Store) applyLocked(d *decoded) error {
	s.doc = d.doc
	s.values = d.values
	s.buttons = d.buttons
	s.frames = d.frames

	for _, i := range d.skippedFrames {
		s.logger.Warn("settings: skipping malformed frame layout", "index", i, "path", s.path)
	}
	for _, err := range d.fieldErrs {
		s.logger.Warn("settings: using default value", "error", err)
	}

	if d.buttonsReset {
		s.logger.Warn("settings: button list missing or malformed, restoring defaults", "path", s.path)
		if err := s.persistLocked(KeyButtons); err != nil {
			return errors.Join(append(d.fieldErrs, err)...)
		}
	}
	return errors.Join(d.fieldErrs...)
}

// Reload re-reads the file after an external edit. It is a no-op when the
// file still holds what the store last wrote, and leaves the store untouched
// when the new content is corrupt.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	s.mu.Lock()
	if bytes.Equal(data, s.written) {
		s.mu.Unlock()
		return nil
	}
	d, err := decode(data)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", err, s.path)
	}
	s.written = data
	s.pending = append(s.pending, Change{Reason: ReasonReload, Document: data})
	err = s.applyLocked(d)
	s.mu.Unlock()

	s.notify()
	return err
}

// Restore replaces the whole document, for example with a stored snapshot,
// and persists it.
func (s *Store) Restore(doc []byte) error {
	d, err := decode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.applyLocked(d); err != nil {
		s.logger.Warn("settings: restored document has invalid fields", "error", err)
	}
	err = s.persistLocked(ReasonRestore)
	s.mu.Unlock()
	s.notify()
	return err
}

// persistLocked writes the document and queues the change for listeners.
func (s *Store) persistLocked(reason string) error {
	out := pretty.PrettyOptions(s.doc, prettyOptions)
	if err := writeFileAtomic(s.path, out); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	s.written = out
	s.pending = append(s.pending, Change{Reason: reason, Document: out})
	return nil
}

// savePropertyLocked replaces or inserts one key and persists the document.
func (s *Store) savePropertyLocked(key string, value any) error {
	doc, err := setProperty(s.doc, key, value)
	if err != nil {
		return err
	}
	s.doc = doc
	return s.persistLocked(key)
}

func (s *Store) saveFramesLocked() error {
	doc, err := setFrames(s.doc, s.frames)
	if err != nil {
		return err
	}
	s.doc = doc
	return s.persistLocked(KeyFrames)
}

// notify delivers queued changes. Changes are queued under mu in write
// order and drained under notifyMu, so a writer that finds the queue
// already drained returns only after the earlier delivery has finished.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changes := s.pending
	s.pending = nil
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, c := range changes {
		for _, l := range listeners {
			l(c)
		}
	}
}

// Document returns the current document as it is written to disk.
func (s *Store) Document() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pretty.PrettyOptions(s.doc, prettyOptions)
}

// Snapshot returns a copy of the cached state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Values:  s.values,
		Buttons: slices.Clone(s.buttons),
		Frames:  maps.Clone(s.frames),
	}
}

// Buttons returns the quick-reply list in display order.
func (s *Store) Buttons() []Button {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.buttons)
}

// SaveButtons replaces the quick-reply list and persists it.
func (s *Store) SaveButtons(buttons []Button) error {
	s.mu.Lock()
	s.buttons = slices.Clone(buttons)
	if s.buttons == nil {
		s.buttons = []Button{}
	}
	doc, err := setButtons(s.doc, s.buttons)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = doc
	err = s.persistLocked(KeyButtons)
	s.mu.Unlock()
	s.notify()
	return err
}
