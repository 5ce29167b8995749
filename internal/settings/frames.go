package settings

import (
	"fmt"
	"maps"
)

// FrameSettings returns the saved layout for a window. A window seen for
// the first time gets its default layout, which is persisted before
// returning. If that write fails the layout is still returned with the
// error.
func (s *Store) FrameSettings(id string) (FrameLayout, error) {
	s.mu.Lock()
	if l, ok := s.frames[id]; ok {
		s.mu.Unlock()
		return l, nil
	}
	def, ok := DefaultFrameLayouts()[id]
	if !ok {
		s.mu.Unlock()
		return FrameLayout{}, fmt.Errorf("%w: %s", ErrUnknownFrame, id)
	}
	s.frames[id] = def
	err := s.saveFramesLocked()
	s.mu.Unlock()
	s.notify()
	return def, err
}

// Frames returns a copy of every cached layout.
func (s *Store) Frames() map[string]FrameLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.frames)
}

// SaveFrameLocation moves a window and persists the layout table. A window
// with no saved layout starts from its default.
func (s *Store) SaveFrameLocation(id string, p Point) error {
	s.mu.Lock()
	l, ok := s.frames[id]
	if !ok {
		l = DefaultFrameLayouts()[id]
	}
	l.Location = p
	s.frames[id] = l
	return s.commitFrames()
}

// SaveFrameSize resizes a window and persists the layout table.
//
// For a window with no saved layout the default position is used with the
// requested size. WithLegacyFrameSizeFallback instead stores the whole
// default layout and drops the requested size.
func (s *Store) SaveFrameSize(id string, size Size) error {
	s.mu.Lock()
	l, ok := s.frames[id]
	switch {
	case ok:
		l.Size = size
	case s.legacyFrameSize:
		def, known := DefaultFrameLayouts()[id]
		if known {
			l = def
		} else {
			l = FrameLayout{Size: size}
		}
	default:
		l = DefaultFrameLayouts()[id]
		l.Size = size
	}
	s.frames[id] = l
	return s.commitFrames()
}

// commitFrames persists the layout table and releases s.mu.
func (s *Store) commitFrames() error {
	err := s.saveFramesLocked()
	s.mu.Unlock()
	s.notify()
	return err
}
