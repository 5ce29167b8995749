package settings

import "fmt"

// Values returns every scalar setting.
func (s *Store) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// Get returns the string form of a scalar setting.
func (s *Store) Get(key string) (string, error) {
	spec, ok := lookupSpec(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return format(spec.extract(s.values)), nil
}

// Set parses raw according to key's type and persists it.
func (s *Store) Set(key, raw string) error {
	spec, ok := lookupSpec(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	val, err := spec.parse(raw)
	if err != nil {
		return &FieldError{Key: key, Raw: raw, Err: err}
	}
	return s.setScalar(spec, val)
}

func (s *Store) setScalar(spec keySpec, val any) error {
	s.mu.Lock()
	spec.apply(&s.values, val)
	err := s.savePropertyLocked(spec.key, spec.wire(val))
	s.mu.Unlock()
	s.notify()
	return err
}

func (s *Store) set(key string, val any) error {
	spec, _ := lookupSpec(key)
	return s.setScalar(spec, val)
}

// WhisperNotifier returns the mode deciding when whispers raise a notification.
func (s *Store) WhisperNotifier() NotifierMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.WhisperNotifier
}

// SetWhisperNotifier rejects modes other than ALWAYS, ALTAB and NONE.
func (s *Store) SetWhisperNotifier(m NotifierMode) error {
	if _, err := ParseNotifierMode(string(m)); err != nil {
		return &FieldError{Key: KeyWhisperNotifier, Raw: string(m), Err: err}
	}
	return s.set(KeyWhisperNotifier, m)
}

// DecayTime is how long, in seconds, a message stays before fading. 0 disables fading.
func (s *Store) DecayTime() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.DecayTime
}

// SetDecayTime persists the fade delay.
func (s *Store) SetDecayTime(v int) error { return s.set(KeyDecayTime, v) }

// MinOpacity is the faded message opacity in percent.
func (s *Store) MinOpacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.MinOpacity
}

// SetMinOpacity persists the faded opacity.
func (s *Store) SetMinOpacity(v int) error { return s.set(KeyMinOpacity, v) }

// MaxOpacity is the opacity of a fresh message in percent.
func (s *Store) MaxOpacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.MaxOpacity
}

// SetMaxOpacity persists the new value.
func (s *Store) SetMaxOpacity(v int) error { return s.set(KeyMaxOpacity, v) }

// GamePath returns the saved game install directory, or "" if none is set.
func (s *Store) GamePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.GamePath
}

// SetGamePath stores dir as given. Use IsValidGamePath to check it first.
func (s *Store) SetGamePath(v string) error { return s.set(KeyGamePath, v) }

// ShowOnStartUp reports whether the overlay opens its settings on launch.
func (s *Store) ShowOnStartUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.ShowOnStartUp
}

// SetShowOnStartUp updates and saves the setting.
func (s *Store) SetShowOnStartUp(v bool) error { return s.set(KeyShowOnStartUp, v) }

// ShowPatchNotes reports whether patch notes are pending display.
func (s *Store) ShowPatchNotes() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.ShowPatchNotes
}

// SetShowPatchNotes writes the value through to disk.
func (s *Store) SetShowPatchNotes(v bool) error { return s.set(KeyShowPatchNotes, v) }

// FlowDirection is the stacking direction of message panels, e.g. DOWNWARDS.
func (s *Store) FlowDirection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.FlowDirection
}

// SetFlowDirection stores the value verbatim.
func (s *Store) SetFlowDirection(v string) error { return s.set(KeyFlowDirection, v) }

// TradeMode returns the trade panel mode name.
func (s *Store) TradeMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.TradeMode
}

// SetTradeMode persists the new value.
func (s *Store) SetTradeMode(v string) error { return s.set(KeyTradeMode, v) }

// LimitMsgCount caps the number of message panels shown at once.
func (s *Store) LimitMsgCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.LimitMsgCount
}

// SetLimitMsgCount writes the value through to disk.
func (s *Store) SetLimitMsgCount(v int) error { return s.set(KeyLimitMsgCount, v) }

// ExpandedMsgCount is how many panels start expanded.
func (s *Store) ExpandedMsgCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.ExpandedMsgCount
}

// SetExpandedMsgCount updates and saves the setting.
func (s *Store) SetExpandedMsgCount(v int) error { return s.set(KeyExpandedMsgCount, v) }

// ItemsGridEnable reports whether the stash item grid is shown.
func (s *Store) ItemsGridEnable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.ItemsGridEnable
}

// SetItemsGridEnable updates and saves the setting.
func (s *Store) SetItemsGridEnable(v bool) error { return s.set(KeyItemsGridEnable, v) }

// CheckUpdateOnStartUp reports whether updates are checked at launch.
func (s *Store) CheckUpdateOnStartUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.CheckUpdateOnStartUp
}

// SetCheckUpdateOnStartUp updates and saves the setting.
func (s *Store) SetCheckUpdateOnStartUp(v bool) error { return s.set(KeyCheckUpdateOnStartUp, v) }

// DismissAfterKick reports whether kicking a player closes the trade panel.
func (s *Store) DismissAfterKick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.DismissAfterKick
}

// SetDismissAfterKick writes the value through to disk.
func (s *Store) SetDismissAfterKick(v bool) error { return s.set(KeyDismissAfterKick, v) }
