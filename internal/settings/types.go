package settings

import (
	"fmt"
	"strings"
)

// Button is a quick-reply shortcut shown in the incoming-message panel.
type Button struct {
	ID           int64  `json:"id" yaml:"id" toml:"id"`
	Title        string `json:"title" yaml:"title" toml:"title"`
	ResponseText string `json:"value" yaml:"value" toml:"value"`
	IsKick       bool   `json:"isKick" yaml:"isKick" toml:"isKick"`
	IsClose      bool   `json:"isClose" yaml:"isClose" toml:"isClose"`
}

// Point is a window's top-left screen position.
type Point struct {
	X int `json:"x" yaml:"x" toml:"x"`
	Y int `json:"y" yaml:"y" toml:"y"`
}

// Size is a window's width and height.
type Size struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// FrameLayout is the saved geometry of one window.
type FrameLayout struct {
	Location Point `json:"location" yaml:"location" toml:"location"`
	Size     Size  `json:"size" yaml:"size" toml:"size"`
}

// NotifierMode controls when an incoming whisper plays a sound.
type NotifierMode string

const (
	NotifyAlways NotifierMode = "ALWAYS"
	NotifyAltTab NotifierMode = "ALTAB"
	NotifyNone   NotifierMode = "NONE"
)

var notifierModes = []NotifierMode{NotifyAlways, NotifyAltTab, NotifyNone}

// ParseNotifierMode looks a mode up by its exact name.
func ParseNotifierMode(s string) (NotifierMode, error) {
	for _, m := range notifierModes {
		if string(m) == s {
			return m, nil
		}
	}
	names := make([]string, len(notifierModes))
	for i, m := range notifierModes {
		names[i] = string(m)
	}
	return "", fmt.Errorf("unknown notifier mode %q (want one of %s)", s, strings.Join(names, ", "))
}

func (m NotifierMode) String() string { return string(m) }

// Values holds every scalar setting.
type Values struct {
	WhisperNotifier      NotifierMode `json:"whisperNotifier" yaml:"whisperNotifier" toml:"whisperNotifier"`
	DecayTime            int          `json:"decayTime" yaml:"decayTime" toml:"decayTime"`
	MinOpacity           int          `json:"minOpacity" yaml:"minOpacity" toml:"minOpacity"`
	MaxOpacity           int          `json:"maxOpacity" yaml:"maxOpacity" toml:"maxOpacity"`
	GamePath             string       `json:"gamePath" yaml:"gamePath" toml:"gamePath"`
	ShowOnStartUp        bool         `json:"showOnStartUp" yaml:"showOnStartUp" toml:"showOnStartUp"`
	ShowPatchNotes       bool         `json:"showPatchNotes" yaml:"showPatchNotes" toml:"showPatchNotes"`
	FlowDirection        string       `json:"flowDirection" yaml:"flowDirection" toml:"flowDirection"`
	TradeMode            string       `json:"tradeMode" yaml:"tradeMode" toml:"tradeMode"`
	LimitMsgCount        int          `json:"limitMsgCount" yaml:"limitMsgCount" toml:"limitMsgCount"`
	ExpandedMsgCount     int          `json:"expandedMsgCount" yaml:"expandedMsgCount" toml:"expandedMsgCount"`
	ItemsGridEnable      bool         `json:"itemsGridEnable" yaml:"itemsGridEnable" toml:"itemsGridEnable"`
	CheckUpdateOnStartUp bool         `json:"checkUpdateOnStartUp" yaml:"checkUpdateOnStartUp" toml:"checkUpdateOnStartUp"`
	DismissAfterKick     bool         `json:"dismissAfterKick" yaml:"dismissAfterKick" toml:"dismissAfterKick"`
}

// Snapshot is a point-in-time copy of everything the store holds.
type Snapshot struct {
	Values  Values                 `json:"values" yaml:"values" toml:"values"`
	Buttons []Button               `json:"buttons" yaml:"buttons" toml:"buttons"`
	Frames  map[string]FrameLayout `json:"frames" yaml:"frames" toml:"frames"`
}
