package settings

import (
	"fmt"
	"strconv"
)

// Top-level document keys.
const (
	KeyWhisperNotifier      = "whisperNotifier"
	KeyDecayTime            = "decayTime"
	KeyMinOpacity           = "minOpacity"
	KeyMaxOpacity           = "maxOpacity"
	KeyGamePath             = "gamePath"
	KeyShowOnStartUp        = "showOnStartUp"
	KeyShowPatchNotes       = "showPatchNotes"
	KeyFlowDirection        = "flowDirection"
	KeyTradeMode            = "tradeMode"
	KeyLimitMsgCount        = "limitMsgCount"
	KeyExpandedMsgCount     = "expandedMsgCount"
	KeyItemsGridEnable      = "itemsGridEnable"
	KeyCheckUpdateOnStartUp = "checkUpdateOnStartUp"
	KeyDismissAfterKick     = "dismissAfterKick"

	KeyButtons = "buttons"
	KeyFrames  = "framesSettings"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kNotifier
)

type keySpec struct {
	key     string
	typ     keyType
	apply   func(v *Values, val any)
	extract func(v Values) any
}

var specs = []keySpec{
	{
		key: KeyWhisperNotifier, typ: kNotifier,
		apply:   func(v *Values, val any) { v.WhisperNotifier = val.(NotifierMode) },
		extract: func(v Values) any { return v.WhisperNotifier },
	},
	{
		key: KeyDecayTime, typ: kInt,
		apply:   func(v *Values, val any) { v.DecayTime = val.(int) },
		extract: func(v Values) any { return v.DecayTime },
	},
	{
		key: KeyMinOpacity, typ: kInt,
		apply:   func(v *Values, val any) { v.MinOpacity = val.(int) },
		extract: func(v Values) any { return v.MinOpacity },
	},
	{
		key: KeyMaxOpacity, typ: kInt,
		apply:   func(v *Values, val any) { v.MaxOpacity = val.(int) },
		extract: func(v Values) any { return v.MaxOpacity },
	},
	{
		key: KeyShowOnStartUp, typ: kBool,
		apply:   func(v *Values, val any) { v.ShowOnStartUp = val.(bool) },
		extract: func(v Values) any { return v.ShowOnStartUp },
	},
	{
		key: KeyShowPatchNotes, typ: kBool,
		apply:   func(v *Values, val any) { v.ShowPatchNotes = val.(bool) },
		extract: func(v Values) any { return v.ShowPatchNotes },
	},
	{
		key: KeyGamePath, typ: kString,
		apply:   func(v *Values, val any) { v.GamePath = val.(string) },
		extract: func(v Values) any { return v.GamePath },
	},
	{
		key: KeyFlowDirection, typ: kString,
		apply:   func(v *Values, val any) { v.FlowDirection = val.(string) },
		extract: func(v Values) any { return v.FlowDirection },
	},
	{
		key: KeyTradeMode, typ: kString,
		apply:   func(v *Values, val any) { v.TradeMode = val.(string) },
		extract: func(v Values) any { return v.TradeMode },
	},
	{
		key: KeyLimitMsgCount, typ: kInt,
		apply:   func(v *Values, val any) { v.LimitMsgCount = val.(int) },
		extract: func(v Values) any { return v.LimitMsgCount },
	},
	{
		key: KeyExpandedMsgCount, typ: kInt,
		apply:   func(v *Values, val any) { v.ExpandedMsgCount = val.(int) },
		extract: func(v Values) any { return v.ExpandedMsgCount },
	},
	{
		key: KeyItemsGridEnable, typ: kBool,
		apply:   func(v *Values, val any) { v.ItemsGridEnable = val.(bool) },
		extract: func(v Values) any { return v.ItemsGridEnable },
	},
	{
		key: KeyCheckUpdateOnStartUp, typ: kBool,
		apply:   func(v *Values, val any) { v.CheckUpdateOnStartUp = val.(bool) },
		extract: func(v Values) any { return v.CheckUpdateOnStartUp },
	},
	{
		key: KeyDismissAfterKick, typ: kBool,
		apply:   func(v *Values, val any) { v.DismissAfterKick = val.(bool) },
		extract: func(v Values) any { return v.DismissAfterKick },
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// parse converts the string form of a value to the key's native type.
func (s keySpec) parse(raw string) (any, error) {
	switch s.typ {
	case kInt:
		return strconv.Atoi(raw)
	case kBool:
		return strconv.ParseBool(raw)
	case kNotifier:
		return ParseNotifierMode(raw)
	default:
		return raw, nil
	}
}

// wire returns the JSON value written to the document for val.
func (s keySpec) wire(val any) any {
	if m, ok := val.(NotifierMode); ok {
		return string(m)
	}
	return val
}

func format(val any) string {
	return fmt.Sprintf("%v", val)
}

// Keys returns every scalar key in document order.
func Keys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}

// defaultString is the string form of key's defaults-table value.
func defaultString(s keySpec) string {
	return format(s.extract(DefaultValues()))
}
