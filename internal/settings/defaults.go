package settings

// DefaultValues returns the defaults table for scalar settings.
func DefaultValues() Values {
	return Values{
		WhisperNotifier:      NotifyAlways,
		DecayTime:            0,
		MinOpacity:           100,
		MaxOpacity:           100,
		GamePath:             "",
		ShowOnStartUp:        true,
		ShowPatchNotes:       false,
		FlowDirection:        "DOWNWARDS",
		TradeMode:            "DEFAULT",
		LimitMsgCount:        3,
		ExpandedMsgCount:     0,
		ItemsGridEnable:      true,
		CheckUpdateOnStartUp: true,
		DismissAfterKick:     false,
	}
}

// DefaultButtons returns the built-in quick-reply list.
func DefaultButtons() []Button {
	return []Button{
		{ID: 0, Title: "1m", ResponseText: "one minute"},
		{ID: 1, Title: "thx", ResponseText: "thanks", IsKick: true},
		{ID: 2, Title: "no thx", ResponseText: "no thanks"},
		{ID: 3, Title: "sold", ResponseText: "sold"},
	}
}

// DefaultFrameLayouts returns a fresh copy of the built-in layout table.
func DefaultFrameLayouts() map[string]FrameLayout {
	return map[string]FrameLayout{
		"TaskBarFrame":        {Point{400, 500}, Size{109, 20}},
		"IncMessageFrame":     {Point{700, 600}, Size{315, 0}},
		"OutMessageFrame":     {Point{200, 500}, Size{280, 115}},
		"TestCasesFrame":      {Point{1400, 500}, Size{400, 100}},
		"SettingsFrame":       {Point{600, 600}, Size{540, 100}},
		"HistoryFrame":        {Point{600, 500}, Size{280, 400}},
		"TimerFrame":          {Point{400, 600}, Size{240, 102}},
		"ChatScannerFrame":    {Point{400, 600}, Size{500, 250}},
		"ItemsGridFrame":      {Point{12, 79}, Size{641, 718}},
		"NotesFrame":          {Point{400, 600}, Size{540, 100}},
		"SetUpLocationFrame":  {Point{400, 600}, Size{300, 30}},
		"ChunkMessagesPicker": {Point{400, 600}, Size{240, 30}},
		"GamePathChooser":     {Point{400, 600}, Size{520, 30}},
		"CurrencySearchFrame": {Point{400, 600}, Size{400, 300}},
	}
}

// minimumFrameSizes are floors callers clamp resizes against. The store
// itself never enforces them.
var minimumFrameSizes = map[string]Size{
	"TaskBarFrame":        {109, 20},
	"IncMessageFrame":     {315, 10},
	"OutMessageFrame":     {280, 115},
	"TestCasesFrame":      {400, 100},
	"SettingsFrame":       {540, 100},
	"HistoryFrame":        {280, 400},
	"TimerFrame":          {240, 102},
	"ChatScannerFrame":    {200, 100},
	"ItemsGridFrame":      {400, 400},
	"NotesFrame":          {540, 100},
	"SetUpLocationFrame":  {300, 30},
	"ChunkMessagesPicker": {240, 30},
	"GamePathChooser":     {600, 30},
	"CurrencySearchFrame": {400, 300},
}

// MinimumFrameSize returns the size floor for a window, if one is defined.
func MinimumFrameSize(id string) (Size, bool) {
	s, ok := minimumFrameSizes[id]
	return s, ok
}
