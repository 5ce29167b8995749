package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

type wireButton struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Value   string `json:"value"`
	IsKick  string `json:"isKick"`
	IsClose string `json:"isClose"`
}

type wireLocation struct {
	FrameX int `json:"frameX"`
	FrameY int `json:"frameY"`
}

type wireSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type wireFrame struct {
	FrameClassName string       `json:"frameClassName"`
	Location       wireLocation `json:"location"`
	Size           wireSize     `json:"size"`
}

// rawProperty returns the stored value for a scalar key verbatim, or the
// string form of its default when the key is absent or null.
func rawProperty(doc []byte, s keySpec) string {
	r := gjson.GetBytes(doc, s.key)
	if !r.Exists() || r.Type == gjson.Null {
		return defaultString(s)
	}
	return r.String()
}

// setProperty replaces or inserts a top-level key.
func setProperty(doc []byte, key string, value any) ([]byte, error) {
	out, err := sjson.SetBytes(doc, key, value)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", key, err)
	}
	return out, nil
}

func setButtons(doc []byte, buttons []Button) ([]byte, error) {
	wire := make([]wireButton, len(buttons))
	for i, b := range buttons {
		wire[i] = wireButton{
			ID:      b.ID,
			Title:   b.Title,
			Value:   b.ResponseText,
			IsKick:  strconv.FormatBool(b.IsKick),
			IsClose: strconv.FormatBool(b.IsClose),
		}
	}
	return setProperty(doc, KeyButtons, wire)
}

// decodeButtons reads the button array. ok is false when the array is
// absent or any element is malformed.
func decodeButtons(doc []byte) (buttons []Button, ok bool) {
	arr := gjson.GetBytes(doc, KeyButtons)
	if !arr.IsArray() {
		return nil, false
	}
	buttons = []Button{}
	ok = true
	arr.ForEach(func(_, el gjson.Result) bool {
		id := el.Get("id")
		if !el.IsObject() || id.Type != gjson.Number {
			ok = false
			return false
		}
		b := Button{
			ID:           id.Int(),
			Title:        el.Get("title").String(),
			ResponseText: el.Get("value").String(),
		}
		// Records written before kick/close metadata existed have neither flag.
		if kick := el.Get("isKick"); kick.Exists() {
			b.IsKick = flagValue(kick)
			b.IsClose = flagValue(el.Get("isClose"))
		}
		buttons = append(buttons, b)
		return true
	})
	if !ok {
		return nil, false
	}
	return buttons, true
}

func flagValue(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		return strings.EqualFold(r.Str, "true")
	default:
		return false
	}
}

func setFrames(doc []byte, frames map[string]FrameLayout) ([]byte, error) {
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	wire := make([]wireFrame, len(ids))
	for i, id := range ids {
		l := frames[id]
		wire[i] = wireFrame{
			FrameClassName: id,
			Location:       wireLocation{FrameX: l.Location.X, FrameY: l.Location.Y},
			Size:           wireSize{Width: l.Size.Width, Height: l.Size.Height},
		}
	}
	return setProperty(doc, KeyFrames, wire)
}

// decodeFrames reads the layout array. Entries missing a name or a numeric
// coordinate are skipped and their indexes returned.
func decodeFrames(doc []byte) (frames map[string]FrameLayout, skipped []int) {
	frames = make(map[string]FrameLayout)
	arr := gjson.GetBytes(doc, KeyFrames)
	if !arr.IsArray() {
		return frames, nil
	}
	for i, el := range arr.Array() {
		name := el.Get("frameClassName")
		nums := []gjson.Result{
			el.Get("location.frameX"), el.Get("location.frameY"),
			el.Get("size.width"), el.Get("size.height"),
		}
		valid := name.Type == gjson.String
		for _, n := range nums {
			if n.Type != gjson.Number {
				valid = false
			}
		}
		if !valid {
			skipped = append(skipped, i)
			continue
		}
		frames[name.Str] = FrameLayout{
			Location: Point{X: int(nums[0].Int()), Y: int(nums[1].Int())},
			Size:     Size{Width: int(nums[2].Int()), Height: int(nums[3].Int())},
		}
	}
	return frames, skipped
}

// seedDocument builds a document holding the given state.
func seedDocument(values Values, buttons []Button, frames map[string]FrameLayout) ([]byte, error) {
	doc, err := setButtons([]byte("{}"), buttons)
	if err != nil {
		return nil, err
	}
	if doc, err = setFrames(doc, frames); err != nil {
		return nil, err
	}
	for _, s := range specs {
		if doc, err = setProperty(doc, s.key, s.wire(s.extract(values))); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
