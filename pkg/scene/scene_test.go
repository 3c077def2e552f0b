package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
)

func TestDemo(t *testing.T) {
	d := Demo()
	if d.Width != 920 || d.Height != 920 || d.Gap != 10 {
		t.Errorf("Demo() container = %gx%g gap %g", d.Width, d.Height, d.Gap)
	}
	if len(d.Panes) != 5 {
		t.Fatalf("Demo() has %d panes, want 5", len(d.Panes))
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Demo().Validate() = %v", err)
	}
	for _, p := range d.Panes {
		if p.Right() > d.Width || p.Bottom() > d.Height {
			t.Errorf("pane %d exceeds the container: %v", p.ID, p)
		}
	}
	if rows := d.Rows(); len(rows) != 3 {
		t.Errorf("Demo() has %d rows, want 3", len(rows))
	}
}

func TestDemoIsFixedPoint(t *testing.T) {
	d := Demo()
	got, err := d.Resize(d.Width, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Errorf("resizing demo to its own width changed it:\n got %v\nwant %v", got.Panes, d.Panes)
	}
}

func TestResizeReturnsCopy(t *testing.T) {
	d := Demo()
	got, err := d.Resize(1220, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 1220 {
		t.Errorf("Width = %g, want 1220", got.Width)
	}
	if d.Width != 920 || d.Panes[0].Width != 300 {
		t.Error("Resize() modified the receiver")
	}

	if _, err := d.Resize(100, nil); !perrors.Is(err, perrors.ErrCodeUnsatisfiableLayout) {
		t.Errorf("Resize(100) error = %v, want unsatisfiable", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene."+string(format))
			if err := Save(Demo(), path); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !reflect.DeepEqual(got, Demo()) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, Demo())
			}
		})
	}
}

func TestReadTOMLIntegers(t *testing.T) {
	doc := `
width = 400
height = 100

[[panes]]
id = 1
x = 0
y = 0
width = 400
height = 100
flex = true
`
	s, err := Read(strings.NewReader(doc), FormatTOML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if s.Width != 400 || len(s.Panes) != 1 || !s.Panes[0].Flex {
		t.Errorf("Read() = %+v", s)
	}
	if s.EffectiveGap() != 10 {
		t.Errorf("EffectiveGap() = %g, want default 10", s.EffectiveGap())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		code   perrors.Code
	}{
		{"malformed json", `{"width":`, FormatJSON, perrors.ErrCodeInvalidScene},
		{"unknown json field", `{"width": 10, "height": 10, "depth": 3, "panes": []}`, FormatJSON, perrors.ErrCodeInvalidScene},
		{"unknown toml key", "width = 10\nheight = 10\ncolour = 'red'\n", FormatTOML, perrors.ErrCodeInvalidScene},
		{"zero width", `{"width": 0, "height": 10, "panes": []}`, FormatJSON, perrors.ErrCodeInvalidScene},
		{"duplicate pane", `{"width": 10, "height": 10, "panes": [{"id": 1}, {"id": 1}]}`, FormatJSON, perrors.ErrCodeInvalidScene},
		{"unknown format", `{}`, Format("yaml"), perrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc), tt.format)
			if !perrors.Is(err, tt.code) {
				t.Errorf("Read() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.json")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	txt := filepath.Join(dir, "scene.txt")
	if err := os.WriteFile(txt, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txt); err == nil {
		t.Error("Load() accepted a .txt scene")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".toml", FormatTOML, false},
		{"JSON", FormatJSON, false},
		{"yaml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestMarshalJSONShape(t *testing.T) {
	data, err := Marshal(Demo(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"width": 920`, `"panes": [`, `"flex": true`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("JSON output missing %s:\n%s", want, data)
		}
	}
}
