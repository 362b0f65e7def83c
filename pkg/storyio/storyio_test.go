package storyio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

func sampleGraph(t *testing.T) *story.Graph {
	t.Helper()
	g := story.New()
	a := g.Node(g.Add(story.NewImage(geom.Pt(200, 100), geom.SceneBlue)))
	a.SetText("The forest at night")
	a.Image.Path = "images/upload/forest.png"
	c := g.Node(g.Add(story.NewChoice(geom.Pt(400, 300), geom.ChoiceBlue, true)))
	c.Answers[0].Label.Text = "Yes"
	no, _ := g.AddAnswer(c.ID)
	noAns, _ := g.Answer(no)
	noAns.Label.Text = "No"
	b := g.Node(g.Add(story.NewImage(geom.Pt(200, 600), geom.SceneBlue)))
	v := g.Node(g.Add(story.NewVariable(geom.Pt(600, 600), geom.VariableOrange)))
	v.SetText("gold += 10")
	circle := g.Node(g.Add(story.NewCircle(geom.Pt(50, 50), 30, geom.White)))

	g.Connect(a.OutRef(), c.InRef())
	g.Connect(c.Answers[0].OutRef(), b.InRef())
	g.Connect(noAns.OutRef(), v.InRef())
	g.Connect(v.OutRef(), b.InRef())
	g.Connect(circle.OutRef(), a.InRef())
	g.SetInitial(a.ID)
	return g
}

func roundTrip(t *testing.T, g *story.Graph) *story.Graph {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out, err := Loader{Logger: log.New(&bytes.Buffer{})}.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return out
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph(t)
	got := roundTrip(t, g)

	if got.NodeCount() != g.NodeCount() {
		t.Fatalf("NodeCount = %d, want %d", got.NodeCount(), g.NodeCount())
	}
	if got.ArrowCount() != g.ArrowCount() {
		t.Fatalf("ArrowCount = %d, want %d", got.ArrowCount(), g.ArrowCount())
	}
	if got.Initial() == nil || got.Initial().ID != g.Initial().ID {
		t.Errorf("Initial = %v, want node %d", got.Initial(), g.Initial().ID)
	}

	for _, want := range g.Nodes() {
		n := got.Node(want.ID)
		if n == nil {
			t.Errorf("node %d missing after round trip", want.ID)
			continue
		}
		if n.Kind != want.Kind || n.Color != want.Color || !near(n.Pos, want.Pos) {
			t.Errorf("node %d = %v %v %v, want %v %v %v", want.ID, n.Kind, n.Color, n.Pos, want.Kind, want.Color, want.Pos)
		}
		if n.Text() != want.Text() || n.Radius != want.Radius {
			t.Errorf("node %d text/radius = %q/%v, want %q/%v", want.ID, n.Text(), n.Radius, want.Text(), want.Radius)
		}
		if want.Size != nil && *n.Size != *want.Size {
			t.Errorf("node %d size = %v, want %v", want.ID, *n.Size, *want.Size)
		}
		if want.Image != nil && n.Image.Path != want.Image.Path {
			t.Errorf("node %d image = %q, want %q", want.ID, n.Image.Path, want.Image.Path)
		}
		if len(n.Answers) != len(want.Answers) {
			t.Errorf("node %d answers = %d, want %d", want.ID, len(n.Answers), len(want.Answers))
			continue
		}
		for i, a := range want.Answers {
			ga := n.Answers[i]
			if ga.ID != a.ID || ga.Label != a.Label || ga.Size != a.Size || !near(ga.Pos, a.Pos) {
				t.Errorf("answer %d = %+v, want %+v", a.ID, ga, a)
			}
		}
	}

	for i, want := range g.Arrows() {
		if a := got.Arrows()[i]; a != want {
			t.Errorf("arrow %d = %+v, want %+v", i, a, want)
		}
	}
}

func TestRoundTripKeepsInsertionOrder(t *testing.T) {
	g := sampleGraph(t)
	got := roundTrip(t, g)
	for i, n := range g.Nodes() {
		if got.Nodes()[i].ID != n.ID {
			t.Errorf("node %d has id %d, want %d", i, got.Nodes()[i].ID, n.ID)
		}
	}
}

func TestEmptyDocuments(t *testing.T) {
	for _, input := range []string{"", "   \n", "null", "{}", `{"version":"1.1","nodes":{},"arrows":[],"initial":0}`} {
		g, err := Loader{}.Read(strings.NewReader(input))
		if err != nil {
			t.Errorf("Read(%q) error = %v", input, err)
			continue
		}
		if g.NodeCount() != 0 || g.ArrowCount() != 0 || g.Initial() != nil {
			t.Errorf("Read(%q) = %d nodes, %d arrows, want empty", input, g.NodeCount(), g.ArrowCount())
		}
	}
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `{"nodes": `},
		{"unknown type", `{"nodes":{"1":{"type":9,"color":[0,0,0,255],"position":[0,0]}},"arrows":[]}`},
		{"missing arrow key", `{"nodes":{"1":{"type":2,"color":[0,0,0,255],"position":[0,0],"size":[120,67]}},
			"arrows":[{"color":[0,0,0,255],"start_id":"1","end_id":"2"}]}`},
		{"arrow from choice", `{"nodes":{
			"1":{"type":3,"color":[0,0,0,255],"position":[0,0],"size":[120,0],"answers":{}},
			"2":{"type":2,"color":[0,0,0,255],"position":[0,200],"size":[120,67]}},
			"arrows":[{"color":[0,0,0,255],"start_id":"1","end_id":"2"}]}`},
		{"arrow into answer", `{"nodes":{
			"1":{"type":3,"color":[0,0,0,255],"position":[0,0],"size":[120,41],"answers":{
				"5":{"color":[128,128,128,255],"position":[0,0],"text":"a","size":[120,40]}}},
			"2":{"type":2,"color":[0,0,0,255],"position":[0,200],"size":[120,67]}},
			"arrows":[{"color":[0,0,0,255],"start_id":"2","end_id":"5"}]}`},
		{"duplicate identity", `{"nodes":{
			"7":{"type":2,"color":[0,0,0,255],"position":[0,0]},
			"07":{"type":2,"color":[0,0,0,255],"position":[0,0]}},"arrows":[]}`},
		{"key out of range", `{"nodes":{"18446744073709551615":{"type":1,"color":[0,0,0,255],"position":[0,0],"radius":5}},"arrows":[]}`},
		{"no key left", `{"nodes":{
			"18446744073709551614":{"type":1,"color":[0,0,0,255],"position":[0,0],"radius":5},
			"abc":{"type":1,"color":[0,0,0,255],"position":[0,0],"radius":5}},"arrows":[]}`},
		{"version", `{"version":"2.0","nodes":{"1":{"type":1,"color":[0,0,0,255],"position":[0,0],"radius":5}},"arrows":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Loader{}.Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Read error = nil, want INVALID_FORMAT")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if g != nil {
				t.Error("a partial graph was returned")
			}
		})
	}
}

func TestLegacyDocument(t *testing.T) {
	// Hash-keyed document as written by earlier editors.
	input := `{
    "version": "1.1",
    "nodes": {
        "-4410": {"type": 2, "color": [100, 100, 255, 255], "position": [0, 0],
                  "text": "start", "size": [120, 67], "image_path": null,
                  "connector1": {}, "connector2": {}},
        "8812": {"type": 3, "color": [100, 100, 255, 255], "position": [0, 200],
                 "size": [120, 41], "answers": {
                     "-77": {"color": [128, 128, 128, 255], "position": [0, 200], "text": "go", "size": [120, 40], "connector": {}}}},
        "9001": {"type": 2, "color": [100, 100, 255, 255], "position": [0, 400], "text": "end", "size": [120, 67]}
    },
    "arrows": [
        {"color": [0, 0, 0, 255], "position": [0, 0], "start": "-4410", "end": "8812"},
        {"color": [0, 0, 0, 255], "position": [0, 0], "start": "-77", "end": "9001"}
    ],
    "initial": -4410
}`
	g, err := Loader{}.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if g.NodeCount() != 3 || g.ArrowCount() != 2 {
		t.Fatalf("got %d nodes, %d arrows, want 3 and 2", g.NodeCount(), g.ArrowCount())
	}
	initial := g.Initial()
	if initial == nil || initial.Text() != "start" {
		t.Fatalf("Initial = %v, want the start scene", initial)
	}
	if initial.ID <= 9001 {
		t.Errorf("re-keyed id = %d, want above the largest kept key", initial.ID)
	}
	choice := g.Node(8812)
	if choice == nil || len(choice.Answers) != 1 {
		t.Fatalf("choice 8812 = %v", choice)
	}
	arrows := g.Arrows()
	if arrows[1].Start != choice.Answers[0].OutRef() || arrows[1].End != g.Node(9001).InRef() {
		t.Errorf("answer arrow = %+v", arrows[1])
	}

	// The re-keyed document writes the current field names.
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"start_id"`) || strings.Contains(buf.String(), `"start":`) {
		t.Errorf("written arrows use legacy keys:\n%s", buf.String())
	}
}

func TestInitialEncoding(t *testing.T) {
	g := story.New()
	id := g.Add(story.NewCircle(geom.Pt(0, 0), 10, geom.White))

	var buf bytes.Buffer
	_ = WriteJSON(g, &buf)
	if !strings.Contains(buf.String(), `"initial": 0`) {
		t.Errorf("no initial node should be written as 0:\n%s", buf.String())
	}

	g.SetInitial(id)
	buf.Reset()
	_ = WriteJSON(g, &buf)
	if !strings.Contains(buf.String(), `"initial": 1`) {
		t.Errorf("initial node should be written as its key:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "\n    \"version\"") {
		t.Errorf("document is not indented by four spaces:\n%s", buf.String())
	}
}

func TestMissingAssetIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	g := story.New()
	n := g.Node(g.Add(story.NewImage(geom.Pt(100, 100), geom.SceneBlue)))
	n.SetText("kept")
	n.Image.Path = "images/upload/gone.png"

	path := filepath.Join(dir, "game.json")
	if err := ExportFile(g, path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	var logs bytes.Buffer
	thumbs := &countingThumbs{}
	got, err := Loader{Thumbs: thumbs, Root: dir, Logger: log.New(&logs)}.ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	m := got.Node(n.ID)
	if m.Text() != "kept" || m.Image.Path != "images/upload/gone.png" || m.Image.Thumb != "" {
		t.Errorf("loaded node = %+v, image %+v", m, m.Image)
	}
	if thumbs.calls != 0 {
		t.Errorf("thumbnailer called %d times for a missing file", thumbs.calls)
	}
	if !strings.Contains(logs.String(), "missing asset") {
		t.Errorf("missing asset not logged: %q", logs.String())
	}
}

func TestThumbnailsOnLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := story.New()
	n := g.Node(g.Add(story.NewImage(geom.Pt(100, 100), geom.SceneBlue)))
	n.Image.Path = "images/a.png"

	var buf bytes.Buffer
	_ = WriteJSON(g, &buf)
	thumbs := &countingThumbs{}
	got, err := Loader{Thumbs: thumbs, Root: dir, Logger: log.New(&bytes.Buffer{})}.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if thumbs.calls != 1 || got.Node(n.ID).Image.Thumb != "thumb:images/a.png" {
		t.Errorf("calls = %d, thumb = %q", thumbs.calls, got.Node(n.ID).Image.Thumb)
	}
}

func TestImportMissingFile(t *testing.T) {
	g, err := Loader{}.ImportFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || g.NodeCount() != 0 {
		t.Errorf("ImportFile(absent) = %v, %v; want empty graph", g, err)
	}
}

type countingThumbs struct{ calls int }

func (c *countingThumbs) Ensure(src string, _ geom.Size) (string, error) {
	c.calls++
	return "thumb:" + src, nil
}

func (c *countingThumbs) Regenerate(src string, size geom.Size) (string, error) {
	return c.Ensure(src, size)
}
