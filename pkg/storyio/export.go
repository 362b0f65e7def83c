package storyio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Serialize converts g into its persisted form.
func Serialize(g *story.Graph) *Document {
	doc := &Document{
		Version: Version,
		Nodes:   make(map[string]NodeRecord, g.NodeCount()),
		Arrows:  make([]ArrowRecord, 0, g.ArrowCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes[keyOf(n.ID)] = nodeRecord(n)
		if n.Initial {
			doc.Initial = InitialKey(keyOf(n.ID))
		}
	}
	for _, a := range g.Arrows() {
		doc.Arrows = append(doc.Arrows, ArrowRecord{
			Color:   a.Color.Channels(),
			StartID: Key(keyOf(a.StartKey())),
			EndID:   Key(keyOf(a.EndKey())),
		})
	}
	return doc
}

func keyOf(id story.ID) string { return strconv.FormatUint(uint64(id), 10) }

func nodeRecord(n *story.Node) NodeRecord {
	rec := NodeRecord{
		Type:     int(n.Kind),
		Color:    n.Color.Channels(),
		Position: point(n.Pos),
	}
	switch n.Kind {
	case story.KindCircle:
		rec.Radius = n.Radius
	case story.KindImage:
		rec.Text = text(n)
		rec.Size = size(*n.Size)
		path := n.Image.Path
		rec.ImagePath = &path
	case story.KindChoice:
		rec.Size = size(*n.Size)
		rec.Answers = make(map[string]AnswerRecord, len(n.Answers))
		for _, a := range n.Answers {
			rec.Answers[keyOf(a.ID)] = AnswerRecord{
				Color:    a.Color.Channels(),
				Position: point(a.Pos),
				Text:     a.Label.Text,
				Size:     size(a.Size),
			}
		}
	case story.KindVariable:
		rec.Text = text(n)
		rec.Size = size(*n.Size)
	default:
		panic(fmt.Sprintf("storyio: unknown node kind %d", n.Kind))
	}
	return rec
}

func point(p geom.Point) [2]float64 { return [2]float64{p.X, p.Y} }

func size(s geom.Size) *[2]float64 { return &[2]float64{s.W, s.H} }

func text(n *story.Node) *string {
	s := n.Text()
	return &s
}

// WriteDocument encodes doc as indented JSON and writes it to w.
func WriteDocument(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSON serializes g and writes the document to w.
func WriteJSON(g *story.Graph, w io.Writer) error {
	return WriteDocument(Serialize(g), w)
}

// ExportFile writes g to path. The document is written to a temporary file
// in the same directory and renamed over path, so readers never observe a
// partial document.
func ExportFile(g *story.Graph, path string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
