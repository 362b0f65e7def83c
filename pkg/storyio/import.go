package storyio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Loader rebuilds graphs from documents.
type Loader struct {
	// Thumbs produces scene thumbnails. Nil loads scenes without thumbnails.
	Thumbs story.Thumbnailer
	// Root is the directory relative image paths are resolved against when
	// checking that they exist. Empty means the working directory.
	Root string
	// Logger receives missing-asset and thumbnail warnings. Nil uses
	// log.Default().
	Logger *log.Logger
}

func (l Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// Deserialize rebuilds a graph from doc without thumbnails.
func Deserialize(doc *Document) (*story.Graph, error) {
	return Loader{}.Load(doc)
}

// ReadDocument decodes a document from r. Empty input yields an empty
// document.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	doc := &Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode story document")
	}
	return doc, nil
}

// Read decodes a document from r and loads it.
func (l Loader) Read(r io.Reader) (*story.Graph, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	return l.Load(doc)
}

// ImportFile loads the document at path. A missing file is an empty story.
func (l Loader) ImportFile(path string) (*story.Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return story.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Load rebuilds the graph described by doc. On error no graph is returned.
func (l Loader) Load(doc *Document) (*story.Graph, error) {
	g := story.New()
	if doc.IsEmpty() {
		return g, nil
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}

	ids, err := assignIDs(doc)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(doc.Nodes, ids) {
		rec := doc.Nodes[key]
		n, err := buildNode(rec, ids)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", key)
		}
		n.Initial = doc.Initial != "" && key == string(doc.Initial)
		if err := g.AddWithID(n, ids[key]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", key)
		}
		if n.Kind == story.KindImage && n.HasImage() {
			l.attachThumbnail(n)
		}
	}

	for i, rec := range doc.Arrows {
		a, err := resolveArrow(g, rec, ids)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "arrow %d", i)
		}
		if !g.Link(a) {
			l.logger().Debug("skipping redundant arrow", "index", i, "start", rec.StartKey(), "end", rec.EndKey())
		}
	}

	if doc.Initial != "" && g.Initial() == nil {
		l.logger().Warn("initial node not found", "key", string(doc.Initial))
	}
	return g, nil
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	major, _, _ := strings.Cut(v, ".")
	if major != "1" {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %q", v)
	}
	return nil
}

// assignIDs maps every node and answer key to an identity. Keys that are
// positive integers are kept; the others are numbered after the largest
// kept key.
func assignIDs(doc *Document) (map[string]story.ID, error) {
	ids := make(map[string]story.ID)
	used := make(map[story.ID]string)
	var rekey []string

	claim := func(key string) error {
		if _, dup := ids[key]; dup {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate key %q", key)
		}
		v, err := strconv.ParseUint(key, 10, 64)
		if err != nil || v == 0 {
			rekey = append(rekey, key)
			ids[key] = story.NoID
			return nil
		}
		if story.ID(v) > story.MaxID {
			return errors.New(errors.ErrCodeInvalidFormat, "key %q is out of range", key)
		}
		if other, dup := used[story.ID(v)]; dup {
			return errors.New(errors.ErrCodeInvalidFormat, "keys %q and %q name the same identity", other, key)
		}
		used[story.ID(v)] = key
		ids[key] = story.ID(v)
		return nil
	}

	for key, rec := range doc.Nodes {
		if err := claim(key); err != nil {
			return nil, err
		}
		for akey := range rec.Answers {
			if err := claim(akey); err != nil {
				return nil, err
			}
		}
	}

	var next story.ID
	for id := range used {
		next = max(next, id)
	}
	slices.Sort(rekey)
	for _, key := range rekey {
		if next >= story.MaxID {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "no identity left for key %q", key)
		}
		next++
		ids[key] = next
	}
	return ids, nil
}

// sortedKeys orders keys by their assigned identity so that insertion order
// survives a save/load cycle.
func sortedKeys[V any](m map[string]V, ids map[string]story.ID) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case ids[a] < ids[b]:
			return -1
		case ids[a] > ids[b]:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func buildNode(rec NodeRecord, ids map[string]story.ID) (*story.Node, error) {
	color := geom.FromChannels(rec.Color)
	pos := geom.Pt(rec.Position[0], rec.Position[1])

	var n *story.Node
	switch story.Kind(rec.Type) {
	case story.KindCircle:
		r := rec.Radius
		if r <= 0 {
			r = story.DefaultRadius
		}
		n = story.NewCircle(pos, r, color)
	case story.KindImage:
		n = story.NewImage(geom.Point{}, color)
		if rec.Size != nil {
			*n.Size = geom.Size{W: rec.Size[0], H: rec.Size[1]}
		}
		if rec.ImagePath != nil {
			n.Image.Path = *rec.ImagePath
		}
		n.MoveTo(pos)
	case story.KindChoice:
		n = story.NewChoice(pos, color, false)
		if rec.Size != nil {
			n.Size.W = rec.Size[0]
		}
		for _, akey := range sortedKeys(rec.Answers, ids) {
			arec := rec.Answers[akey]
			a := &story.Answer{
				ID:    ids[akey],
				Color: geom.FromChannels(arec.Color),
				Label: story.Label{Text: arec.Text},
				Size:  geom.Size{W: n.Size.W, H: n.Size.W / 3},
			}
			if arec.Size != nil {
				a.Size = geom.Size{W: arec.Size[0], H: arec.Size[1]}
			}
			n.AppendAnswer(a)
		}
	case story.KindVariable:
		n = story.NewVariable(geom.Point{}, color)
		if rec.Size != nil {
			*n.Size = geom.Size{W: rec.Size[0], H: rec.Size[1]}
		}
		n.MoveTo(pos)
	default:
		return nil, fmt.Errorf("unknown node type %d", rec.Type)
	}
	if rec.Text != nil {
		n.SetText(*rec.Text)
	}
	return n, nil
}

func resolveArrow(g *story.Graph, rec ArrowRecord, ids map[string]story.ID) (story.Arrow, error) {
	sk, ek := string(rec.StartKey()), string(rec.EndKey())
	sid, ok := ids[sk]
	if !ok {
		return story.Arrow{}, fmt.Errorf("unknown start key %q", sk)
	}
	eid, ok := ids[ek]
	if !ok {
		return story.Arrow{}, fmt.Errorf("unknown end key %q", ek)
	}

	var start story.ConnRef
	if a, _ := g.Answer(sid); a != nil {
		start = a.OutRef()
	} else if n := g.Node(sid); n != nil && n.Out != nil {
		start = n.OutRef()
	} else {
		return story.Arrow{}, fmt.Errorf("start %q has no output connector", sk)
	}

	n := g.Node(eid)
	if n == nil || n.In == nil {
		return story.Arrow{}, fmt.Errorf("end %q has no input connector", ek)
	}
	return story.Arrow{Start: start, End: n.InRef(), Color: geom.FromChannels(rec.Color)}, nil
}

func (l Loader) attachThumbnail(n *story.Node) {
	path := n.Image.Path
	resolved := path
	if !filepath.IsAbs(path) && l.Root != "" {
		resolved = filepath.Join(l.Root, path)
	}
	if _, err := os.Stat(resolved); err != nil {
		l.logger().Warn("missing asset", "node", n.ID, "path", path,
			"err", errors.Wrap(errors.ErrCodeMissingAsset, err, "image for node %d", n.ID))
		return
	}
	if l.Thumbs == nil {
		return
	}
	thumb, err := l.Thumbs.Ensure(path, *n.Size)
	if err != nil {
		l.logger().Warn("thumbnail failed", "node", n.ID, "path", path, "err", err)
		return
	}
	n.Image.Thumb = thumb
}
