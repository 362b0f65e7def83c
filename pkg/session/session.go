// Package session manages one editing session on a story project.
//
// A session owns the loaded [story.Graph] and the thumbnail cache of the
// project. The lifecycle mirrors the editor window:
//
//	sess, err := session.Open(ctx, proj, session.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	// ... mutate sess.Graph ...
//	if err := sess.Commit(); err != nil {
//	    return err
//	}
//
// The document is written synchronously by Commit, which callers invoke
// after each batch of mutations. Close commits one last time and purges the
// thumbnail cache; Discard releases the cache without writing, for work
// that failed halfway. Both are safe to call more than once, so they can be
// deferred next to explicit calls.
//
// Thumbnails are only generated on load when Options.Thumbnails is set,
// for sessions that draw the graph. Read-only sessions draw from a
// temporary cache removed on close, so they never touch the thumbnails of
// an editor working on the same project.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/novelgraph/pkg/observability"
	"github.com/matzehuels/novelgraph/pkg/project"
	"github.com/matzehuels/novelgraph/pkg/story"
	"github.com/matzehuels/novelgraph/pkg/storyio"
	"github.com/matzehuels/novelgraph/pkg/thumbnail"
)

// Options configures Open.
type Options struct {
	// ReadOnly sessions never write the document.
	ReadOnly bool
	// Thumbnails attaches a thumbnail to every scene on load so the graph
	// can be drawn with its images.
	Thumbnails bool
	// Logger receives session events. Nil uses log.Default().
	Logger *log.Logger
}

// Session is an open project.
type Session struct {
	ID        string
	Project   *project.Project
	Graph     *story.Graph
	Thumbs    thumbnail.Cache
	StartedAt time.Time

	ctx      context.Context
	readOnly bool
	logger   *log.Logger
	closed   bool
}

// Open loads the project's document and prepares its thumbnail cache.
func Open(ctx context.Context, p *project.Project, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		Project:   p,
		StartedAt: time.Now(),
		ctx:       ctx,
		readOnly:  opts.ReadOnly,
		logger:    logger.With("session", id[:8]),
	}

	thumbs, err := openThumbs(p, opts, s.logger)
	if err != nil {
		return nil, fmt.Errorf("thumbnail cache: %w", err)
	}
	s.Thumbs = thumbs

	start := time.Now()
	loader := storyio.Loader{Root: p.Dir, Logger: s.logger}
	if opts.Thumbnails {
		loader.Thumbs = s.Thumbs
	}
	g, err := loader.ImportFile(p.GameFile)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Session().OnLoad(ctx, p.GameFile, nodes, time.Since(start), err)
	if err != nil {
		s.Thumbs.Close()
		return nil, err
	}
	s.Graph = g
	s.logger.Debug("session opened", "project", p.Dir, "nodes", nodes, "arrows", g.ArrowCount())
	return s, nil
}

// openThumbs picks the cache for the session: the project's cache for
// editing, a temporary one for read-only drawing, none otherwise.
func openThumbs(p *project.Project, opts Options, logger *log.Logger) (thumbnail.Cache, error) {
	topts := thumbnail.Options{
		Root:    p.Dir,
		Quality: p.Settings.Thumbnail.JPEGQuality,
		Logger:  logger,
	}
	switch {
	case !opts.ReadOnly:
		return thumbnail.NewDirCache(p.ThumbPath(), topts)
	case opts.Thumbnails:
		return thumbnail.NewTempCache(topts)
	default:
		return thumbnail.NewNullCache(), nil
	}
}

// ReadOnly reports whether Commit is disabled.
func (s *Session) ReadOnly() bool { return s.readOnly }

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }

// Commit writes the graph to the project's game file.
func (s *Session) Commit() error {
	if s.readOnly || s.closed {
		return nil
	}
	start := time.Now()
	err := storyio.ExportFile(s.Graph, s.Project.GameFile)
	size := 0
	if info, serr := os.Stat(s.Project.GameFile); err == nil && serr == nil {
		size = int(info.Size())
	}
	observability.Session().OnCommit(s.ctx, s.Project.GameFile, size, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("commit %s: %w", s.Project.GameFile, err)
	}
	return nil
}

// Close commits the graph and purges the thumbnail cache. Later calls do
// nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	return s.release(s.Commit())
}

// Discard ends the session without writing the graph, leaving the game file
// as it was at the last Commit. Later calls, and Close, do nothing.
func (s *Session) Discard() error {
	if s.closed {
		return nil
	}
	s.logger.Debug("session discarded")
	return s.release(nil)
}

func (s *Session) release(err error) error {
	s.closed = true
	if cerr := s.Thumbs.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("purge thumbnails: %w", cerr)
	}
	observability.Session().OnClose(s.ctx, s.Project.GameFile, err)
	s.logger.Debug("session closed", "duration", time.Since(s.StartedAt).Round(time.Millisecond))
	return err
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool { return s.closed }
