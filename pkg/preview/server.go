// Package preview serves a read-only HTTP view of a story project.
//
// Every request reads the game file again, so the preview follows an editor
// working on the same project without any coordination. Routes:
//
//	GET /healthz                   liveness probe with the build version
//	GET /api/story                 the document, normalized
//	GET /api/playback              the compiled story
//	GET /api/playback/steps/{id}   one compiled step
//	GET /story.dot                 Graphviz source
//	GET /story.svg                 Graphviz rendering
//	GET /story.png                 the editor canvas
//	GET /images/*                  project images
//
// Document-derived responses carry an ETag computed from the game file, and
// honour If-None-Match.
package preview

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/novelgraph/pkg/buildinfo"
	nerrors "github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/observability"
	"github.com/matzehuels/novelgraph/pkg/playback"
	"github.com/matzehuels/novelgraph/pkg/project"
	"github.com/matzehuels/novelgraph/pkg/render/canvas"
	"github.com/matzehuels/novelgraph/pkg/render/nodelink"
	"github.com/matzehuels/novelgraph/pkg/story"
	"github.com/matzehuels/novelgraph/pkg/storyio"
	"github.com/matzehuels/novelgraph/pkg/thumbnail"
)

// Server serves one project.
type Server struct {
	Project *project.Project
	// Logger receives request logs. Nil uses log.Default().
	Logger *log.Logger
}

// New creates a preview server for p.
func New(p *project.Project, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Project: p, Logger: logger}
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/story", s.handleStory)
		r.Route("/playback", func(r chi.Router) {
			r.Get("/", s.handlePlayback)
			r.Get("/steps/{id}", s.handleStep)
		})
	})

	r.Get("/story.dot", s.handleDOT)
	r.Get("/story.svg", s.handleSVG)
	r.Get("/story.png", s.handlePNG)

	images := filepath.Join(s.Project.Dir, "images")
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(images))))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// load reads the game file. It writes the error response itself and
// reports false when the request is finished, including 304 replies.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*story.Graph, bool) {
	return s.loadWith(w, r, nil)
}

// loadWith is load with scene thumbnails generated into thumbs.
func (s *Server) loadWith(w http.ResponseWriter, r *http.Request, thumbs thumbnail.Cache) (*story.Graph, bool) {
	data, err := os.ReadFile(s.Project.GameFile)
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	etag := `"` + thumbnail.Hash(data)[:16] + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil, false
	}

	loader := storyio.Loader{Root: s.Project.Dir, Logger: s.Logger}
	if thumbs != nil {
		loader.Thumbs = thumbs
	}
	doc, err := storyio.ReadDocument(bytes.NewReader(data))
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	g, err := loader.Load(doc)
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return g, true
}

func (s *Server) compile(ctx context.Context, g *story.Graph) (*playback.Story, error) {
	start := time.Now()
	st, err := playback.Compile(g)
	observability.Playback().OnCompile(ctx, len(st.Steps), len(st.Warnings), time.Since(start), err)
	return st, err
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	g, ok := s.load(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, storyio.Serialize(g))
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	g, ok := s.load(w, r)
	if !ok {
		return
	}
	st, err := s.compile(r.Context(), g)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, nerrors.New(nerrors.ErrCodeInvalidInput, "step id must be a positive integer"))
		return
	}
	g, ok := s.load(w, r)
	if !ok {
		return
	}
	st, _ := s.compile(r.Context(), g)
	step := st.Step(story.ID(id))
	if step == nil {
		respondError(w, nerrors.New(nerrors.ErrCodeNotFound, "no step for node %d", id))
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	g, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Write([]byte(nodelink.ToDOT(g, nodelink.Options{Detailed: r.URL.Query().Has("detailed")})))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	g, ok := s.load(w, r)
	if !ok {
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(g, nodelink.Options{}))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// handlePNG draws the canvas with thumbnails from a cache that lives for
// the request.
func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	thumbs, err := thumbnail.NewTempCache(thumbnail.Options{
		Root:    s.Project.Dir,
		Quality: s.Project.Settings.Thumbnail.JPEGQuality,
		Logger:  s.Logger,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	defer thumbs.Close()

	g, ok := s.loadWith(w, r, thumbs)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := canvas.WritePNG(g, w); err != nil {
		s.Logger.Warn("canvas drawn with errors", "err", err)
	}
}
