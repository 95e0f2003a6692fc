// Package server implements the panetree preview server.
//
// The server holds one live partition tree built from a panel file and
// exposes it over HTTP so edits can be watched in a browser:
//
//	GET    /healthz        build information
//	GET    /tree.json      snapshot of the current tree
//	GET    /tree.svg       SVG rendering (?branches=1 outlines containers)
//	GET    /tree.dot       Graphviz source
//	GET    /leaves         leaf list
//	POST   /leaves         insert a leaf next to a target
//	DELETE /leaves/{id}    remove a leaf
//	POST   /reset          rebuild from the original panels
//
// The tree is guarded by a mutex; every request sees a consistent tree.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// Server serves a single editable layout.
type Server struct {
	runner   *pipeline.Runner
	opts     pipeline.Options
	elements []partition.Element
	logger   *log.Logger

	mu   sync.Mutex
	tree *partition.Tree
}

// New builds the initial tree from elements. opts supplies build and render
// settings; its input fields are ignored.
func New(ctx context.Context, runner *pipeline.Runner, elements []partition.Element, opts pipeline.Options) (*Server, error) {
	opts.Elements = elements
	opts.PanelsPath = ""
	opts.Formats = nil
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s := &Server{
		runner:   runner,
		opts:     opts,
		elements: elements,
		logger:   runner.Logger,
	}
	if err := s.reset(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree.json", s.handleSnapshot)
	r.Get("/tree.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/tree.dot", s.handleArtifact(pipeline.FormatDOT, "text/vnd.graphviz"))
	r.Route("/leaves", func(r chi.Router) {
		r.Get("/", s.handleLeaves)
		r.Post("/", s.handleInsert)
		r.Delete("/{id}", s.handleRemove)
	})
	r.Post("/reset", s.handleReset)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving layout", "addr", addr, "leaves", len(s.elements))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// Snapshot returns a snapshot of the current tree.
func (s *Server) Snapshot() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.FromTree(s.tree)
}

func (s *Server) reset(ctx context.Context) error {
	tree, err := pipeline.BuildTree(ctx, s.elements, s.opts)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return nil
}
