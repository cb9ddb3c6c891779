package halserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waypost-dev/waypost/pkg/hal"
)

const (
	contentTypeHAL = "application/hal+json"

	// pageSize is the number of books per collection page.
	pageSize = 3

	// featuredCount is the number of teasers embedded in the API root.
	featuredCount = 2
)

// curiName is the CURIE prefix under which all bookshop relation types
// are published.
const curiName = "ws"

// Server is the demo bookshop API. Create one with [New].
type Server struct {
	logger   *log.Logger
	instance string
	books    []book
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request diagnostics. By default nothing
// is logged.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server with the seeded catalogue. Every instance gets a
// fresh UUID, surfaced as the "instance" attribute of the API root, so
// clients can tell restarts apart.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		instance: uuid.NewString(),
		books:    seedBooks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Handler returns the routed HTTP handler. It is safe to mount on any
// listener, including httptest servers.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/api", s.handleRoot)
	r.Get("/api/books", s.handleBooks)
	r.Get("/api/books/{id}", s.handleBook)
	r.Get("/api/rels/{rel}", s.handleRel)
	return r
}

// Run serves the API on addr until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving bookshop API", "addr", addr, "instance", s.instance)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	links, err := hal.LinkingTo().
		Self("/api").
		Curi(curiName, "/api/rels/{rel}").
		Single(hal.BuildLink(curiName+":books", "/api/books{?page}").
			WithTitle("The book catalogue").
			Build()).
		Build()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rep := hal.NewRepresentation().WithLinks(links)
	if rep, err = rep.WithAttribute("title", "Waypost Bookshop"); err == nil {
		rep, err = rep.WithAttribute("instance", s.instance)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	featured := make([]hal.Representation, 0, featuredCount)
	for _, b := range s.books[:featuredCount] {
		teaser, terr := s.bookTeaser(b)
		if terr != nil {
			s.fail(w, r, terr)
			return
		}
		featured = append(featured, teaser)
	}
	if rep, err = rep.WithEmbedded(curiName+":featured", featured); err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, rep)
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	page := 1
	if q := r.URL.Query().Get("page"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}
	pageCount := (len(s.books) + pageSize - 1) / pageSize
	if page > pageCount {
		http.NotFound(w, r)
		return
	}

	builder := hal.LinkingTo().
		Self(fmt.Sprintf("/api/books?page=%d", page)).
		Curi(curiName, "/api/rels/{rel}")
	if page > 1 {
		builder.Single(hal.NewLink(hal.RelPrev, fmt.Sprintf("/api/books?page=%d", page-1)))
	}
	if page < pageCount {
		builder.Single(hal.NewLink(hal.RelNext, fmt.Sprintf("/api/books?page=%d", page+1)))
	}
	links, err := builder.Build()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rep := hal.NewRepresentation().WithLinks(links)
	for _, attr := range []struct {
		name  string
		value any
	}{
		{"page", page},
		{"pageCount", pageCount},
		{"total", len(s.books)},
	} {
		if rep, err = rep.WithAttribute(attr.name, attr.value); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, len(s.books))
	items := make([]hal.Representation, 0, hi-lo)
	for _, b := range s.books[lo:hi] {
		teaser, terr := s.bookTeaser(b)
		if terr != nil {
			s.fail(w, r, terr)
			return
		}
		items = append(items, teaser)
	}
	if rep, err = rep.WithEmbedded(curiName+":book", items); err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, rep)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return
	}
	for _, b := range s.books {
		if b.ID == id {
			rep, err := s.bookResource(b)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			s.write(w, r, rep)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleRel(w http.ResponseWriter, r *http.Request) {
	doc, ok := relDocs[chi.URLParam(r, "rel")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, doc)
}

// bookTeaser is the compact form embedded in collection pages and the
// featured list: a self link and the title.
func (s *Server) bookTeaser(b book) (hal.Representation, error) {
	links, err := hal.LinkingTo().
		Self(fmt.Sprintf("/api/books/%d", b.ID)).
		Build()
	if err != nil {
		return hal.Representation{}, err
	}
	return hal.NewRepresentation().WithLinks(links).WithAttribute("title", b.Title)
}

// bookResource is the full form served under /api/books/{id}, with the
// author embedded one level deeper.
func (s *Server) bookResource(b book) (hal.Representation, error) {
	links, err := hal.LinkingTo().
		Self(fmt.Sprintf("/api/books/%d", b.ID)).
		Curi(curiName, "/api/rels/{rel}").
		Single(hal.Collection("/api/books")).
		Build()
	if err != nil {
		return hal.Representation{}, err
	}

	rep := hal.NewRepresentation().WithLinks(links)
	for _, attr := range []struct {
		name  string
		value any
	}{
		{"id", b.ID},
		{"title", b.Title},
		{"year", b.Year},
	} {
		if rep, err = rep.WithAttribute(attr.name, attr.value); err != nil {
			return hal.Representation{}, err
		}
	}

	author := hal.NewRepresentation()
	if author, err = author.WithAttribute("name", b.Author.Name); err != nil {
		return hal.Representation{}, err
	}
	if author, err = author.WithAttribute("born", b.Author.Born); err != nil {
		return hal.Representation{}, err
	}
	return rep.WithEmbeddedItem(curiName+":author", author)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, rep hal.Representation) {
	data, err := json.Marshal(rep)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHAL)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("cannot write response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("cannot build representation", "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
