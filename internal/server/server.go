// Package server exposes built bundles over HTTP for local development.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/assetforge/assetforge/pkg/asset"
	"github.com/assetforge/assetforge/pkg/build"
)

// bundlePath is the path template bundles are served under.
const bundlePath = "/bundles/{}"

// Server serves the artifacts of one build result. It holds no other
// state; to pick up manifest changes, run a new build and create a new
// server.
type Server struct {
	result *build.Result
	logger *log.Logger
}

// New creates a server for a build result.
func New(res *build.Result, logger *log.Logger) *Server {
	return &Server{result: res, logger: logger}
}

// Handler returns the HTTP handler: an index page at / and each bundle
// under /bundles/{name}.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Get("/", s.handleIndex)
	r.Get("/bundles/{name}", s.handleBundle)
	return r
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	a := s.result.Artifact(name)
	if a == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType(name))
	w.Write(a.Content)
}

// handleIndex renders a page that includes every bundle in dependency
// order, so loading it exercises the full build output.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var tags []string
	for _, art := range s.result.Artifacts {
		a, err := asset.New(art.Name, asset.WithLiteral(string(art.Content)))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tag, err := a.HTML(r.Context(), bundlePath, asset.LinkRef)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tags = append(tags, "    "+tag)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<html>
<head>
    <meta charset="utf-8">
    <title>assetforge</title>
%s
</head>
<body>
    <p>Build %s: %d bundles.</p>
</body>
</html>
`, strings.Join(tags, "\n"), s.result.ID, len(s.result.Artifacts))
}

func contentType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".css") {
		return "text/css; charset=utf-8"
	}
	return "application/javascript; charset=utf-8"
}
