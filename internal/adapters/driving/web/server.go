package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driving"
	"github.com/custodia-labs/facet/internal/logger"
)

// Server hosts surfaces for a fixed set of documents. Opening the
// surface page for a document and connecting its websocket is the
// "host opens the document in this surface type" moment: each
// websocket connection gets its own session.
type Server struct {
	addr      string
	sessions  driving.SessionManager
	settings  domain.SurfaceSettings
	documents map[string]domain.DocumentID
	order     []domain.DocumentID
	upgrader  websocket.Upgrader
	server    *http.Server
}

// NewServer creates a surface-hosting server for the given documents.
func NewServer(
	addr string,
	sessions driving.SessionManager,
	settings domain.SurfaceSettings,
	documents []domain.DocumentID,
) *Server {
	s := &Server{
		addr:      addr,
		sessions:  sessions,
		settings:  settings,
		documents: make(map[string]domain.DocumentID, len(documents)),
		order:     documents,
	}
	for _, id := range documents {
		s.documents[id.String()] = id
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.originAllowed}
	return s
}

// Handler returns the HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/surface", s.handleSurface)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving surfaces until Shutdown.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{Addr: s.addr, Handler: s.Handler()}
	logger.Info("surface server listening on %s", s.addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("surface server: %w", err)
	}
	return nil
}

// Shutdown stops the listener and disposes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// originAllowed implements the allowed-origins capability flag.
// No Origin header (non-browser clients) and same-host requests are
// accepted; anything else must be listed explicitly.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	for _, allowed := range s.settings.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := indexTemplate.Execute(w, s.order); err != nil {
		logger.Warn("render index: %v", err)
	}
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	id, ok := s.lookupDocument(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := surfaceData{
		Document:      id.String(),
		EnableScripts: s.settings.EnableScripts,
	}
	if err := surfaceTemplate.Execute(w, data); err != nil {
		logger.Warn("render surface: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, ok := s.lookupDocument(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader has already replied to the client.
		logger.Debug("upgrade failed for %s: %v", id, err)
		return
	}

	ch := NewChannel(conn)
	session, err := s.sessions.Create(context.Background(), id, ch)
	if err != nil {
		logger.Warn("open session on %s: %v", id, err)
		_ = ch.Close()
		return
	}
	logger.Debug("surface connected: session %s on %s", session.ID(), id)
}

// lookupDocument resolves the doc query parameter against the served
// set. Unknown documents are rejected so a surface cannot reach
// arbitrary host files.
func (s *Server) lookupDocument(r *http.Request) (domain.DocumentID, bool) {
	id, ok := s.documents[r.URL.Query().Get("doc")]
	return id, ok
}

type surfaceData struct {
	Document      string
	EnableScripts bool
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>facet</title></head>
<body>
<h1>Documents</h1>
<ul>
{{range .}}<li><a href="/surface?doc={{.}}">{{.}}</a></li>
{{end}}</ul>
</body>
</html>
`))

var surfaceTemplate = template.Must(template.New("surface").Parse(`<!doctype html>
<html>
<head><title>{{.Document}}</title></head>
<body>
<h1>{{.Document}}</h1>
<pre id="doc">connecting...</pre>
{{if .EnableScripts}}<script>
const proto = location.protocol === "https:" ? "wss:" : "ws:";
const ws = new WebSocket(proto + "//" + location.host + "/ws?doc=" + encodeURIComponent({{.Document}}));
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.kind === "full-refresh") {
    document.getElementById("doc").textContent = msg.content;
  }
};
window.facetUpdate = (path, value) => ws.send(JSON.stringify({kind: "field-update", path, value}));
</script>{{else}}<p>Scripting is disabled for this surface.</p>{{end}}
</body>
</html>
`))
