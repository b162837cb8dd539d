package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"blockcss/render"
)

// StyleAttribute tags style nodes produced for an instance.
const StyleAttribute = "data-blockcss-block"

// limit for CSS update request body
const maxBodySize = 256 << 10

// Server is the HTTP + WebSocket surface of the preview store.
type Server struct {
	store    *Store
	listen   string
	router   chi.Router
	upgrader websocket.Upgrader
	log      *zap.Logger

	closing   chan struct{}
	closeOnce sync.Once
}

// NewServer creates server for store. Listen address is only used by
// HTTPServer.
func NewServer(store *Store, listen string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store:  store,
		listen: listen,
		router: chi.NewRouter(),
		log:    log.Named("preview"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// editors are served from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		closing: make(chan struct{}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/blocks", s.optionsHandler("POST"))
	r.Options("/blocks/{id}", s.optionsHandler("DELETE"))
	r.Options("/blocks/{id}/css", s.optionsHandler("GET, PUT"))
	r.Options("/styles", s.optionsHandler("GET"))

	r.Post("/blocks", s.handleCreateBlock)
	r.Delete("/blocks/{id}", s.handleDeleteBlock)
	r.Get("/blocks/{id}/css", s.handleGetCSS)
	r.Put("/blocks/{id}/css", s.handlePutCSS)
	r.Get("/styles", s.handleStyles)

	r.Get("/ws", s.handleWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("HTTP request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // allow streaming
	}
}

// Close terminates websocket streams. Plain requests are handled by
// http.Server shutdown.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// instanceID extracts and validates id path parameter, writing error response
// when it is not usable.
func instanceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !ValidID(id) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid instance id %q", id))
		return "", false
	}
	return id, true
}

// --- handlers ---

type blockResponse struct {
	ID     string             `json:"id"`
	CSS    string             `json:"css"`
	Active bool               `json:"active"`
	Source *render.VariantSet `json:"variants,omitempty"`
}

func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	s.store.Register(id)
	s.log.Debug("Instance registered", zap.String("instance", id))
	writeJSON(w, http.StatusCreated, blockResponse{ID: id})
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := instanceID(w, r)
	if !ok {
		return
	}
	if !s.store.Remove(id) {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCSS(w http.ResponseWriter, r *http.Request) {
	id, ok := instanceID(w, r)
	if !ok {
		return
	}
	inst, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "instance not found")
		return
	}
	writeJSON(w, http.StatusOK, blockResponse{ID: id, CSS: inst.CSS, Active: len(inst.CSS) > 0, Source: &inst.Variants})
}

func (s *Server) handlePutCSS(w http.ResponseWriter, r *http.Request) {
	id, ok := instanceID(w, r)
	if !ok {
		return
	}

	var vs render.VariantSet
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&vs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid variant set: "+err.Error())
		return
	}

	css, active := s.store.Update(id, vs)
	writeJSON(w, http.StatusOK, blockResponse{ID: id, CSS: css, Active: active})
}

// StyleNode returns style element owned by instance.
func StyleNode(st Style) string {
	return `<style ` + StyleAttribute + `="` + html.EscapeString(st.InstanceID) + `">` + st.CSS + `</style>`
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	for _, st := range s.store.Snapshot() {
		b.WriteString(StyleNode(st))
		b.WriteByte('\n')
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, b.String())
}

// handleWS streams store events. Current styles are sent first as update
// events so client can start from empty state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already responded
		s.log.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	current, events, cancel := s.store.Subscribe()
	defer cancel()

	// reader detects client going away, incoming messages are ignored
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for _, st := range current {
		if err := conn.WriteJSON(Event{Kind: EventUpdate, InstanceID: st.InstanceID, CSS: st.CSS}); err != nil {
			return
		}
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.log.Debug("Websocket write failed", zap.Error(err))
				}
				return
			}
		case <-gone:
			return
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(time.Second))
			return
		case <-r.Context().Done():
			return
		}
	}
}
