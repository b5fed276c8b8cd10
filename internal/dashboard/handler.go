package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// Prefix is the path all dashboard routes are mounted under.
const Prefix = "/_zerobot"

//go:embed static/dashboard.html
var staticFS embed.FS

// Routes returns the dashboard router, to be mounted at Prefix.
func Routes(hub *Hub) chi.Router {
	r := chi.NewRouter()

	// Dashboard HTML
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFS.ReadFile("static/dashboard.html")
		if err != nil {
			http.Error(w, "dashboard not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})

	// WebSocket endpoint
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin
		})
		if err != nil {
			return
		}
		defer conn.CloseNow()

		hub.Register(r.Context(), conn)
		defer hub.Unregister(conn)

		// Reading (and discarding) client messages keeps the connection open
		// until the client goes away.
		ctx := conn.CloseRead(r.Context())
		<-ctx.Done()
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, hub.StatsSnapshot())
		})

		// ?limit=N returns only the newest N events.
		r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			writeJSON(w, hub.Events().Last(limit))
		})

		r.Get("/knowledge", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, hub.KnowledgeCounts())
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Run starts the periodic stats broadcast in background.
func Run(ctx context.Context, hub *Hub) {
	go hub.StartStatsBroadcast(ctx, 5*time.Second)
}
