// Undercover party game
//
// Players join a shared room by 6-letter code. Each round, one or two
// of them are secretly dealt the IMPOSTOR role while everyone else
// privately receives the same topic item, drawn from the room's
// selected category. Players then talk their way to unmasking the
// impostors; the server only deals and keeps the secret.
//
// Features:
// - One WebSocket per client at /undercover/ws; rooms are created and
//   joined by message, not by URL
// - The room's creator is the host: only they may change category,
//   start or restart rounds, and disband the room
// - Host departure disbands the room; anyone else's departure just
//   shrinks it, and the last player out turns off the lights
// - Roles are delivered point-to-point and never appear in a broadcast
// - Ready-check gating: every non-host player must flag ready before
//   the host may deal again
// - Random 6-letter room codes via crypto/rand, collision-checked
// - In-browser QR button to share a room join link, backed by go-qrcode

package main

import (
	_ "embed"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "createRoom", "joinRoom", "selectCategory", "startGame", "playAgain", "playerReady", "playerUnready", "disbandRoom", "leaveRoom"
	Name     string `json:"name,omitempty"`     // createRoom / joinRoom
	RoomCode string `json:"roomCode,omitempty"` // everything except createRoom
	Category string `json:"category,omitempty"` // selectCategory
}

// PlayerInfo is the membership entry clients see.
type PlayerInfo struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Host  bool   `json:"host"`
}

// Sent to the creator once their room exists.
type RoomCreatedMessage struct {
	Type     string       `json:"type"` // "roomCreated"
	RoomCode string       `json:"roomCode"`
	Category string       `json:"category"`
	Players  []PlayerInfo `json:"players"`
}

// Sent to a joiner; type distinguishes a fresh join from a repeat.
type JoinResultMessage struct {
	Type     string       `json:"type"` // "joinSuccess" or "alreadyJoined"
	RoomCode string       `json:"roomCode"`
	Category string       `json:"category"`
	Players  []PlayerInfo `json:"players"`
}

// Broadcast whenever a room's membership or readiness changes.
type PlayersMessage struct {
	Type    string       `json:"type"` // "updatePlayers"
	Players []PlayerInfo `json:"players"`
}

// Broadcast when the host picks a different category.
type CategoryMessage struct {
	Type     string `json:"type"` // "categoryUpdated"
	Category string `json:"category"`
}

// Sent on connect so the client can render the category picker.
type CategoryListMessage struct {
	Type       string   `json:"type"` // "categoryList"
	Categories []string `json:"categories"`
}

// GameStartedMessage carries one player's secret role for the round:
// either the IMPOSTOR sentinel or the round's shared topic item. It is
// only ever unicast.
type GameStartedMessage struct {
	Type     string `json:"type"` // "gameStarted"
	Role     string `json:"role"`
	Category string `json:"category"`
}

// Sent to the remaining members when their room goes away.
type DisbandedMessage struct {
	Type    string `json:"type"` // "roomDisbanded"
	Message string `json:"message"`
}

// ErrorMessage is only ever sent to the connection that caused it.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type client struct {
	conn *websocket.Conn
	send chan any
	id   string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, co *SessionCoordinator, ro *roster, store *CategoryStore) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)

			return
		}

		c := &client{
			conn: conn,
			send: make(chan any, 8),
			id:   uuid.NewString(),
		}

		logf(cfg, "ROOMS: Connection %s opened from %s", c.id, realIP(r))

		ro.add(c)
		c.send <- CategoryListMessage{
			Type:       "categoryList",
			Categories: store.names(),
		}

		go c.writePump()
		c.readPump(co, ro)
	}
}

func (c *client) readPump(co *SessionCoordinator, ro *roster) {
	defer func() {
		co.disconnect(c.id)
		ro.remove(c.id)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		co.dispatch(c.id, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// qrHandler generates a PNG QR code for a room's join link.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)

		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../qr; strip the trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path + "?code=" + strings.ToUpper(code)

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed undercover/index.html
var indexHTML []byte

//go:embed undercover/app.css
var undercoverCSS []byte

//go:embed undercover/app.js
var undercoverJS []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(undercoverCSS)
	}
}

func getJsHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(undercoverJS)
	}
}

// registerUndercoverGame sets up routes so that:
//   - $path           → HTML client (create/join by code)
//   - $path/ws        → WebSocket shared by every room
//   - $path/qr?code=X → PNG QR code linking to the room's join page
func registerUndercoverGame(cfg *Config, path string, mux *httprouter.Router, store *CategoryStore) {
	ro := newRoster()
	co := newSessionCoordinator(cfg, store, ro)

	mux.GET(cfg.prefix+path, getIndexHandler(cfg))

	// Shared assets
	mux.GET(cfg.prefix+"/assets/undercover/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/undercover/app.js", getJsHandler(cfg))

	// Every room shares one websocket endpoint
	mux.GET(cfg.prefix+path+"/ws", serveWS(cfg, co, ro, store))

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/qr", qrHandler)
}
