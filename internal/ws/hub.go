// Package ws streams card and word property writes to browser clients and
// relays the browser's video player back to the session.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-lyricards/internal/diagnostics"
	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/render"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	id   string
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) send(b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.writeLocked(b)
}

// writeLocked writes one text message; the caller holds c.wmu.
func (c *client) writeLocked(b []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Prop is one property write inside a frame.
type Prop struct {
	El    string  `json:"el"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type frameMsg struct {
	Type    string `json:"type"`
	FrameID uint64 `json:"frame_id"`
	Props   []Prop `json:"props"`
}

type docWord struct {
	El   string  `json:"el"`
	Time float64 `json:"time"`
	HTML string  `json:"html"`
}

type docVoice struct {
	Name  string    `json:"name"`
	Words []docWord `json:"words"`
}

type docCard struct {
	El     string     `json:"el"`
	Time   float64    `json:"time"`
	Voices []docVoice `json:"voices"`
}

type documentMsg struct {
	Type  string    `json:"type"`
	Cards []docCard `json:"cards"`
}

// Hub is a render surface backed by websocket clients.
type Hub struct {
	mu          sync.RWMutex
	log         zerolog.Logger
	style       surface.Stylesheet
	clients     map[*client]bool
	diagClients map[*client]bool
	player      *RemotePlayer

	doc       []byte
	cards     int
	pending   []Prop
	frameID   uint64
	startTime time.Time
}

// NewHub returns a hub styled by style.
func NewHub(style surface.Stylesheet, log zerolog.Logger) *Hub {
	h := &Hub{
		log:         log,
		style:       style,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		startTime:   time.Now(),
	}
	h.player = newRemotePlayer(log)
	return h
}

// Player returns the widget driven by /control clients.
func (h *Hub) Player() *RemotePlayer { return h.player }

// Handler serves /ws, /diag, /control and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// Mount implements surface.Surface. Connected clients receive the document
// immediately; later clients receive it on connect.
func (h *Hub) Mount(doc *markup.Document) error {
	msg := documentMsg{Type: "document", Cards: make([]docCard, 0, len(doc.Cards))}
	for ci, c := range doc.Cards {
		dc := docCard{El: surface.CardID(ci).Key(), Time: c.Time}
		for _, v := range c.Voices {
			dv := docVoice{Name: v.Name, Words: make([]docWord, 0, len(v.Words))}
			for wi, w := range v.Words {
				dv.Words = append(dv.Words, docWord{
					El:   surface.WordID(ci, v.Name, wi).Key(),
					Time: w.Time,
					HTML: render.EscapeText(w.Text),
				})
			}
			dc.Voices = append(dc.Voices, dv)
		}
		msg.Cards = append(msg.Cards, dc)
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.doc = b
	h.cards = len(doc.Cards)
	targets := h.snapshot(h.clients)
	h.mu.Unlock()

	h.broadcast(targets, b)
	return nil
}

// Element implements surface.Surface.
func (h *Hub) Element(id surface.ElementID) surface.Element {
	return &element{id: id, key: id.Key(), h: h}
}

// Flush sends the writes collected since the last flush as one frame.
func (h *Hub) Flush() error {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return nil
	}
	h.frameID++
	msg := frameMsg{Type: "frame", FrameID: h.frameID, Props: h.pending}
	h.pending = nil
	targets := h.snapshot(h.clients)
	h.mu.Unlock()

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(targets, b)
	return nil
}

// Push implements diagnostics.Sink.
func (h *Hub) Push(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	h.mu.RLock()
	targets := h.snapshot(h.diagClients)
	h.mu.RUnlock()
	h.broadcast(targets, b)
}

// HandleFramesWS registers a frame client and sends it the mounted document.
// The document is always the client's first message: its write lock is held
// from registration until the document is written, so a concurrent Flush
// queues behind it.
func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c := h.upgrade(w, r)
	if c == nil {
		return
	}
	c.wmu.Lock()
	h.mu.Lock()
	h.clients[c] = true
	doc := h.doc
	h.mu.Unlock()
	if doc != nil {
		if err := c.writeLocked(doc); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("write document")
		}
	}
	c.wmu.Unlock()
	go h.drain(c, h.clients)
}

// HandleDiagWS registers a diagnostics client.
func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c := h.upgrade(w, r)
	if c == nil {
		return
	}
	h.mu.Lock()
	h.diagClients[c] = true
	h.mu.Unlock()
	go h.drain(c, h.diagClients)
}

// HandleControlWS reads player reports from the browser hosting the video.
func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	c := h.upgrade(w, r)
	if c == nil {
		return
	}
	h.player.attach(c)
	defer func() {
		h.player.detach(c)
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("bad control message")
			continue
		}
		h.player.report(msg)
	}
}

// HandleHealth reports hub status as JSON.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"frame_id":     h.frameID,
		"uptime_s":     time.Since(h.startTime).Seconds(),
		"cards":        h.cards,
		"clients":      len(h.clients),
		"diag_clients": len(h.diagClients),
	}
	h.mu.RUnlock()
	resp["player_state"] = h.player.State().String()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Hub) upgrade(w http.ResponseWriter, r *http.Request) *client {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("upgrade failed")
		return nil
	}
	c := &client{id: uuid.NewString(), conn: conn}
	h.log.Debug().Str("client", c.id).Str("path", r.URL.Path).Msg("client connected")
	return c
}

// drain reads until the client goes away, then unregisters it from set.
func (h *Hub) drain(c *client, set map[*client]bool) {
	defer func() {
		h.mu.Lock()
		delete(set, c)
		h.mu.Unlock()
		c.conn.Close()
		h.log.Debug().Str("client", c.id).Msg("client disconnected")
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// snapshot copies a client set; the caller holds h.mu.
func (h *Hub) snapshot(set map[*client]bool) []*client {
	out := make([]*client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (h *Hub) broadcast(targets []*client, b []byte) {
	for _, c := range targets {
		if err := c.send(b); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("write message")
		}
	}
}

type element struct {
	id  surface.ElementID
	key string
	h   *Hub
}

func (e *element) ID() surface.ElementID { return e.id }

func (e *element) TimerSpec() string { return e.h.style.TimersFor(e.id) }

func (e *element) SetProperty(name string, value float64) {
	e.h.mu.Lock()
	e.h.pending = append(e.h.pending, Prop{El: e.key, Name: name, Value: value})
	e.h.mu.Unlock()
}
