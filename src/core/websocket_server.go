package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	auth "github.com/RSAKTHISABARISH/RubyAI/src/core/Auth"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/gorilla/websocket"
)

// SessionFactory builds a fresh session for each connection.
type SessionFactory func() (*Session, error)

// Upgrader turns an HTTP request into a websocket connection.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
}

// Conn is the transport contract the handler needs; satisfied by
// websocketConn and by test doubles.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WebSocketServer accepts voice clients and runs one session per
// connection.
type WebSocketServer struct {
	config   *configs.Config
	logger   *utils.Logger
	upgrader Upgrader
	factory  SessionFactory
	verifier *auth.AuthToken

	server            *http.Server
	activeConnections sync.Map
}

// NewWebSocketServer creates the server; sessions come from the factory.
func NewWebSocketServer(config *configs.Config, logger *utils.Logger, factory SessionFactory) *WebSocketServer {
	ws := &WebSocketServer{
		config:   config,
		logger:   logger,
		upgrader: NewDefaultUpgrader(),
		factory:  factory,
	}
	if config.Server.Auth.Enabled {
		ws.verifier = auth.NewAuthToken(config.Server.Auth.Secret)
	}
	return ws
}

// Start serves until the context is cancelled.
func (ws *WebSocketServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", ws.config.Server.IP, ws.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleWebSocket)

	ws.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	ws.logger.FormatInfo("starting websocket server on ws://%s", addr)

	go func() {
		<-ctx.Done()
		if err := ws.Stop(); err != nil {
			ws.logger.Error(fmt.Sprintf("server shutdown: %v", err))
		}
	}()

	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("websocket server: %v", err)
	}
	return nil
}

// Stop closes every live connection and the listener.
func (ws *WebSocketServer) Stop() error {
	if ws.server == nil {
		return nil
	}

	ws.activeConnections.Range(func(key, value interface{}) bool {
		if conn, ok := value.(Conn); ok {
			conn.Close()
		}
		return true
	})
	return ws.server.Close()
}

func (ws *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if ws.verifier != nil {
		token := r.URL.Query().Get("token")
		if ok, _, err := ws.verifier.VerifyToken(token); err != nil || !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := ws.upgrader.Upgrade(w, r)
	if err != nil {
		ws.logger.Error(fmt.Sprintf("websocket upgrade: %v", err))
		return
	}

	session, err := ws.factory()
	if err != nil {
		ws.logger.Error(fmt.Sprintf("create session: %v", err))
		conn.Close()
		return
	}

	clientID := session.ID()
	ws.activeConnections.Store(clientID, conn)
	defer func() {
		ws.activeConnections.Delete(clientID)
		session.Close()
		conn.Close()
	}()

	handler := newConnHandler(conn, session, ws.logger)
	handler.run(r.Context())
}

// clientMessage is what a client sends as a text frame. Binary frames
// carry one complete PCM utterance instead.
type clientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// serverMessage is one JSON frame to the client.
type serverMessage struct {
	Type   string `json:"type"`
	State  string `json:"state,omitempty"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// connHandler pumps one connection: client frames in, session events out.
type connHandler struct {
	conn    Conn
	session *Session
	logger  *utils.Logger
}

func newConnHandler(conn Conn, session *Session, logger *utils.Logger) *connHandler {
	h := &connHandler{
		conn:    conn,
		session: session,
		logger:  logger,
	}
	session.AddListener(types.EventFunc(h.onEvent))
	return h
}

func (h *connHandler) run(ctx context.Context) {
	h.send(serverMessage{Type: "hello", State: string(types.StateIdle)})

	for {
		messageType, payload, err := h.conn.ReadMessage()
		if err != nil {
			return
		}

		switch messageType {
		case websocket.TextMessage:
			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				h.send(serverMessage{Type: "error", Text: "malformed message"})
				continue
			}
			h.handleText(ctx, msg)
		case websocket.BinaryMessage:
			if _, _, err := h.session.RespondToAudio(ctx, payload); err != nil {
				h.logger.Error(fmt.Sprintf("audio turn: %v", err))
			}
		}

		if h.session.CloseRequested() {
			return
		}
	}
}

func (h *connHandler) handleText(ctx context.Context, msg clientMessage) {
	switch msg.Type {
	case "chat":
		if _, err := h.session.RespondToText(ctx, msg.Text); err != nil {
			h.logger.Error(fmt.Sprintf("text turn: %v", err))
		}
	case "reset":
		h.session.Reset()
	case "state":
		h.send(serverMessage{Type: "state", State: string(h.session.State())})
	default:
		h.send(serverMessage{Type: "error", Text: "unknown message type"})
	}
}

// onEvent forwards session events to the client. Audio goes out as 60ms
// opus frames bracketed by audio_start and audio_end.
func (h *connHandler) onEvent(ev types.Event) {
	switch ev.Kind {
	case types.EventStateChanged:
		h.send(serverMessage{Type: "state", State: string(ev.State)})
	case types.EventTranscriptReady:
		h.send(serverMessage{Type: "transcript", Sender: ev.Sender, Text: ev.Text})
	case types.EventResponseReady:
		h.send(serverMessage{Type: "reply", Sender: ev.Sender, Text: ev.Text})
	case types.EventAudioReady:
		h.sendAudio(ev.Audio)
	}
}

func (h *connHandler) sendAudio(mp3Data []byte) {
	frames, _, err := utils.MP3ToOpusFrames(mp3Data)
	if err != nil {
		h.logger.Error(fmt.Sprintf("encode reply audio: %v", err))
		return
	}

	h.send(serverMessage{Type: "audio_start", Frames: len(frames)})
	for _, frame := range frames {
		if err := h.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
	h.send(serverMessage{Type: "audio_end"})
}

func (h *connHandler) send(msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.conn.WriteMessage(websocket.TextMessage, data)
}

// defaultUpgrader upgrades with gorilla and wraps the result in the
// write-serialized conn.
type defaultUpgrader struct {
	wsUpgrader *websocket.Upgrader
}

// NewDefaultUpgrader allows all origins; voice clients connect from
// anywhere on the LAN.
func NewDefaultUpgrader() Upgrader {
	return &defaultUpgrader{
		wsUpgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (u *defaultUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error) {
	conn, err := u.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &websocketConn{conn: conn}, nil
}
