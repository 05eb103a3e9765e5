// Package server exposes the assistant over WebSocket for the GUI
// layer. Every request gets a typed reply; errors cross the boundary as
// failure payloads, never as panics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/types"
	"github.com/iamswethaa/chatbot/pkg/assistant"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the GUI shell runs on a different origin in dev
	},
}

// Message is the wire format in both directions.
type Message struct {
	Type      string      `json:"type"`
	Content   string      `json:"content,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	UserID    string      `json:"userId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

type WSServer struct {
	service *assistant.Service
	log     *zap.Logger
}

func NewWSServer(service *assistant.Service, log *zap.Logger) *WSServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSServer{service: service, log: log}
}

// Run serves the WebSocket endpoint and a health check until the
// listener fails.
func (s *WSServer) Run(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.log.Info("starting websocket server", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			s.log.Debug("connection closed", zap.Error(err))
			break
		}
		s.handleMessage(r.Context(), conn, msg)
	}
}

func (s *WSServer) handleMessage(ctx context.Context, conn *websocket.Conn, msg Message) {
	switch msg.Type {
	case "createSession":
		sess := s.service.CreateSession(msg.UserID)
		s.send(conn, Message{Type: "session", SessionID: sess.ID, Data: sess})

	case "getSession":
		sess, err := s.service.GetSession(msg.SessionID)
		if err != nil {
			s.sendError(conn, err)
			return
		}
		s.send(conn, Message{Type: "session", SessionID: sess.ID, Data: sess})

	case "deleteSession":
		if err := s.service.DeleteSession(ctx, msg.SessionID); err != nil {
			s.sendError(conn, err)
			return
		}
		s.send(conn, Message{Type: "deleted", SessionID: msg.SessionID})

	case "chat":
		opts := types.GenerateOptions{
			StreamFunc: func(chunk string) {
				s.send(conn, Message{Type: "stream", SessionID: msg.SessionID, Content: chunk})
			},
		}
		reply, err := s.service.SendMessage(ctx, msg.Content, msg.SessionID, opts)
		if err != nil {
			s.sendError(conn, err)
			return
		}
		s.send(conn, Message{Type: "response", SessionID: msg.SessionID, Content: reply.Content, Data: reply})

	case "ingest":
		statusCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		defer cancel()
		stats, err := s.service.IngestFolder(statusCtx, msg.Content)
		if err != nil {
			s.sendError(conn, err)
			return
		}
		s.send(conn, Message{Type: "ingested", Data: stats})

	case "status":
		s.send(conn, Message{Type: "status", Data: s.service.Status(ctx)})

	default:
		s.send(conn, Message{Type: "error", Content: "unknown message type: " + msg.Type})
	}
}

func (s *WSServer) send(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Warn("failed to send message", zap.Error(err))
	}
}

func (s *WSServer) sendError(conn *websocket.Conn, err error) {
	s.send(conn, Message{Type: "error", Content: err.Error()})
}
