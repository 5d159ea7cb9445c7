package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// streamEnd is the last frame of a discovery stream
type streamEnd struct {
	Done     bool     `json:"done"`
	Error    string   `json:"error,omitempty"`
	Failures []string `json:"failures"`
}

// discoverStream pushes each SSDP response as a JSON text frame as it
// arrives, then a final streamEnd frame. The search stops early if the
// client goes away.
func (s *Server) discoverStream(w http.ResponseWriter, r *http.Request) {
	target, timeout, err := s.searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	s.log.Info("WebSocket discovery stream opened",
		zap.String("remote_addr", remoteAddr),
		zap.String("st", target),
		zap.Duration("timeout", timeout),
	)
	defer func() {
		_ = conn.Close()
		s.log.Info("WebSocket discovery stream closed", zap.String("remote_addr", remoteAddr))
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reading is only for control frames and noticing the client leave
	conn.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	search, err := s.cp.Discover(ctx, target, timeout)
	if err != nil {
		_ = s.writeFrame(conn, streamEnd{Done: true, Error: err.Error(), Failures: []string{}})
		return
	}

	sent := 0
	for resp := range search.All() {
		if err := s.writeFrame(conn, newResponseView(resp)); err != nil {
			s.log.Debug("WebSocket write failed", zap.String("remote_addr", remoteAddr), zap.Error(err))
			return
		}
		sent++
	}

	end := streamEnd{Done: true, Failures: []string{}}
	for _, f := range search.Failures() {
		end.Failures = append(end.Failures, f.Error())
	}
	if err := s.writeFrame(conn, end); err == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
	}
	s.log.Debug("WebSocket discovery stream finished",
		zap.String("remote_addr", remoteAddr),
		zap.Int("responses", sent),
	)
}

func (s *Server) writeFrame(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
