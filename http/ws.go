package http

import (
	"bytes"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"carprice/monitoring"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// PredictSocket serves live estimates: every text frame is a request object and every
// reply is an estimate or an ErrorResponse.
type PredictSocket struct {
	handlers *Handlers
	upgrader websocket.Upgrader
	clients  atomic.Int64
}

func NewPredictSocket(handlers *Handlers, allowedOrigins []string) *PredictSocket {
	return &PredictSocket{
		handlers: handlers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(allowedOrigins, origin)
			},
		},
	}
}

func (s *PredictSocket) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ws/predict", s.HandleWebSocket)
}

func (s *PredictSocket) Clients() int64 {
	return s.clients.Load()
}

// HandleWebSocket upgrades the connection and answers frames until the client leaves.
func (s *PredictSocket) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := s.handlers.logger
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	requestID := GetRequestID(r.Context())
	total := s.clients.Add(1)
	s.handlers.metrics.IncrCounter("ws_connections_total", 1)
	logger.Info("websocket client connected", zap.String("request_id", requestID), zap.Int64("clients", total))

	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		remaining := s.clients.Add(-1)
		logger.Info("websocket client disconnected", zap.String("request_id", requestID), zap.Int64("clients", remaining))
	}()

	replies := make(chan interface{}, 16)
	go s.writePump(conn, replies, done)

	conn.SetReadLimit(maxRequestBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var reply interface{}
		if req, err := decodeRequest(bytes.NewReader(payload)); err != nil {
			s.handlers.metrics.RecordPrediction(monitoring.OutcomeInvalidInput, 0)
			reply = ErrorResponse{Error: err.Error()}
		} else if estimate, _, errResp := s.handlers.predict(req); errResp != nil {
			reply = errResp
		} else {
			reply = estimate
		}

		select {
		case replies <- reply:
		default:
			logger.Warn("websocket client too slow, dropping connection", zap.String("request_id", requestID))
			return
		}
	}
}

// writePump owns all writes: replies in order, plus pings to keep the read deadline alive.
func (s *PredictSocket) writePump(conn *websocket.Conn, replies <-chan interface{}, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case reply := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(reply); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
