package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/preview"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = maxBodyBytes
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 65536,
}

// previewMessage is sent by the client on every edit. The client's
// version is informational; updates carry server-assigned versions.
type previewMessage struct {
	Version uint64 `json:"version,omitempty"`
	Content string `json:"content"`
}

// previewUpdate is pushed to the client for the newest rendered content.
type previewUpdate struct {
	Version    uint64  `json:"version"`
	HTML       string  `json:"html"`
	Empty      bool    `json:"empty"`
	DurationMS float64 `json:"durationMs"`
}

// handlePreviewSocket streams previews over a websocket. Each connection
// owns a preview.Worker, so a burst of edits collapses to the newest
// render and older results are never pushed after newer ones.
func (s *Server) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithFields(r.Context(), logging.FieldRemote, r.RemoteAddr)
	logger := logging.FromContext(ctx)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logging.FieldError, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	logger.Debug("preview socket opened")
	worker := preview.NewWorker(ctx, s.engine)
	defer worker.Close()

	// Reader: every message replaces the pending content.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			var msg previewMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("preview socket read ended", logging.FieldError, err)
				}
				return
			}
			worker.Submit(msg.Content)
		}
	}()

	for {
		select {
		case <-readDone:
			return
		case res, ok := <-worker.Results():
			if !ok {
				return
			}
			update := previewUpdate{
				Version:    res.Version,
				HTML:       string(res.HTML),
				Empty:      res.Empty,
				DurationMS: float64(res.Duration.Microseconds()) / 1000,
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(update); err != nil {
				logger.Debug("preview socket write failed", logging.FieldError, err)
				return
			}
		}
	}
}
