package rest

import (
	"fmt"
	"landmark-service/internal/adapters/notifier"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/port"
	"net/http"
	"time"
)

const keepAliveInterval = 15 * time.Second

type UploadHandler struct {
	notifier *notifier.SSENotifier
}

func NewUploadHandler(n *notifier.SSENotifier) *UploadHandler {
	return &UploadHandler{notifier: n}
}

// Subscribe handles GET /api/v1/uploads/subscribe. The stream carries upload_progress
// events for every image the caller uploads from any tab.
func (h *UploadHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeUploads"})

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.notifier.AddClient(identity.UserID)
	defer h.notifier.RemoveClient(identity.UserID, clientChan)

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				logger.Warn("Error writing to client, closing SSE connection", port.Fields{"error": err.Error()})
				return
			}
			flusher.Flush()
		case <-ticker.C:
			// lines starting with a colon are SSE comments
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected.", nil)
			return
		}
	}
}
