package notifier

import (
	"encoding/json"
	"fmt"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

const (
	EventUploadProgress = "upload_progress"

	eventBuffer  = 256
	clientBuffer = 64
)

// ClientChannel receives formatted SSE messages for one open connection.
type ClientChannel chan []byte

type progressEvent struct {
	userID   uuid.UUID
	progress domain.UploadProgress
}

// SSENotifier fans upload progress out to every open stream of the uploading user.
type SSENotifier struct {
	// one user may have several tabs open
	clients map[uuid.UUID][]ClientChannel
	mu      sync.RWMutex

	events chan progressEvent
	done   chan struct{}
	once   sync.Once

	logger port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients: make(map[uuid.UUID][]ClientChannel),
		events:  make(chan progressEvent, eventBuffer),
		done:    make(chan struct{}),
		logger:  baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	go n.dispatcher()
	return n
}

func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {
		select {
		case <-n.done:
			return
		case ev := <-n.events:
			n.dispatch(ev)
		}
	}
}

func (n *SSENotifier) dispatch(ev progressEvent) {
	payload, err := json.Marshal(progressPayload{
		Filename:         ev.progress.Filename,
		BytesTransferred: ev.progress.BytesTransferred,
		TotalBytes:       ev.progress.TotalBytes,
		Percent:          ev.progress.Percent(),
		Done:             ev.progress.Done,
	})
	if err != nil {
		n.logger.Error("Failed to marshal progress", err, nil)
		return
	}
	message := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", EventUploadProgress, payload))

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.clients[ev.userID] {
		select {
		case ch <- message:
		default:
			n.logger.Warn("Client channel is full, skipping.", port.Fields{"user_id": ev.userID.String()})
		}
	}
}

type progressPayload struct {
	Filename         string  `json:"filename"`
	BytesTransferred int64   `json:"bytesTransferred"`
	TotalBytes       int64   `json:"totalBytes"`
	Percent          float64 `json:"percent"`
	Done             bool    `json:"done"`
}

// NotifyProgress never blocks the upload. Reports are dropped when the buffer is full
// or the notifier is closed.
func (n *SSENotifier) NotifyProgress(userID uuid.UUID, progress domain.UploadProgress) {
	select {
	case <-n.done:
		return
	default:
	}
	select {
	case n.events <- progressEvent{userID: userID, progress: progress}:
	default:
		n.logger.Warn("Notifier buffer is full, progress dropped.", port.Fields{"user_id": userID.String()})
	}
}

// AddClient registers a new SSE connection.
func (n *SSENotifier) AddClient(userID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBuffer)
	n.clients[userID] = append(n.clients[userID], ch)
	n.logger.Info("Client connected for user", port.Fields{
		"user_id":     userID.String(),
		"connections": len(n.clients[userID]),
	})
	return ch
}

// RemoveClient forgets a closed connection.
func (n *SSENotifier) RemoveClient(userID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.clients[userID]
	kept := channels[:0]
	for _, c := range channels {
		if c != ch {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(n.clients, userID)
		n.logger.Debug("Last client disconnected for user.", port.Fields{"user_id": userID.String()})
		return
	}
	n.clients[userID] = kept
}

// Close stops the dispatcher. Open streams end when their requests do.
func (n *SSENotifier) Close() {
	n.once.Do(func() { close(n.done) })
}
