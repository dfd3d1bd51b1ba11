package handler

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coopfin/backend/internal/application/confirmation"
)

// notificationBufferCap bounds the hub's memory; when full the oldest
// notification is dropped.
const notificationBufferCap = 256

// NotificationHub buffers terminal confirmation notifications until a
// back-office client fetches them. Each notification is delivered to at
// most one fetch: GET /notifications drains the buffer.
type NotificationHub struct {
	BaseHandler
	logger *zap.Logger

	mu     sync.Mutex
	buffer []confirmation.TerminalNotification
}

// NewNotificationHub creates a NotificationHub
func NewNotificationHub(logger *zap.Logger) *NotificationHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHub{logger: logger}
}

// Notify buffers a terminal notification for the next fetch
func (h *NotificationHub) Notify(_ context.Context, n confirmation.TerminalNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.buffer) >= notificationBufferCap {
		h.logger.Warn("Notification buffer full, dropping oldest",
			zap.String("dropped_handle", h.buffer[0].SessionHandle))
		h.buffer = h.buffer[1:]
	}
	h.buffer = append(h.buffer, n)
}

// Pending returns the number of buffered notifications
func (h *NotificationHub) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.buffer)
}

// drain removes and returns all buffered notifications
func (h *NotificationHub) drain() []confirmation.TerminalNotification {
	h.mu.Lock()
	defer h.mu.Unlock()
	drained := h.buffer
	h.buffer = nil
	return drained
}

// List handles GET /notifications. Fetching consumes the buffer, so each
// notification reaches exactly one client.
func (h *NotificationHub) List(c *gin.Context) {
	drained := h.drain()
	if drained == nil {
		drained = []confirmation.TerminalNotification{}
	}
	h.Success(c, drained)
}

// RegisterRoutes registers the notification routes
func (h *NotificationHub) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
}

var _ confirmation.Notifier = (*NotificationHub)(nil)
