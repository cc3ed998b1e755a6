package handlers

import (
	"playbox/internal/notify"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	center *notify.Center
}

func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// GetNotifications returns the toast stack and drains queued tone requests.
// Signals are consumed by the poll; toasts stay until dismissed or expired.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	c.JSON(200, gin.H{
		"notices": h.center.Notices(),
		"signals": h.center.DrainSignals(),
	})
}

// Dismiss removes a notice; dismissing an unknown id is fine
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.center.Dismiss(c.Param("id"))
	c.JSON(200, gin.H{"message": "Dismissed"})
}

// Action runs a notice's action (e.g. Undo), then dismisses it
func (h *NotificationHandler) Action(c *gin.Context) {
	if !h.center.Action(c.Param("id")) {
		c.JSON(404, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(200, gin.H{"message": "Action applied"})
}
