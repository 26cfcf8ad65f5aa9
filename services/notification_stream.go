// services/notification_stream.go
package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"sports-picks-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamNotificationsSSE streams the authenticated user's notifications and
// global broadcast events (ring changes) in real time.
func (s *SocialService) StreamNotificationsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// fasthttp stream writer replaces Flush
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastNotifAt, lastEventAt time.Time

		// Initialize cursors at the newest existing rows
		var latestNotif models.Notification
		if err := s.DB.Where("user_id = ?", userID).
			Order("created_at DESC").
			First(&latestNotif).Error; err == nil {
			lastNotifAt = latestNotif.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userID, err)
		}
		var latestEvent models.BroadcastEvent
		if err := s.DB.Order("created_at DESC").First(&latestEvent).Error; err == nil {
			lastEventAt = latestEvent.CreatedAt
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var notifications []models.Notification
				if err := s.DB.
					Where("user_id = ? AND created_at > ?", userID, lastNotifAt).
					Order("created_at ASC").
					Find(&notifications).Error; err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}

				var events []models.BroadcastEvent
				if err := s.DB.
					Where("created_at > ?", lastEventAt).
					Order("created_at ASC").
					Find(&events).Error; err != nil {
					log.Printf("SSE broadcast query error: %v", err)
					continue
				}

				if len(notifications) == 0 && len(events) == 0 {
					continue
				}

				if len(notifications) > 0 {
					lastNotifAt = notifications[len(notifications)-1].CreatedAt
				}
				if len(events) > 0 {
					lastEventAt = events[len(events)-1].CreatedAt
				}

				for _, n := range notifications {
					payload, _ := json.Marshal(n)
					fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
				}
				for _, e := range events {
					fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, e.Payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
