package controllers

import (
	"bufio"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/alexvillacis/instituciones-app/services"
)

type EventsController struct {
	client *redis.Client
}

func NewEventsController(client *redis.Client) *EventsController {
	return &EventsController{client: client}
}

// Stream pushes the authenticated user's permission-change events to the
// client over server-sent events. The subscription lives as long as the
// connection; dropping the connection drops the subscription.
func (ec *EventsController) Stream(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	sub := ec.client.Subscribe(context.Background(), services.UserChannel(userID))

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		for msg := range sub.Channel() {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg.Payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
