package utils

import (
	"github.com/gofiber/fiber/v2"
)

// APIResponse is the uniform service envelope: expected business outcomes
// (not found, conflict) are carried here rather than raised as errors, so
// handlers just forward whatever the service decided.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

func Response(status int, message string, data, err interface{}) *APIResponse {
	return &APIResponse{Status: status, Message: message, Data: data, Error: err}
}

// Send writes the envelope with its own status code.
func (r *APIResponse) Send(c *fiber.Ctx) error {
	return c.Status(r.Status).JSON(r)
}
