package controllers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseID reads the :id path parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseFilter decodes the JSON "filter" query parameter into the equality
// map the services pass to the store.
func parseFilter(c *fiber.Ctx) (map[string]interface{}, error) {
	raw := c.Query("filter")
	if raw == "" {
		return nil, nil
	}
	var filter map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, err
	}
	return filter, nil
}
