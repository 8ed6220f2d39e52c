package controllers

import (
	"net/url"
	"strings"

	"catalog-backend/catalog"

	"github.com/gofiber/fiber/v2"
)

var coord *catalog.Coordinator

// Setup wires the shared integrity coordinator; main calls this once after
// the database connection is up.
func Setup(c *catalog.Coordinator) {
	coord = c
}

// pathName extracts and unescapes the :name path parameter.
func pathName(c *fiber.Ctx) (string, error) {
	raw := c.Params("name")
	name, err := url.QueryUnescape(raw)
	if err != nil {
		name = raw
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing name in path")
	}
	return name, nil
}
