package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/services"
	"github.com/alexvillacis/instituciones-app/utils"
)

type PermisoController struct {
	service *services.PermissionService
	routes  []services.RouteEntry
}

func NewPermisoController(service *services.PermissionService, routes []services.RouteEntry) *PermisoController {
	return &PermisoController{service: service, routes: routes}
}

// Init re-runs the permission bootstrap on demand.
func (pc *PermisoController) Init(c *fiber.Ctx) error {
	if err := pc.service.Seed(pc.routes); err != nil {
		return utils.Response(500, "ERROR", nil, err.Error()).Send(c)
	}
	return utils.Response(200, "Permissions initialized.", nil, nil).Send(c)
}

// List returns permissions filtered, paginated and with requested relations.
func (pc *PermisoController) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The filter parameter must be valid JSON",
		})
	}
	relations := utils.ParseRelations(c.Query("relations"))
	if err := utils.ValidateRelations("permission", relations); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	return pc.service.FindAll(filter, relations, page, limit).Send(c)
}

func (pc *PermisoController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid permission id",
		})
	}
	return pc.service.FindByID(id).Send(c)
}

func (pc *PermisoController) Create(c *fiber.Ctx) error {
	input := new(services.CreatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Name == "" || input.Method == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and method are required",
		})
	}
	return pc.service.Create(*input).Send(c)
}

func (pc *PermisoController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid permission id",
		})
	}
	input := new(services.UpdatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return pc.service.Update(id, *input).Send(c)
}

func (pc *PermisoController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid permission id",
		})
	}
	return pc.service.Delete(id).Send(c)
}

func (pc *PermisoController) CreateBatch(c *fiber.Ctx) error {
	var inputs []services.CreatePermissionInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return pc.service.CreateBatch(inputs).Send(c)
}

func (pc *PermisoController) UpdateBatch(c *fiber.Ctx) error {
	var inputs []services.UpdatePermissionInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return pc.service.UpdateBatch(inputs).Send(c)
}
