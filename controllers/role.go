package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/services"
	"github.com/alexvillacis/instituciones-app/utils"
)

type RoleController struct {
	service *services.RoleService
}

func NewRoleController(service *services.RoleService) *RoleController {
	return &RoleController{service: service}
}

func (rc *RoleController) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The filter parameter must be valid JSON",
		})
	}
	relations := utils.ParseRelations(c.Query("relations"))
	if err := utils.ValidateRelations("role", relations); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return rc.service.FindAll(filter, relations).Send(c)
}

func (rc *RoleController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role id",
		})
	}
	return rc.service.FindByID(id).Send(c)
}

func (rc *RoleController) Create(c *fiber.Ctx) error {
	input := new(services.CreateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role name is required",
		})
	}
	return rc.service.Create(*input).Send(c)
}

func (rc *RoleController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role id",
		})
	}
	input := new(services.UpdateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return rc.service.Update(id, *input).Send(c)
}

func (rc *RoleController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role id",
		})
	}
	return rc.service.Delete(id).Send(c)
}

func (rc *RoleController) CreateBatch(c *fiber.Ctx) error {
	var inputs []services.CreateRoleInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return rc.service.CreateBatch(inputs).Send(c)
}

func (rc *RoleController) UpdateBatch(c *fiber.Ctx) error {
	var inputs []services.UpdateRoleInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return rc.service.UpdateBatch(inputs).Send(c)
}
