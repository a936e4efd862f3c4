package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/services"
	"github.com/alexvillacis/instituciones-app/utils"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (uc *UserController) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The filter parameter must be valid JSON",
		})
	}
	relations := utils.ParseRelations(c.Query("relations"))
	if err := utils.ValidateRelations("user", relations); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return uc.service.FindAll(filter, relations).Send(c)
}

func (uc *UserController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	return uc.service.FindByID(id).Send(c)
}

func (uc *UserController) Create(c *fiber.Ctx) error {
	input := new(services.CreateUserInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Email == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}
	return uc.service.Create(*input).Send(c)
}

func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	input := new(services.UpdateUserInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return uc.service.Update(id, *input).Send(c)
}

func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	return uc.service.Delete(id).Send(c)
}

func (uc *UserController) CreateBatch(c *fiber.Ctx) error {
	var inputs []services.CreateUserInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return uc.service.CreateBatch(inputs).Send(c)
}

func (uc *UserController) UpdateBatch(c *fiber.Ctx) error {
	var inputs []services.UpdateUserInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	return uc.service.UpdateBatch(inputs).Send(c)
}
