package controllers

import (
	"strconv"

	"catalog-backend/catalog"
	"catalog-backend/database"
	"catalog-backend/middlewares"
	"catalog-backend/models"
	"catalog-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type SectionCreateDTO struct {
	Name string `json:"name" validate:"required,min=1"`
}

type SectionUpdateDTO struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
}

// GET /api/sections
func GetSections(c *fiber.Ctx) error {
	var sections []models.Section
	if err := database.DB.Order("id").Find(&sections).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sections": sections})
}

// POST /api/sections
func CreateSection(c *fiber.Ctx) error {
	var in SectionCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	section, err := coord.CreateSection(catalog.SectionInput{Name: in.Name})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

// PUT /api/sections/:id
func UpdateSection(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid section id in path")
	}

	var in SectionUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	section, err := coord.UpdateSection(catalog.Ref{ID: uint(id)}, catalog.SectionUpdate{Name: in.Name})
	if err != nil {
		return err
	}
	return c.JSON(section)
}

// PUT /api/sections/by-name/:name
func UpdateSectionByName(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return err
	}

	var in SectionUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	section, err := coord.UpdateSection(catalog.Ref{Name: name}, catalog.SectionUpdate{Name: in.Name})
	if err != nil {
		return err
	}
	return c.JSON(section)
}

// DELETE /api/sections/:id
func DeleteSection(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid section id in path")
	}
	if err := coord.DeleteSection(catalog.Ref{ID: uint(id)}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "section deleted"})
}

// DELETE /api/sections/by-name/:name
func DeleteSectionByName(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return err
	}
	if err := coord.DeleteSection(catalog.Ref{Name: name}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
