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

type FamilyCreateDTO struct {
	Name        string `json:"name" validate:"required,min=4"`
	Description string `json:"description" validate:"omitempty"`
	SectionID   uint   `json:"section_id" validate:"omitempty"`
	SectionName string `json:"section_name" validate:"omitempty"`
}

type FamilyUpdateDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=4"`
	Description *string `json:"description" validate:"omitempty"`
	SectionID   *uint   `json:"section_id" validate:"omitempty"`
	SectionName *string `json:"section_name" validate:"omitempty"`
}

// GET /api/families
func GetFamilies(c *fiber.Ctx) error {
	var families []models.Family
	if err := database.DB.Order("id").Find(&families).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"families": families})
}

// POST /api/families
func CreateFamily(c *fiber.Ctx) error {
	var in FamilyCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	family, err := coord.CreateFamily(catalog.FamilyInput{
		Name:        in.Name,
		Description: in.Description,
		Section:     catalog.Ref{ID: in.SectionID, Name: in.SectionName},
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(family)
}

func familyUpdateFromDTO(in FamilyUpdateDTO) catalog.FamilyUpdate {
	upd := catalog.FamilyUpdate{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.SectionID != nil || in.SectionName != nil {
		ref := catalog.Ref{}
		if in.SectionID != nil {
			ref.ID = *in.SectionID
		}
		if in.SectionName != nil {
			ref.Name = *in.SectionName
		}
		upd.Section = &ref
	}
	return upd
}

// PUT /api/families/:id
func UpdateFamily(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid family id in path")
	}

	var in FamilyUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	family, err := coord.UpdateFamily(catalog.Ref{ID: uint(id)}, familyUpdateFromDTO(in))
	if err != nil {
		return err
	}
	return c.JSON(family)
}

// PUT /api/families/by-name/:name
func UpdateFamilyByName(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return err
	}

	var in FamilyUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	family, err := coord.UpdateFamily(catalog.Ref{Name: name}, familyUpdateFromDTO(in))
	if err != nil {
		return err
	}
	return c.JSON(family)
}

// DELETE /api/families/:id
func DeleteFamily(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid family id in path")
	}
	if err := coord.DeleteFamily(catalog.Ref{ID: uint(id)}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "family deleted"})
}

// DELETE /api/families/by-name/:name
func DeleteFamilyByName(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return err
	}
	if err := coord.DeleteFamily(catalog.Ref{Name: name}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
