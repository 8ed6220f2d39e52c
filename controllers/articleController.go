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

type ArticleCreateDTO struct {
	ShortCode     string   `json:"short_code" validate:"omitempty,max=6"`
	Name          string   `json:"name" validate:"required,min=1"`
	Description   string   `json:"description" validate:"omitempty"`
	FamilyID      uint     `json:"family_id" validate:"omitempty"`
	FamilyName    string   `json:"family_name" validate:"omitempty"`
	PurchasePrice float64  `json:"purchase_price" validate:"gte=0"`
	SalePrice     float64  `json:"sale_price" validate:"gte=0"`
	Unit          string   `json:"unit" validate:"required,min=1"`
	TaxRate       *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=1"`
	Barcodes      []string `json:"barcodes" validate:"omitempty,dive,len=13,numeric"`
}

type ArticleUpdateDTO struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`
	Description   *string  `json:"description" validate:"omitempty"`
	FamilyID      *uint    `json:"family_id" validate:"omitempty"`
	FamilyName    *string  `json:"family_name" validate:"omitempty"`
	PurchasePrice *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	SalePrice     *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	Unit          *string  `json:"unit" validate:"omitempty,min=1"`
	TaxRate       *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=1"`
}

// GET /api/articles?offset=&limit=
func GetArticles(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var articles []models.Article
	err := database.DB.Preload("Barcodes").
		Order("id").Offset(offset).Limit(limit).
		Find(&articles).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// GET /api/articles/barcode/:value
func GetArticleByBarcode(c *fiber.Ctx) error {
	value := c.Params("value")
	if value == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing barcode value in path")
	}
	article, err := catalog.ArticleByBarcode(database.DB, value)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

// GET /api/articles/name/:name
func SearchArticles(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return err
	}
	articles, err := catalog.SearchArticlesByName(database.DB, name)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no articles match")
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// POST /api/articles
func CreateArticle(c *fiber.Ctx) error {
	var in ArticleCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	article, err := coord.CreateArticle(catalog.ArticleInput{
		ShortCode:     in.ShortCode,
		Name:          in.Name,
		Description:   in.Description,
		Family:        catalog.Ref{ID: in.FamilyID, Name: in.FamilyName},
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Unit:          in.Unit,
		TaxRate:       in.TaxRate,
		Barcodes:      in.Barcodes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// PUT /api/articles/:id
func UpdateArticle(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid article id in path")
	}

	var in ArticleUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	upd := catalog.ArticleUpdate{
		Name:          in.Name,
		Description:   in.Description,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Unit:          in.Unit,
		TaxRate:       in.TaxRate,
	}
	if in.FamilyID != nil || in.FamilyName != nil {
		ref := catalog.Ref{}
		if in.FamilyID != nil {
			ref.ID = *in.FamilyID
		}
		if in.FamilyName != nil {
			ref.Name = *in.FamilyName
		}
		upd.Family = &ref
	}

	article, err := coord.UpdateArticle(uint(id), upd)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

// DELETE /api/articles/:id
func DeleteArticle(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid article id in path")
	}
	if err := coord.DeleteArticle(uint(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "article deleted"})
}
