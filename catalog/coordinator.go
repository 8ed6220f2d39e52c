package catalog

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"catalog-backend/models"

	"gorm.io/gorm"
)

// DefaultTaxRate applies to articles created without an explicit rate.
const DefaultTaxRate = 0.18

// Coordinator sequences code generation and reference validation into atomic
// mutation units over the storage handle. Each mutation runs in its own
// transaction: commit-all-or-rollback-all, nothing is cached across calls.
type Coordinator struct {
	db          *gorm.DB
	maxAttempts int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

type Option func(*Coordinator)

// WithRand injects the random source used for short codes and barcodes.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// WithMaxAttempts bounds the generation retry loops; n <= 0 retries forever.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) { c.maxAttempts = n }
}

func New(db *gorm.DB, opts ...Option) *Coordinator {
	c := &Coordinator{
		db:          db,
		maxAttempts: DefaultMaxAttempts,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) generate(gen func(*rand.Rand, ExistsFunc, int) (string, error), exists ExistsFunc) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen(c.rng, exists, c.maxAttempts)
}

// ---- Sections

type SectionInput struct {
	Name string
}

type SectionUpdate struct {
	Name *string
}

func (c *Coordinator) CreateSection(in SectionInput) (*models.Section, error) {
	name := strings.TrimSpace(in.Name)
	code, err := DeriveSectionCode(name)
	if err != nil {
		return nil, err
	}

	section := models.Section{Code: code, Name: name}
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := assertAvailable(tx, &models.Section{}, "section", "code", code); err != nil {
			return err
		}
		if err := assertAvailable(tx, &models.Section{}, "section", "name", name); err != nil {
			return err
		}
		return translateStorageErr(tx.Create(&section).Error, "section", name)
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// UpdateSection applies a sparse update. A new name recomputes the code so
// name and code never drift apart; an absent name leaves both untouched.
func (c *Coordinator) UpdateSection(ref Ref, upd SectionUpdate) (*models.Section, error) {
	var out models.Section
	err := c.db.Transaction(func(tx *gorm.DB) error {
		section, err := SectionByRef(tx, ref)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			code, err := DeriveSectionCode(name)
			if err != nil {
				return err
			}
			err = tx.Model(section).Updates(map[string]any{"name": name, "code": code}).Error
			if err != nil {
				return translateStorageErr(err, "section", name)
			}
		}
		return tx.First(&out, section.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSection refuses while dependent families exist, so no family is ever
// left pointing at a missing section.
func (c *Coordinator) DeleteSection(ref Ref) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		section, err := SectionByRef(tx, ref)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Family{}).Where("section_id = ?", section.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Entity: "section", Reason: "families still reference this section"}
		}
		return translateStorageErr(tx.Delete(section).Error, "section", ref.String())
	})
}

// ---- Families

type FamilyInput struct {
	Name        string
	Description string
	Section     Ref
}

type FamilyUpdate struct {
	Name        *string
	Description *string
	Section     *Ref
}

func (c *Coordinator) CreateFamily(in FamilyInput) (*models.Family, error) {
	name := strings.TrimSpace(in.Name)
	code, err := DeriveFamilyCode(name)
	if err != nil {
		return nil, err
	}

	var family models.Family
	err = c.db.Transaction(func(tx *gorm.DB) error {
		section, err := SectionByRef(tx, in.Section)
		if err != nil {
			return err
		}
		if err := assertAvailable(tx, &models.Family{}, "family", "code", code); err != nil {
			return err
		}
		if err := assertAvailable(tx, &models.Family{}, "family", "name", name); err != nil {
			return err
		}
		family = models.Family{
			Code:        code,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			SectionID:   section.ID,
		}
		return translateStorageErr(tx.Create(&family).Error, "family", name)
	})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// UpdateFamily applies a sparse update: a new name rewrites name and code
// together (the stricter 4-character rule applies), a new section reference
// is re-resolved and must exist, absent fields stay untouched.
func (c *Coordinator) UpdateFamily(ref Ref, upd FamilyUpdate) (*models.Family, error) {
	var out models.Family
	err := c.db.Transaction(func(tx *gorm.DB) error {
		family, err := FamilyByRef(tx, ref)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			code, err := DeriveFamilyCode(name)
			if err != nil {
				return err
			}
			updates["name"] = name
			updates["code"] = code
		}
		if upd.Description != nil {
			updates["description"] = strings.TrimSpace(*upd.Description)
		}
		if upd.Section != nil {
			section, err := SectionByRef(tx, *upd.Section)
			if err != nil {
				return err
			}
			updates["section_id"] = section.ID
		}

		if len(updates) > 0 {
			if err := tx.Model(family).Updates(updates).Error; err != nil {
				return translateStorageErr(err, "family", ref.String())
			}
		}
		return tx.First(&out, family.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFamily refuses while dependent articles exist rather than cascading;
// an unconditional delete would orphan articles.
func (c *Coordinator) DeleteFamily(ref Ref) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		family, err := FamilyByRef(tx, ref)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Article{}).Where("family_id = ?", family.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Entity: "family", Reason: "articles still reference this family"}
		}
		return translateStorageErr(tx.Delete(family).Error, "family", ref.String())
	})
}

// ---- Articles

type ArticleInput struct {
	ShortCode     string // optional; generated when empty
	Name          string
	Description   string
	Family        Ref
	PurchasePrice float64
	SalePrice     float64
	Unit          string
	TaxRate       *float64 // DefaultTaxRate when nil
	Barcodes      []string
}

type ArticleUpdate struct {
	Name          *string
	Description   *string
	Family        *Ref
	PurchasePrice *float64
	SalePrice     *float64
	Unit          *string
	TaxRate       *float64
}

func validateArticleFields(name, unit string, purchase, sale, tax float64) error {
	if name == "" {
		return invalidf("article name is required")
	}
	if unit == "" {
		return invalidf("article unit of measure is required")
	}
	if purchase < 0 {
		return invalidf("purchase price must not be negative")
	}
	if sale < 0 {
		return invalidf("sale price must not be negative")
	}
	if tax < 0 || tax > 1 {
		return invalidf("tax rate must be between 0 and 1")
	}
	return nil
}

// CreateArticle persists an article together with its barcodes as one unit.
// If the article write succeeds but a barcode write fails, the whole
// transaction rolls back: no article ever exists without a barcode.
func (c *Coordinator) CreateArticle(in ArticleInput) (*models.Article, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	tax := DefaultTaxRate
	if in.TaxRate != nil {
		tax = *in.TaxRate
	}
	if err := validateArticleFields(name, unit, in.PurchasePrice, in.SalePrice, tax); err != nil {
		return nil, err
	}

	var created uint
	err := c.db.Transaction(func(tx *gorm.DB) error {
		family, err := FamilyByRef(tx, in.Family)
		if err != nil {
			return err
		}

		shortCode := strings.TrimSpace(in.ShortCode)
		if shortCode != "" {
			if len(shortCode) > ShortCodeLen {
				return invalidf("short code must have at most %d characters", ShortCodeLen)
			}
			if err := assertAvailable(tx, &models.Article{}, "article", "short_code", shortCode); err != nil {
				return err
			}
		} else {
			shortCode, err = c.generate(GenerateShortCode, func(code string) (bool, error) {
				var n int64
				err := tx.Model(&models.Article{}).Where("short_code = ?", code).Count(&n).Error
				return n > 0, err
			})
			if err != nil {
				return err
			}
		}

		article := models.Article{
			ShortCode:     shortCode,
			Name:          name,
			Description:   strings.TrimSpace(in.Description),
			FamilyID:      family.ID,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			Unit:          unit,
			TaxRate:       tax,
		}
		if err := tx.Create(&article).Error; err != nil {
			return translateStorageErr(err, "article", name)
		}

		if len(in.Barcodes) > 0 {
			for _, raw := range in.Barcodes {
				value := strings.TrimSpace(raw)
				if err := ValidateBarcode(value); err != nil {
					return err
				}
				if err := assertAvailable(tx, &models.Barcode{}, "barcode", "value", value); err != nil {
					return err
				}
				barcode := models.Barcode{Value: value, ArticleID: article.ID}
				if err := tx.Create(&barcode).Error; err != nil {
					return translateStorageErr(err, "barcode", value)
				}
			}
		} else {
			value, err := c.generate(GenerateBarcode, func(v string) (bool, error) {
				var n int64
				err := tx.Model(&models.Barcode{}).Where("value = ?", v).Count(&n).Error
				return n > 0, err
			})
			if err != nil {
				return err
			}
			barcode := models.Barcode{Value: value, ArticleID: article.ID}
			if err := tx.Create(&barcode).Error; err != nil {
				return translateStorageErr(err, "barcode", value)
			}
		}

		created = article.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ArticleByID(c.db, created)
}

// UpdateArticle applies a sparse update; a family reference change is
// re-resolved and validated exactly as on create.
func (c *Coordinator) UpdateArticle(id uint, upd ArticleUpdate) (*models.Article, error) {
	err := c.db.Transaction(func(tx *gorm.DB) error {
		article, err := ArticleByID(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return invalidf("article name must not be empty")
			}
			updates["name"] = name
		}
		if upd.Description != nil {
			updates["description"] = strings.TrimSpace(*upd.Description)
		}
		if upd.Family != nil {
			family, err := FamilyByRef(tx, *upd.Family)
			if err != nil {
				return err
			}
			updates["family_id"] = family.ID
		}
		if upd.PurchasePrice != nil {
			if *upd.PurchasePrice < 0 {
				return invalidf("purchase price must not be negative")
			}
			updates["purchase_price"] = *upd.PurchasePrice
		}
		if upd.SalePrice != nil {
			if *upd.SalePrice < 0 {
				return invalidf("sale price must not be negative")
			}
			updates["sale_price"] = *upd.SalePrice
		}
		if upd.Unit != nil {
			unit := strings.TrimSpace(*upd.Unit)
			if unit == "" {
				return invalidf("article unit of measure must not be empty")
			}
			updates["unit"] = unit
		}
		if upd.TaxRate != nil {
			if *upd.TaxRate < 0 || *upd.TaxRate > 1 {
				return invalidf("tax rate must be between 0 and 1")
			}
			updates["tax_rate"] = *upd.TaxRate
		}

		if len(updates) > 0 {
			if err := tx.Model(article).Updates(updates).Error; err != nil {
				return translateStorageErr(err, "article", article.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ArticleByID(c.db, id)
}

// DeleteArticle removes the article and all of its barcodes in one unit;
// barcodes never outlive their article.
func (c *Coordinator) DeleteArticle(id uint) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		article, err := ArticleByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Barcode{}).Error; err != nil {
			return err
		}
		return translateStorageErr(tx.Delete(&models.Article{}, article.ID).Error, "article", article.Name)
	})
}
