package catalog

import (
	"errors"
	"fmt"
	"strings"

	"catalog-backend/models"

	"gorm.io/gorm"
)

// Ref addresses a Section or Family either by surrogate id or by unique name.
// When both are set the id wins.
type Ref struct {
	ID   uint
	Name string
}

func (r Ref) IsZero() bool { return r.ID == 0 && strings.TrimSpace(r.Name) == "" }

func (r Ref) String() string {
	if r.ID != 0 {
		return fmt.Sprintf("#%d", r.ID)
	}
	return r.Name
}

// Resolution is a pure read: a miss always comes back as a typed
// NotFoundError, never as a nil entity.

func SectionByRef(db *gorm.DB, ref Ref) (*models.Section, error) {
	if ref.IsZero() {
		return nil, invalidf("section reference is required")
	}
	var section models.Section
	q := db
	if ref.ID != 0 {
		q = q.Where("id = ?", ref.ID)
	} else {
		q = q.Where("name = ?", strings.TrimSpace(ref.Name))
	}
	if err := q.First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "section", Key: ref.String()}
		}
		return nil, err
	}
	return &section, nil
}

func FamilyByRef(db *gorm.DB, ref Ref) (*models.Family, error) {
	if ref.IsZero() {
		return nil, invalidf("family reference is required")
	}
	var family models.Family
	q := db
	if ref.ID != 0 {
		q = q.Where("id = ?", ref.ID)
	} else {
		q = q.Where("name = ?", strings.TrimSpace(ref.Name))
	}
	if err := q.First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "family", Key: ref.String()}
		}
		return nil, err
	}
	return &family, nil
}

func ArticleByID(db *gorm.DB, id uint) (*models.Article, error) {
	var article models.Article
	if err := db.Preload("Barcodes").First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "article", Key: fmt.Sprintf("#%d", id)}
		}
		return nil, err
	}
	return &article, nil
}

// ArticleByBarcode finds the article owning the given barcode value.
func ArticleByBarcode(db *gorm.DB, value string) (*models.Article, error) {
	var barcode models.Barcode
	if err := db.First(&barcode, "value = ?", strings.TrimSpace(value)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "article", Key: value}
		}
		return nil, err
	}
	return ArticleByID(db, barcode.ArticleID)
}

// SearchArticlesByName lists articles whose name contains the given fragment,
// in insertion order.
func SearchArticlesByName(db *gorm.DB, fragment string) ([]models.Article, error) {
	var articles []models.Article
	pattern := "%" + strings.TrimSpace(fragment) + "%"
	err := db.Preload("Barcodes").
		Where("LOWER(name) LIKE LOWER(?)", pattern).
		Order("id").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// assertAvailable fails with ConflictError when column=value is already taken
// in the given collection. Best-effort pre-check; the unique index is the
// final arbiter.
func assertAvailable(db *gorm.DB, model any, entity, column, value string) error {
	var n int64
	if err := db.Model(model).Where(column+" = ?", value).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &ConflictError{Entity: entity, Reason: fmt.Sprintf("%s %q already exists", column, value)}
	}
	return nil
}
