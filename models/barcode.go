package models

// Barcode is a 13-digit EAN-13 value attached to exactly one Article.
type Barcode struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Value     string `json:"value" gorm:"type:VARCHAR(13);uniqueIndex;not null"`
	ArticleID uint   `json:"article_id" gorm:"not null;index"`
}
