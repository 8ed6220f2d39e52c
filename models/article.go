package models

// Article is a sellable product record nested under exactly one Family.
// ShortCode is system generated unless the caller supplies one; every Article
// owns at least one Barcode from creation onward.
type Article struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ShortCode     string    `json:"short_code" gorm:"type:VARCHAR(6);uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"type:VARCHAR(250);not null"`
	Description   string    `json:"description"`
	FamilyID      uint      `json:"family_id" gorm:"not null;index"`
	Family        Family    `json:"-" gorm:"foreignKey:FamilyID;references:ID"`
	PurchasePrice float64   `json:"purchase_price" gorm:"type:numeric(12,2)"`
	SalePrice     float64   `json:"sale_price" gorm:"type:numeric(12,2)"`
	Unit          string    `json:"unit" gorm:"type:VARCHAR(20);not null"`
	TaxRate       float64   `json:"tax_rate" gorm:"default:0.18"`
	Barcodes      []Barcode `json:"barcodes" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
}
