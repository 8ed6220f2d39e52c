package models

// Family is a catalog grouping nested under exactly one Section.
type Family struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"type:VARCHAR(10);uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"type:VARCHAR(255);uniqueIndex;not null"`
	Description string    `json:"description"`
	SectionID   uint      `json:"section_id" gorm:"not null;index"`
	Section     Section   `json:"-" gorm:"foreignKey:SectionID;references:ID"`
	Articles    []Article `json:"-" gorm:"foreignKey:FamilyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
