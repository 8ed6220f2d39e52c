package models

// Section is a top-level catalog grouping (e.g. "Electronics").
type Section struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Code     string   `json:"code" gorm:"type:VARCHAR(10);uniqueIndex;not null"`
	Name     string   `json:"name" gorm:"type:VARCHAR(255);uniqueIndex;not null"`
	Families []Family `json:"-" gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
