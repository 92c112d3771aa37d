package model

import "time"

// ResearchGroup represents a research group that owns publications
type ResearchGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:nombre_grupo;type:varchar(255);not null" json:"nombre_grupo"`
	Description string    `gorm:"column:descripcion;type:text;not null" json:"descripcion"`

	// Relationships
	Publications []Publication `gorm:"foreignKey:ResearchGroupID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ResearchGroup) TableName() string { return "grupos_investigacion" }
