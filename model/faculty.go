package model

import (
	"time"
)

// Faculty represents an academic division of the institution
type Faculty struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:nombre_facultad;type:varchar(255);not null" json:"nombre_facultad"`

	// Relationships
	Programs []Program `gorm:"foreignKey:FacultyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Faculty) TableName() string { return "facultades" }

// Program represents an academic program offered by exactly one faculty
type Program struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:program_name;type:varchar(255);not null" json:"program_name"`
	FacultyID uint      `gorm:"column:facultad_id;not null;index" json:"facultad"`

	// Relationships
	Faculty *Faculty `gorm:"foreignKey:FacultyID;constraint:OnDelete:CASCADE" json:"-"`
	Users   []User   `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Program) TableName() string { return "programas" }
