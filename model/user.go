package model

import (
	"time"
)

// UserType tags users with a role such as student, teacher or researcher
type UserType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`

	// Relationships
	Links []UserUserType `gorm:"foreignKey:UserTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserType) TableName() string { return "tipos_usuario" }

// User represents a member of the institution, optionally enrolled in a program
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FirstName string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	LastName  string    `gorm:"column:last_name;type:varchar(100);not null" json:"lastName"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	ProgramID *uint     `gorm:"column:program_id;index" json:"program"`

	// Relationships
	Program      *Program       `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
	Links        []UserUserType `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Publications []Publication  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "usuarios" }

// UserUserType is the join row between a user and one of its user types
type UserUserType struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"column:usuario_id;not null;uniqueIndex:idx_usuario_tipo" json:"usuario"`
	UserTypeID uint `gorm:"column:tipo_usuario_id;not null;uniqueIndex:idx_usuario_tipo" json:"tipo_usuario"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	UserType *UserType `gorm:"foreignKey:UserTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserUserType) TableName() string { return "usuarios_tipos_usuario" }
