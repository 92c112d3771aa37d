package model

import (
	"time"

	"gorm.io/datatypes"
)

// PublicationType classifies publications (article, thesis, book chapter...)
type PublicationType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:nombre_tipo;type:varchar(100);not null" json:"nombre_tipo"`
	Description string    `gorm:"column:descripcion;type:text;not null" json:"descripcion"`

	// Relationships
	Publications []Publication `gorm:"foreignKey:PublicationTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PublicationType) TableName() string { return "tipos_publicacion" }

// Keyword is a free-text tag attached to publications
type Keyword struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Word      string    `gorm:"column:palabra;type:varchar(100);not null" json:"palabra"`

	// Relationships
	Links []PublicationKeyword `gorm:"foreignKey:KeywordID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Keyword) TableName() string { return "palabras_clave" }

// Publication represents a research output authored by a user within a research group
type Publication struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Title             string         `gorm:"column:titulo;type:varchar(255);not null" json:"titulo"`
	Summary           string         `gorm:"column:resumen;type:text;not null" json:"resumen"`
	PublishedOn       datatypes.Date `gorm:"column:fecha_publicacion;not null" json:"fecha_publicacion"`
	DocumentKey       *string        `gorm:"column:archivo_pdf_key;type:varchar(500)" json:"-"`        // Object storage key
	DocumentURL       *string        `gorm:"column:archivo_pdf;type:text" json:"archivo_pdf"`          // Public URL of the PDF
	ResearchGroupID   uint           `gorm:"column:grupo_investigacion_id;not null;index" json:"grupo_investigacion"`
	UserID            uint           `gorm:"column:usuario_id;not null;index" json:"usuario"`
	PublicationTypeID *uint          `gorm:"column:tipo_publicacion_id;index" json:"tipos_publicacion"`

	// Relationships
	ResearchGroup   *ResearchGroup       `gorm:"foreignKey:ResearchGroupID;constraint:OnDelete:CASCADE" json:"-"`
	User            *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PublicationType *PublicationType     `gorm:"foreignKey:PublicationTypeID;constraint:OnDelete:CASCADE" json:"-"`
	Links           []PublicationKeyword `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Publication) TableName() string { return "publicaciones" }

// PublicationKeyword is the join row between a publication and a keyword
type PublicationKeyword struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	PublicationID uint `gorm:"column:publicacion_id;not null;uniqueIndex:idx_publicacion_palabra" json:"publicacion"`
	KeywordID     uint `gorm:"column:palabra_clave_id;not null;uniqueIndex:idx_publicacion_palabra" json:"palabra_clave"`

	// Relationships
	Publication *Publication `gorm:"foreignKey:PublicationID;constraint:OnDelete:CASCADE" json:"-"`
	Keyword     *Keyword     `gorm:"foreignKey:KeywordID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PublicationKeyword) TableName() string { return "publicaciones_palabras_clave" }
