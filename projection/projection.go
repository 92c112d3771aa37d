// Package projection turns stored rows into the JSON documents served by the API.
//
// Every function here is pure: callers load the related rows and pass them in.
// Documents that reference another entity carry both the raw identifier (so the
// document can be written back) and a nested document built by that entity's own
// projection function. Missing optional references project to null.
package projection

import (
	"time"

	"github.com/sahilchouksey/pandiu-api/model"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

type FacultyDocument struct {
	ID   uint   `json:"id"`
	Name string `json:"nombre_facultad"`
}

type ProgramDocument struct {
	ID        uint             `json:"id"`
	Name      string           `json:"program_name"`
	FacultyID uint             `json:"facultad"`
	Faculty   *FacultyDocument `json:"facultad_nombre"`
}

// ProgramSummary is the short program form nested inside user documents
type ProgramSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"program_name"`
}

type ResearchGroupDocument struct {
	ID          uint   `json:"id"`
	Name        string `json:"nombre_grupo"`
	Description string `json:"descripcion"`
}

type PublicationTypeDocument struct {
	ID          uint   `json:"id"`
	Name        string `json:"nombre_tipo"`
	Description string `json:"descripcion"`
}

type KeywordDocument struct {
	ID   uint   `json:"id"`
	Word string `json:"palabra"`
}

type UserTypeDocument struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserDocument struct {
	ID        uint               `json:"id"`
	FirstName string             `json:"name"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	ProgramID *uint              `json:"program"`
	Program   *ProgramSummary    `json:"name_program"`
	UserTypes []UserTypeDocument `json:"tipos_usuario"`
}

type UserTypeLinkDocument struct {
	ID       uint              `json:"id"`
	UserID   uint              `json:"usuario"`
	UserType *UserTypeDocument `json:"tipo_usuario"`
}

type PublicationDocument struct {
	ID                uint                     `json:"id"`
	Title             string                   `json:"titulo"`
	Summary           string                   `json:"resumen"`
	PublishedOn       string                   `json:"fecha_publicacion"`
	DocumentURL       *string                  `json:"archivo_pdf"`
	PublicationTypeID *uint                    `json:"tipos_publicacion"`
	PublicationType   *PublicationTypeDocument `json:"tipos_publicacion_info"`
	KeywordIDs        []uint                   `json:"palabras_clave"`
	Keywords          []KeywordDocument        `json:"palabras_clave_info"`
	ResearchGroupID   uint                     `json:"grupo_investigacion"`
	ResearchGroup     *ResearchGroupDocument   `json:"grupo_investigacion_info"`
	UserID            uint                     `json:"usuario"`
	User              *UserDocument            `json:"usuario_info"`
}

func Faculty(f model.Faculty) FacultyDocument {
	return FacultyDocument{ID: f.ID, Name: f.Name}
}

// Program projects p; faculty may be nil when it is no longer stored
func Program(p model.Program, faculty *model.Faculty) ProgramDocument {
	doc := ProgramDocument{ID: p.ID, Name: p.Name, FacultyID: p.FacultyID}
	if faculty != nil {
		nested := Faculty(*faculty)
		doc.Faculty = &nested
	}
	return doc
}

func ResearchGroup(g model.ResearchGroup) ResearchGroupDocument {
	return ResearchGroupDocument{ID: g.ID, Name: g.Name, Description: g.Description}
}

func PublicationType(t model.PublicationType) PublicationTypeDocument {
	return PublicationTypeDocument{ID: t.ID, Name: t.Name, Description: t.Description}
}

func Keyword(k model.Keyword) KeywordDocument {
	return KeywordDocument{ID: k.ID, Word: k.Word}
}

func UserType(t model.UserType) UserTypeDocument {
	return UserTypeDocument{ID: t.ID, Name: t.Name}
}

// User projects u with its optional program and its user types.
// A nil program yields null program fields instead of failing.
func User(u model.User, program *model.Program, types []model.UserType) UserDocument {
	doc := UserDocument{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		ProgramID: u.ProgramID,
		UserTypes: make([]UserTypeDocument, 0, len(types)),
	}
	if program != nil {
		doc.Program = &ProgramSummary{ID: program.ID, Name: program.Name}
	}
	for _, t := range types {
		doc.UserTypes = append(doc.UserTypes, UserType(t))
	}
	return doc
}

func UserTypeLink(l model.UserUserType, userType *model.UserType) UserTypeLinkDocument {
	doc := UserTypeLinkDocument{ID: l.ID, UserID: l.UserID}
	if userType != nil {
		nested := UserType(*userType)
		doc.UserType = &nested
	}
	return doc
}

// Publication projects p. group and ptype may be nil; author is the already
// projected user document of the publication's author, nil if missing.
func Publication(p model.Publication, group *model.ResearchGroup, author *UserDocument, ptype *model.PublicationType, keywords []model.Keyword) PublicationDocument {
	doc := PublicationDocument{
		ID:                p.ID,
		Title:             p.Title,
		Summary:           p.Summary,
		PublishedOn:       time.Time(p.PublishedOn).Format(DateLayout),
		DocumentURL:       p.DocumentURL,
		PublicationTypeID: p.PublicationTypeID,
		KeywordIDs:        make([]uint, 0, len(keywords)),
		Keywords:          make([]KeywordDocument, 0, len(keywords)),
		ResearchGroupID:   p.ResearchGroupID,
		UserID:            p.UserID,
		User:              author,
	}
	if group != nil {
		nested := ResearchGroup(*group)
		doc.ResearchGroup = &nested
	}
	if ptype != nil {
		nested := PublicationType(*ptype)
		doc.PublicationType = &nested
	}
	for _, k := range keywords {
		doc.KeywordIDs = append(doc.KeywordIDs, k.ID)
		doc.Keywords = append(doc.Keywords, Keyword(k))
	}
	return doc
}
