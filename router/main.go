package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/pandiu-api/handlers"
	faculty_handlers "github.com/sahilchouksey/pandiu-api/handlers/faculty"
	publication_handlers "github.com/sahilchouksey/pandiu-api/handlers/publication"
	researchgroup_handlers "github.com/sahilchouksey/pandiu-api/handlers/researchgroup"
	user_handlers "github.com/sahilchouksey/pandiu-api/handlers/user"
	"github.com/sahilchouksey/pandiu-api/services"
	"github.com/sahilchouksey/pandiu-api/utils"
	"github.com/sahilchouksey/pandiu-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, svc *services.Services, security middleware.SecurityConfig) {
	facultyHandler := faculty_handlers.NewFacultyHandler(svc)
	researchGroupHandler := researchgroup_handlers.NewResearchGroupHandler(svc)
	userHandler := user_handlers.NewUserHandler(svc)
	publicationHandler := publication_handlers.NewPublicationHandler(svc)

	// Apply security middleware
	middleware.SetupSecurity(app, security)

	// Health check endpoint
	app.Get("/ping", utils.MakeHTTPHandleFunc[handlers.Pinger](handlers.HandleCheckHealth, svc))

	// API v1 group
	api := app.Group("/api/v1")

	// Faculties routes; static segments go before /:id
	faculties := api.Group("/faculties")
	faculties.Get("/programs", facultyHandler.ListPrograms)
	faculties.Post("/programs", facultyHandler.CreateProgram)
	faculties.Get("/programs/:id", facultyHandler.GetProgram)
	faculties.Put("/programs/:id", facultyHandler.UpdateProgram)
	faculties.Patch("/programs/:id", facultyHandler.PatchProgram)
	faculties.Delete("/programs/:id", facultyHandler.DeleteProgram)

	faculties.Get("/", facultyHandler.ListFaculties)
	faculties.Post("/", facultyHandler.CreateFaculty)
	faculties.Get("/:id/programs", facultyHandler.ListFacultyPrograms)
	faculties.Get("/:id", facultyHandler.GetFaculty)
	faculties.Put("/:id", facultyHandler.UpdateFaculty)
	faculties.Patch("/:id", facultyHandler.PatchFaculty)
	faculties.Delete("/:id", facultyHandler.DeleteFaculty)

	// Research groups routes
	groups := api.Group("/research-groups")
	groups.Get("/", researchGroupHandler.ListResearchGroups)
	groups.Post("/", researchGroupHandler.CreateResearchGroup)
	groups.Get("/:id", researchGroupHandler.GetResearchGroup)
	groups.Put("/:id", researchGroupHandler.UpdateResearchGroup)
	groups.Patch("/:id", researchGroupHandler.PatchResearchGroup)
	groups.Delete("/:id", researchGroupHandler.DeleteResearchGroup)

	// Users routes
	users := api.Group("/users")
	users.Get("/user-types", userHandler.ListUserTypes)
	users.Post("/user-types", userHandler.CreateUserType)
	users.Get("/user-types/:id", userHandler.GetUserType)
	users.Put("/user-types/:id", userHandler.UpdateUserType)
	users.Delete("/user-types/:id", userHandler.DeleteUserType)

	users.Get("/user-type-links", userHandler.ListUserTypeLinks)
	users.Post("/user-type-links", userHandler.CreateUserTypeLink)
	users.Get("/user-type-links/:id", userHandler.GetUserTypeLink)
	users.Put("/user-type-links/:id", userHandler.UpdateUserTypeLink)
	users.Delete("/user-type-links/:id", userHandler.DeleteUserTypeLink)

	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Patch("/:id", userHandler.PatchUser)
	users.Delete("/:id", userHandler.DeleteUser)

	// Publications routes
	publications := api.Group("/publications")
	publications.Get("/publication-types", publicationHandler.ListPublicationTypes)
	publications.Post("/publication-types", publicationHandler.CreatePublicationType)
	publications.Get("/publication-types/:id", publicationHandler.GetPublicationType)
	publications.Put("/publication-types/:id", publicationHandler.UpdatePublicationType)
	publications.Delete("/publication-types/:id", publicationHandler.DeletePublicationType)

	publications.Get("/keywords", publicationHandler.ListKeywords)
	publications.Post("/keywords", publicationHandler.CreateKeyword)
	publications.Get("/keywords/:id", publicationHandler.GetKeyword)
	publications.Put("/keywords/:id", publicationHandler.UpdateKeyword)
	publications.Delete("/keywords/:id", publicationHandler.DeleteKeyword)

	publications.Get("/", publicationHandler.ListPublications)
	publications.Post("/", publicationHandler.CreatePublication)
	publications.Get("/:id", publicationHandler.GetPublication)
	publications.Put("/:id", publicationHandler.UpdatePublication)
	publications.Delete("/:id", publicationHandler.DeletePublication)
	publications.Put("/:id/document", publicationHandler.UploadDocument)
	publications.Delete("/:id/document", publicationHandler.DeleteDocument)
}
