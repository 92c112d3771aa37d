package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/pandiu-api/api"
	"github.com/sahilchouksey/pandiu-api/repository/memstore"
	"github.com/sahilchouksey/pandiu-api/services"
	"github.com/sahilchouksey/pandiu-api/utils/middleware"
	"github.com/sahilchouksey/pandiu-api/utils/pdfvalidation"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := services.New(memstore.New(), nil, pdfvalidation.PDFLimits{})
	server := api.NewAPIServer(":0", 4*1024*1024)
	SetupRoutes(server.GetEngine(), svc, middleware.SecurityConfig{AllowedOrigins: "*"})
	return server.GetEngine()
}

// call sends a JSON request and decodes the response body into a generic value
func call(t *testing.T, app *fiber.App, method, path, body string) (int, interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}
	var out interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func object(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	m, ok := v.(map[string]interface{})
	require.True(t, ok, "expected a JSON object, got %T", v)
	return m
}

func create(t *testing.T, app *fiber.App, path, body string) map[string]interface{} {
	t.Helper()
	status, out := call(t, app, "POST", path, body)
	require.Equal(t, fiber.StatusCreated, status, "%v", out)
	return object(t, out)
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	status, out := call(t, app, "GET", "/ping", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", object(t, out)["status"])
}

func TestFacultyProgramsFlow(t *testing.T) {
	app := newTestApp(t)

	faculty := create(t, app, "/api/v1/faculties", `{"nombre_facultad": "Ingeniería"}`)
	program := create(t, app, "/api/v1/faculties/programs", fmt.Sprintf(`{"program_name": "Sistemas", "facultad": %v}`, faculty["id"]))

	assert.Equal(t, faculty["id"], program["facultad"])
	assert.Equal(t, "Ingeniería", object(t, program["facultad_nombre"])["nombre_facultad"])

	status, out := call(t, app, "GET", fmt.Sprintf("/api/v1/faculties/%v/programs", faculty["id"]), "")
	require.Equal(t, fiber.StatusOK, status)
	list := out.([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Sistemas", object(t, list[0])["program_name"])

	status, _ = call(t, app, "DELETE", fmt.Sprintf("/api/v1/faculties/%v", faculty["id"]), "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, out = call(t, app, "GET", fmt.Sprintf("/api/v1/faculties/programs/%v", program["id"]), "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Not found.", object(t, out)["detail"])
}

func TestNotFoundCases(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/api/v1/faculties/99",
		"/api/v1/faculties/abc",
		"/api/v1/users/user-types/7",
		"/api/v1/publications/keywords/x",
		"/api/v1/unknown",
	} {
		status, out := call(t, app, "GET", path, "")
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Equal(t, "Not found.", object(t, out)["detail"], path)
	}
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t)

	status, out := call(t, app, "POST", "/api/v1/faculties", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []interface{}{"This field is required."}, object(t, out)["nombre_facultad"])

	status, out = call(t, app, "POST", "/api/v1/faculties", `{"nombre_facultad": `)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, object(t, out)["detail"], "JSON parse error")

	status, out = call(t, app, "POST", "/api/v1/research-groups", `[1, 2]`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, object(t, out), "non_field_errors")
}

func TestUserFlow(t *testing.T) {
	app := newTestApp(t)

	faculty := create(t, app, "/api/v1/faculties", `{"nombre_facultad": "Ingeniería"}`)
	program := create(t, app, "/api/v1/faculties/programs", fmt.Sprintf(`{"program_name": "Sistemas", "facultad": %v}`, faculty["id"]))
	student := create(t, app, "/api/v1/users/user-types", `{"name": "Estudiante"}`)
	teacher := create(t, app, "/api/v1/users/user-types", `{"name": "Docente"}`)

	user := create(t, app, "/api/v1/users", fmt.Sprintf(
		`{"name": "Ana", "lastName": "Gómez", "email": "ana@example.com", "program": %v, "tipos_usuario": [%v, %v]}`,
		program["id"], student["id"], teacher["id"]))

	assert.Len(t, user["tipos_usuario"], 2)
	assert.Equal(t, "Sistemas", object(t, user["name_program"])["program_name"])

	status, out := call(t, app, "PATCH", fmt.Sprintf("/api/v1/users/%v", user["id"]), `{"email": "ana.gomez@example.com"}`)
	require.Equal(t, fiber.StatusOK, status, "%v", out)
	patched := object(t, out)
	assert.Equal(t, "ana.gomez@example.com", patched["email"])
	assert.Equal(t, "Ana", patched["name"])
	assert.Equal(t, "Gómez", patched["lastName"])
	assert.Equal(t, program["id"], patched["program"])

	status, out = call(t, app, "POST", "/api/v1/users", `{"name": "B", "lastName": "C", "email": "ana.gomez@example.com", "tipos_usuario": []}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []interface{}{"usuario with this email already exists."}, object(t, out)["email"])

	status, out = call(t, app, "GET", "/api/v1/users/user-type-links", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out, 2)
}

func TestUserWithoutProgram(t *testing.T) {
	app := newTestApp(t)

	user := create(t, app, "/api/v1/users", `{"name": "Luis", "lastName": "Pérez", "email": "luis@example.com", "program": null, "tipos_usuario": []}`)

	status, out := call(t, app, "GET", fmt.Sprintf("/api/v1/users/%v", user["id"]), "")
	require.Equal(t, fiber.StatusOK, status)
	got := object(t, out)
	assert.Nil(t, got["program"])
	assert.Nil(t, got["name_program"])
	assert.Equal(t, []interface{}{}, got["tipos_usuario"])
}

func TestPublicationFlow(t *testing.T) {
	app := newTestApp(t)

	group := create(t, app, "/api/v1/research-groups", `{"nombre_grupo": "GIDSE", "descripcion": "Software educativo"}`)
	user := create(t, app, "/api/v1/users", `{"name": "Ana", "lastName": "Gómez", "email": "ana@example.com", "tipos_usuario": []}`)
	k1 := create(t, app, "/api/v1/publications/keywords", `{"palabra": "robótica"}`)
	k2 := create(t, app, "/api/v1/publications/keywords", `{"palabra": "educación"}`)

	status, out := call(t, app, "POST", "/api/v1/publications", fmt.Sprintf(
		`{"resumen": "r", "fecha_publicacion": "2024-03-01", "grupo_investigacion": %v, "usuario": %v, "palabras_clave": []}`,
		group["id"], user["id"]))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, object(t, out), "titulo")

	pub := create(t, app, "/api/v1/publications", fmt.Sprintf(
		`{"titulo": "Robots en el aula", "resumen": "r", "fecha_publicacion": "2024-03-01", "grupo_investigacion": %v, "usuario": %v, "palabras_clave": [%v, %v]}`,
		group["id"], user["id"], k1["id"], k2["id"]))
	assert.Equal(t, "2024-03-01", pub["fecha_publicacion"])
	assert.Nil(t, pub["archivo_pdf"])
	assert.Nil(t, pub["tipos_publicacion_info"])

	status, _ = call(t, app, "DELETE", fmt.Sprintf("/api/v1/publications/keywords/%v", k1["id"]), "")
	require.Equal(t, fiber.StatusNoContent, status)

	status, out = call(t, app, "GET", fmt.Sprintf("/api/v1/publications/%v", pub["id"]), "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{k2["id"]}, object(t, out)["palabras_clave"])

	status, out = upload(t, app, fmt.Sprintf("/api/v1/publications/%v/document", pub["id"]), []byte("%PDF-1.4"))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "document storage is not configured", object(t, out)["detail"])
}

func upload(t *testing.T, app *fiber.App, path string, content []byte) (int, interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("archivo_pdf", "articulo.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PUT", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestPatchNotRoutedWhereUnsupported(t *testing.T) {
	app := newTestApp(t)
	create(t, app, "/api/v1/publications/keywords", `{"palabra": "robótica"}`)

	status, out := call(t, app, "PATCH", "/api/v1/publications/keywords/1", `{"palabra": "x"}`)
	assert.Equal(t, fiber.StatusMethodNotAllowed, status)
	assert.Equal(t, `Method "PATCH" not allowed.`, object(t, out)["detail"])
}
