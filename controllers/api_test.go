package controllers_test

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-backend/catalog"
	"catalog-backend/controllers"
	"catalog-backend/database"
	"catalog-backend/middlewares"
	"catalog-backend/models"
	"catalog-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Section{}, &models.Family{}, &models.Article{},
		&models.Barcode{}, &models.IdempotencyKey{},
	))

	database.DB = db
	controllers.Setup(catalog.New(db, catalog.WithRand(rand.New(rand.NewSource(99)))))

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestCatalogFlow(t *testing.T) {
	app := newTestApp(t)

	// Section
	status, body := doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var section models.Section
	require.NoError(t, json.Unmarshal(body, &section))
	assert.Equal(t, "ELEC", section.Code)

	// Family under it, resolved by name
	status, body = doJSON(t, app, http.MethodPost, "/api/families",
		`{"name":"Laptops","section_name":"Electronics"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var family models.Family
	require.NoError(t, json.Unmarshal(body, &family))
	assert.Equal(t, "LAPT", family.Code)
	assert.Equal(t, section.ID, family.SectionID)

	// Article with generated short code and barcode
	status, body = doJSON(t, app, http.MethodPost, "/api/articles",
		`{"name":"ThinkPad","family_name":"Laptops","purchase_price":500,"sale_price":700,"unit":"ea"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var article models.Article
	require.NoError(t, json.Unmarshal(body, &article))
	assert.Len(t, article.ShortCode, 6)
	assert.Equal(t, 0.18, article.TaxRate)
	require.Len(t, article.Barcodes, 1)
	assert.True(t, strings.HasPrefix(article.Barcodes[0].Value, "775"))
	assert.NoError(t, catalog.ValidateBarcode(article.Barcodes[0].Value))

	// Lookup by barcode
	status, body = doJSON(t, app, http.MethodGet, "/api/articles/barcode/"+article.Barcodes[0].Value, "", nil)
	require.Equal(t, http.StatusOK, status)
	var found models.Article
	require.NoError(t, json.Unmarshal(body, &found))
	assert.Equal(t, article.ID, found.ID)

	// Substring search
	status, _ = doJSON(t, app, http.MethodGet, "/api/articles/name/think", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/articles/name/chromebook", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Deleting a family with articles is refused
	status, _ = doJSON(t, app, http.MethodDelete, "/api/families/by-name/Laptops", "", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)

	// Missing required field -> 422 from the validator
	status, _ := doJSON(t, app, http.MethodPost, "/api/sections", `{}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Family under nonexistent section -> 404
	status, _ = doJSON(t, app, http.MethodPost, "/api/families",
		`{"name":"Laptops","section_name":"Nope"}`, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Family name under 4 characters -> 422 (validator catches it before the core)
	status, _ = doJSON(t, app, http.MethodPost, "/api/families",
		`{"name":"TV","section_name":"Nope"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Duplicate section -> 409
	status, _ = doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Unknown article -> 404
	status, _ = doJSON(t, app, http.MethodDelete, "/api/articles/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Bad id -> 400
	status, _ = doJSON(t, app, http.MethodDelete, "/api/articles/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSparseUpdatesOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	status, body := doJSON(t, app, http.MethodPost, "/api/families",
		`{"name":"Laptops","section_name":"Electronics"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	var family models.Family
	require.NoError(t, json.Unmarshal(body, &family))

	// Rename: name and code move together
	status, body = doJSON(t, app, http.MethodPut, "/api/families/by-name/Laptops",
		`{"name":"Tablets"}`, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var renamed models.Family
	require.NoError(t, json.Unmarshal(body, &renamed))
	assert.Equal(t, "Tablets", renamed.Name)
	assert.Equal(t, "TABL", renamed.Code)

	// Description-only update leaves name/code alone
	status, body = doJSON(t, app, http.MethodPut, "/api/families/by-name/Tablets",
		`{"description":"slabs of glass"}`, nil)
	require.Equal(t, http.StatusOK, status)
	var patched models.Family
	require.NoError(t, json.Unmarshal(body, &patched))
	assert.Equal(t, "Tablets", patched.Name)
	assert.Equal(t, "TABL", patched.Code)
	assert.Equal(t, "slabs of glass", patched.Description)
}

func TestIdempotencyReplay(t *testing.T) {
	app := newTestApp(t)

	headers := map[string]string{"Idempotency-Key": "create-elec-1"}
	status, body := doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, headers)
	require.Equal(t, http.StatusCreated, status)

	// Same key + same body: stored response is replayed, no second row.
	status2, body2 := doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Electronics"}`, headers)
	assert.Equal(t, status, status2)
	assert.Equal(t, string(body), string(body2))

	var n int64
	require.NoError(t, database.DB.Model(&models.Section{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	// Same key, different body: rejected.
	status3, _ := doJSON(t, app, http.MethodPost, "/api/sections", `{"name":"Groceries"}`, headers)
	assert.Equal(t, http.StatusConflict, status3)
}
