package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// setupApp builds the full route table on a private in-memory SQLite database
// with an "admin" account already present.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", URL: dsn}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	log := zerolog.Nop()

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	credentials := services.NewCredentialStore(bcrypt.MinCost)
	authService := services.NewAuthService(userRepo, credentials, services.NewTokenService(testJWTSecret))
	userService := services.NewUserService(userRepo, credentials, nil)
	favoriteService := services.NewFavoriteService(repositories.NewGORMFavoriteRepository(db), productRepo, nil)
	cartService := services.NewCartService(repositories.NewGORMCartRepository(db))
	productService := services.NewProductService(productRepo, nil)

	_, err = userService.EnsureAdmin(context.Background(), config.AdminConfig{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "adminpass",
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(log)})
	app.Use(middleware.RequestLogger(log))

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(authService),
		Owner: middleware.RequireOwnership("userId"),
		Admin: middleware.RequireRole(authService, models.RoleAdmin),
	}
	for _, h := range []handlers.RouteRegistrar{
		handlers.NewAuthHandler(userService, authService),
		handlers.NewUserHandler(userService),
		handlers.NewFavoriteHandler(favoriteService),
		handlers.NewCartHandler(cartService),
		handlers.NewProductHandler(productService),
	} {
		h.RegisterRoutes(app, guards)
	}

	return &testEnv{app: app, db: db}
}

// do sends a request and decodes a JSON response body into out when out is
// not nil.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string, out interface{}) int {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type signupResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (e *testEnv) signup(t *testing.T, username string) *models.User {
	t.Helper()
	var resp signupResponse
	status := e.do(t, http.MethodPost, "/users/signup", fiber.Map{
		"username": username,
		"password": "password123",
		"email":    username + "@example.com",
		"address":  "1 Main St",
	}, "", &resp)
	require.Equal(t, http.StatusCreated, status)
	return &resp.User
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	status := e.do(t, http.MethodPost, "/auth/login", fiber.Map{"username": username, "password": password}, "", &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) createProduct(t *testing.T, adminToken, name string) *models.Product {
	t.Helper()
	var product models.Product
	status := e.do(t, http.MethodPost, "/products/create", fiber.Map{
		"name":        name,
		"description": "A " + name,
		"price":       "19.99",
		"photo_url":   "https://img.example.com/" + name + ".png",
	}, adminToken, &product)
	require.Equal(t, http.StatusCreated, status)
	return &product
}

func TestSignupLoginMe(t *testing.T) {
	env := setupApp(t)

	user := env.signup(t, "ana")
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Password)
	assert.False(t, user.IsAdmin)

	token := env.login(t, "ana", "password123")

	var identity services.Identity
	status := env.do(t, http.MethodGet, "/auth/me", nil, token, &identity)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.Identity{UserID: user.ID, Username: "ana"}, identity)

	var body errorBody
	status = env.do(t, http.MethodGet, "/auth/me", nil, "", &body)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body.Message)

	status = env.do(t, http.MethodGet, "/auth/me", nil, "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthAcceptsBareToken(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "ana")
	token := env.login(t, "ana", "password123")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "ana")

	var wrongPassword, unknownUser errorBody
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodPost, "/auth/login", fiber.Map{"username": "ana", "password": "nope"}, "", &wrongPassword))
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodPost, "/auth/login", fiber.Map{"username": "ghost", "password": "nope"}, "", &unknownUser))
	assert.Equal(t, wrongPassword.Message, unknownUser.Message)

	assert.Equal(t, http.StatusBadRequest,
		env.do(t, http.MethodPost, "/auth/login", fiber.Map{"username": "ana"}, "", nil))
}

func TestSignupValidationAndConflicts(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "ana")

	var body errorBody
	status := env.do(t, http.MethodPost, "/users/signup", fiber.Map{"username": "bob", "password": "password123"}, "", &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "email")

	status = env.do(t, http.MethodPost, "/users/signup", "{not json", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = env.do(t, http.MethodPost, "/users/signup", fiber.Map{
		"username": "ana", "password": "password123", "email": "other@example.com",
	}, "", &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body.Message, "ana")

	status = env.do(t, http.MethodPost, "/users/signup", fiber.Map{
		"username": "anna", "password": "password123", "email": "ana@example.com",
	}, "", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestSignupCannotGrantAdmin(t *testing.T) {
	env := setupApp(t)

	var resp signupResponse
	status := env.do(t, http.MethodPost, "/users/signup", fiber.Map{
		"username": "mallory", "password": "password123", "email": "mallory@example.com", "is_admin": true,
	}, "", &resp)
	require.Equal(t, http.StatusCreated, status)

	token := env.login(t, "mallory", "password123")
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/users", nil, token, nil))
}

func TestProductAdminChain(t *testing.T) {
	env := setupApp(t)
	env.signup(t, "ana")
	userToken := env.login(t, "ana", "password123")
	adminToken := env.login(t, "admin", "adminpass")

	newProduct := fiber.Map{
		"name": "Lamp", "description": "Desk lamp", "price": 19.99, "photo_url": "https://img.example.com/lamp.png",
	}

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/products/create", newProduct, "", nil))

	var body errorBody
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/products/create", newProduct, userToken, &body))
	assert.Contains(t, body.Message, "admin")

	var created models.Product
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/products/create", newProduct, adminToken, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "19.99", created.Price.StringFixed(2))

	var products []models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products", nil, "", &products))
	assert.Len(t, products, 1)

	var fetched models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products/"+created.ID, nil, "", &fetched))
	assert.Equal(t, "Lamp", fetched.Name)

	var updated models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/products/"+created.ID, fiber.Map{"price": "24.50"}, adminToken, &updated))
	assert.Equal(t, "24.50", updated.Price.StringFixed(2))
	assert.Equal(t, "Desk lamp", updated.Description)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/products/"+created.ID, nil, userToken, nil))
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/products/"+created.ID, nil, adminToken, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/products/"+created.ID, nil, "", nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/products/"+created.ID, nil, adminToken, nil))
}

func TestProductCreateValidation(t *testing.T) {
	env := setupApp(t)
	adminToken := env.login(t, "admin", "adminpass")

	var body errorBody
	status := env.do(t, http.MethodPost, "/products/create", fiber.Map{"name": "Lamp"}, adminToken, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "price")
	assert.Contains(t, body.Errors, "description")
	assert.Contains(t, body.Errors, "photo_url")

	body = errorBody{}
	status = env.do(t, http.MethodPost, "/products/create", fiber.Map{
		"name": "Yacht", "description": "Too expensive", "price": "10000000000", "photo_url": "https://img.example.com/yacht.png",
	}, adminToken, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body.Errors, "price")
}

func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	env := setupApp(t)
	user := env.signup(t, "ana")
	token := env.login(t, "ana", "password123")

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/users", nil, token, nil))

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_admin", true).Error)

	var users []map[string]interface{}
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/users", nil, token, &users))
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}
}

func TestUserOwnershipAndPatch(t *testing.T) {
	env := setupApp(t)
	ana := env.signup(t, "ana")
	bob := env.signup(t, "bob")
	anaToken := env.login(t, "ana", "password123")

	var fetched models.User
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/users/"+ana.ID, nil, anaToken, &fetched))
	assert.Equal(t, "ana", fetched.Username)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/users/"+bob.ID, nil, anaToken, nil))
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPatch, "/users/"+bob.ID, fiber.Map{"address": "x"}, anaToken, nil))

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/users/"+ana.ID, nil, anaToken, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/users/"+ana.ID, "{}", anaToken, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, "/users/"+ana.ID, `{"email":null}`, anaToken, nil))
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPatch, "/users/"+ana.ID, fiber.Map{"email": "bob@example.com"}, anaToken, nil))

	var updated models.User
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/users/"+ana.ID, fiber.Map{"email": "ana@new.example.com"}, anaToken, &updated))
	assert.Equal(t, "ana@new.example.com", updated.Email)
	assert.Equal(t, "ana", updated.Username)
	assert.Equal(t, "1 Main St", updated.Address)

	// A password change takes effect on the next login.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/users/"+ana.ID, fiber.Map{"password": "newpassword"}, anaToken, nil))
	env.login(t, "ana", "newpassword")
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodPost, "/auth/login", fiber.Map{"username": "ana", "password": "password123"}, "", nil))
}

func TestFavorites(t *testing.T) {
	env := setupApp(t)
	ana := env.signup(t, "ana")
	bob := env.signup(t, "bob")
	anaToken := env.login(t, "ana", "password123")
	adminToken := env.login(t, "admin", "adminpass")
	lamp := env.createProduct(t, adminToken, "lamp")

	path := "/users/" + ana.ID + "/favorites"

	var favorite models.Favorite
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, path, fiber.Map{"product_id": lamp.ID}, anaToken, &favorite))
	assert.Equal(t, lamp.ID, favorite.ProductID)
	assert.Equal(t, ana.ID, favorite.UserID)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, path, fiber.Map{"product_id": lamp.ID}, anaToken, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, path, fiber.Map{"product_id": uuid.NewString()}, anaToken, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, path, fiber.Map{}, anaToken, nil))

	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodPost, "/users/"+bob.ID+"/favorites", fiber.Map{"product_id": lamp.ID}, anaToken, nil))

	var favorites []models.Favorite
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil, anaToken, &favorites))
	assert.Len(t, favorites, 1)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path+"/"+favorite.ID, nil, anaToken, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path+"/"+favorite.ID, nil, anaToken, nil))
}

func TestCart(t *testing.T) {
	env := setupApp(t)
	ana := env.signup(t, "ana")
	token := env.login(t, "ana", "password123")

	var view struct {
		Cart  models.Cart       `json:"cart"`
		Items []models.CartItem `json:"items"`
	}
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/users/"+ana.ID+"/cart", nil, token, &view))
	assert.Equal(t, ana.ID, view.Cart.UserID)
	assert.Empty(t, view.Items)
}

func TestDeleteUserRemovesFavorites(t *testing.T) {
	env := setupApp(t)
	ana := env.signup(t, "ana")
	anaToken := env.login(t, "ana", "password123")
	adminToken := env.login(t, "admin", "adminpass")
	lamp := env.createProduct(t, adminToken, "lamp")

	require.Equal(t, http.StatusCreated,
		env.do(t, http.MethodPost, "/users/"+ana.ID+"/favorites", fiber.Map{"product_id": lamp.ID}, anaToken, nil))

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/users/"+ana.ID, nil, anaToken, nil))

	var count int64
	require.NoError(t, env.db.Model(&models.Favorite{}).Where("user_id = ?", ana.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The token of a deleted user no longer authenticates.
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", nil, anaToken, nil))
}

func TestUnknownRoute(t *testing.T) {
	env := setupApp(t)

	var body errorBody
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/nowhere", nil, "", &body))
	assert.NotEmpty(t, body.Message)
}
