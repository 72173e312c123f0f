package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/services"
	"hardhat/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(email, password, name string, role models.UserRole, phone string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
	listUsersFn      func(role *models.UserRole) ([]models.User, error)
}

func (m *mockUserService) CreateUser(email, password, name string, role models.UserRole, phone string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name, role, phone)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) ListUsers(role *models.UserRole) ([]models.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(role)
	}
	return []models.User{}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID("user-1"), handler.GetProfile)
	r.GET("/users", injectUserID("user-1"), handler.ListUsers)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, _, name string, role models.UserRole, _ string) (*models.User, error) {
				return &models.User{
					Base:  models.Base{ID: "user-1"},
					Email: email,
					Name:  name,
					Role:  models.UserRoleFieldCrew,
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"crew@example.com","password":"password123","name":"Site Crew"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == "" || result["token"] == nil {
			t.Error("expected a token in the response")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "crew@example.com" {
			t.Errorf("expected email echoed, got %v", user["email"])
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"crew@example.com","password":"short","name":"Site Crew"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid role", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"crew@example.com","password":"password123","name":"Crew","role":"SUPERVISOR"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(string, string, string, models.UserRole, string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"crew@example.com","password":"password123","name":"Crew"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(email string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: "user-1"}, Email: email, Role: models.UserRoleAdmin}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login",
			`{"email":"admin@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil {
			t.Error("expected a token in the response")
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyPasswordFn: func(*models.User, string) bool { return false },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login",
			`{"email":"admin@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 401 on unknown email", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login",
			`{"email":"nobody@example.com","password":"password123"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_ListUsers(t *testing.T) {
	t.Run("passes role filter through", func(t *testing.T) {
		var gotRole *models.UserRole
		userSvc := &mockUserService{
			listUsersFn: func(role *models.UserRole) ([]models.User, error) {
				gotRole = role
				return []models.User{{Base: models.Base{ID: "pm-1"}, Role: models.UserRoleProjectManager}}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "GET", "/users?role=PROJECT_MANAGER", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotRole == nil || *gotRole != models.UserRoleProjectManager {
			t.Errorf("expected PROJECT_MANAGER filter, got %v", gotRole)
		}
	})

	t.Run("returns 400 on unknown role", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "GET", "/users?role=SUPERVISOR", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
