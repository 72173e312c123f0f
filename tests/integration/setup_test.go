package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hardhat/internal/config"
	"hardhat/internal/handlers"
	"hardhat/internal/logger"
	"hardhat/internal/middleware"
	"hardhat/internal/models"
	"hardhat/internal/services"
	"hardhat/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Job{},
		&models.JobMaterial{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Notification{},
		&models.CatalogCategory{},
		&models.CatalogSubcategory{},
		&models.CatalogItem{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// extractionStub serves canned completion replies so extraction flows can
// run without the real service.
func extractionStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": reply}},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode stub reply: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithExtraction(t, extractionStub(t, "{}"))
}

// setupAppWithExtraction wires the stack against a specific extraction stub.
func setupAppWithExtraction(t *testing.T, extraction *httptest.Server) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	jobService := services.NewJobService(db)
	materialService := services.NewMaterialService(db)
	notificationService := services.NewNotificationService(db)
	invoiceService := services.NewInvoiceService(db, notificationService)
	reportService := services.NewReportService(db)
	catalogService := services.NewCatalogService(db)
	extractionService := services.NewExtractionService(&config.Config{
		ExtractionAPIKey:  "test-key",
		ExtractionModel:   "test-model",
		ExtractionBaseURL: extraction.URL,
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)
	materialHandler := handlers.NewMaterialHandler(materialService, notificationService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, extractionService)
	reportHandler := handlers.NewReportHandler(reportService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/users", authHandler.ListUsers)

	jobs := protected.Group("/jobs")
	jobs.POST("", jobHandler.CreateJob)
	jobs.GET("", jobHandler.GetJobs)
	jobs.GET("/:id", jobHandler.GetJob)
	jobs.PATCH("/:id", jobHandler.UpdateJob)
	jobs.DELETE("/:id", jobHandler.DeleteJob)
	jobs.GET("/:id/budget", reportHandler.GetJobBudget)
	jobs.GET("/:id/materials", materialHandler.GetJobMaterials)
	jobs.POST("/:id/materials", materialHandler.CreateMaterials)
	jobs.POST("/:id/materials/import", materialHandler.ImportMaterials)
	jobs.GET("/:id/invoices", invoiceHandler.GetJobInvoices)
	jobs.POST("/:id/invoices", invoiceHandler.CreateInvoice)
	jobs.POST("/:id/invoices/extract", invoiceHandler.ExtractInvoice)

	materials := protected.Group("/materials")
	materials.PATCH("/:id", materialHandler.UpdateMaterial)
	materials.DELETE("/:id", materialHandler.DeleteMaterial)

	invoices := protected.Group("/invoices")
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.PATCH("/:id", invoiceHandler.UpdateInvoice)
	invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetFleetSummary)
	reports.GET("/summary/export", reportHandler.ExportFleetSummary)
	reports.GET("/vendors", reportHandler.GetVendorReport)
	reports.GET("/materials", reportHandler.GetMaterialsReport)

	catalog := protected.Group("/catalog")
	catalog.GET("", catalogHandler.GetCatalog)
	catalog.POST("/categories", catalogHandler.CreateCategory)
	catalog.POST("/subcategories", catalogHandler.CreateSubcategory)
	catalog.POST("/items", catalogHandler.CreateItem)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PATCH("", notificationHandler.MarkNotifications)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createJob creates a job and returns its ID.
func (app *testApp) createJob(t *testing.T, token, name string, budget float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"budgetTotal":%g}`, name, budget)
	rec := app.request("POST", "/api/v1/jobs", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	job := result["job"].(map[string]interface{})
	return job["id"].(string)
}
