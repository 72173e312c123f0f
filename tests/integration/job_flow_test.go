package integration

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
)

var jobNumberPattern = regexp.MustCompile(`^KC-\d{2}-\d{4}$`)

func TestJobLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "pm@example.com", "password123")

	// Create
	rec := app.request("POST", "/api/v1/jobs",
		`{"name":"Riverside Duplex","clientName":"Hollis Construction","budgetTotal":50000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job failed: %d %s", rec.Code, rec.Body.String())
	}
	job := parseJSON(t, rec)["job"].(map[string]interface{})
	jobID := job["id"].(string)
	if !jobNumberPattern.MatchString(job["jobNumber"].(string)) {
		t.Errorf("unexpected job number format: %v", job["jobNumber"])
	}
	if job["status"] != "PLANNING" {
		t.Errorf("expected default status PLANNING, got %v", job["status"])
	}

	// Update
	rec = app.request("PATCH", "/api/v1/jobs/"+jobID, `{"status":"IN_PROGRESS","budgetTotal":60000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update job failed: %d %s", rec.Code, rec.Body.String())
	}
	job = parseJSON(t, rec)["job"].(map[string]interface{})
	if job["status"] != "IN_PROGRESS" {
		t.Errorf("expected status IN_PROGRESS, got %v", job["status"])
	}
	if job["budgetTotal"].(float64) != 60000 {
		t.Errorf("expected budget 60000, got %v", job["budgetTotal"])
	}
	if job["name"] != "Riverside Duplex" {
		t.Errorf("partial update must not clear name, got %v", job["name"])
	}

	// Fetch
	rec = app.request("GET", "/api/v1/jobs/"+jobID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get job failed: %d %s", rec.Code, rec.Body.String())
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/jobs/"+jobID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete job failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/jobs/"+jobID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestJobListFiltersAndPagination(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "pm@example.com", "password123")

	for i := 0; i < 3; i++ {
		app.createJob(t, token, fmt.Sprintf("Warehouse %d", i), 10000)
	}
	activeID := app.createJob(t, token, "Main Street Remodel", 25000)
	app.request("PATCH", "/api/v1/jobs/"+activeID, `{"status":"IN_PROGRESS"}`, token)

	rec := app.request("GET", "/api/v1/jobs?status=IN_PROGRESS", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list jobs failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 in-progress job, got %d", len(data))
	}

	rec = app.request("GET", "/api/v1/jobs?search=remodel", "", token)
	result = parseJSON(t, rec)
	data = result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(data))
	}

	rec = app.request("GET", "/api/v1/jobs?page=1&page_size=2", "", token)
	result = parseJSON(t, rec)
	data = result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected page of 2, got %d", len(data))
	}
	if result["totalItems"].(float64) != 4 {
		t.Errorf("expected 4 total items, got %v", result["totalItems"])
	}
	if result["totalPages"].(float64) != 2 {
		t.Errorf("expected 2 total pages, got %v", result["totalPages"])
	}

	rec = app.request("GET", "/api/v1/jobs?status=DEMOLISHED", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestCreateJobWithProjectManager(t *testing.T) {
	app := setupApp(t)
	token, pmID := app.registerUser(t, "pm@example.com", "password123")

	body := fmt.Sprintf(`{"name":"Hillside Addition","projectManagerId":%q}`, pmID)
	rec := app.request("POST", "/api/v1/jobs", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job failed: %d %s", rec.Code, rec.Body.String())
	}
	job := parseJSON(t, rec)["job"].(map[string]interface{})
	if job["projectManagerId"] != pmID {
		t.Errorf("expected project manager %s, got %v", pmID, job["projectManagerId"])
	}

	rec = app.request("POST", "/api/v1/jobs", `{"name":"Orphan Job","projectManagerId":"missing-id"}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown project manager, got %d %s", rec.Code, rec.Body.String())
	}
}
