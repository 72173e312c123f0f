package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestInvoiceLifecycleWithNotifications(t *testing.T) {
	app := setupApp(t)
	token, pmID := app.registerUser(t, "pm@example.com", "password123")

	body := fmt.Sprintf(`{"name":"Elm Street Rehab","budgetTotal":30000,"projectManagerId":%q}`, pmID)
	rec := app.request("POST", "/api/v1/jobs", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job failed: %d %s", rec.Code, rec.Body.String())
	}
	jobID := parseJSON(t, rec)["job"].(map[string]interface{})["id"].(string)

	// Upload an invoice with line items
	rec = app.request("POST", "/api/v1/jobs/"+jobID+"/invoices",
		`{"vendorName":"Ferguson Supply","invoiceNumber":"FS-1001","totalAmount":1250.75,
		  "items":[{"description":"Water heater","quantity":1,"unitPrice":1100,"totalPrice":1100}]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice failed: %d %s", rec.Code, rec.Body.String())
	}
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(string)
	if invoice["status"] != "PENDING" {
		t.Errorf("expected default status PENDING, got %v", invoice["status"])
	}
	items := invoice["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}

	// The project manager was notified of the upload
	rec = app.request("GET", "/api/v1/notifications", "", token)
	list := parseJSON(t, rec)
	notifications := list["notifications"].([]interface{})
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].(map[string]interface{})["type"] != "INVOICE_UPLOADED" {
		t.Errorf("expected INVOICE_UPLOADED, got %v", notifications[0].(map[string]interface{})["type"])
	}

	// Disputing the invoice notifies the project manager again
	rec = app.request("PATCH", "/api/v1/invoices/"+invoiceID, `{"status":"DISPUTED"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dispute invoice failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/notifications", "", token)
	list = parseJSON(t, rec)
	if list["unreadCount"].(float64) != 2 {
		t.Errorf("expected 2 unread notifications, got %v", list["unreadCount"])
	}

	// Mark all read
	rec = app.request("PATCH", "/api/v1/notifications", `{"all":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark all read failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/notifications", "", token)
	list = parseJSON(t, rec)
	if list["unreadCount"].(float64) != 0 {
		t.Errorf("expected 0 unread after mark all, got %v", list["unreadCount"])
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/invoices/"+invoiceID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete invoice failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/invoices/"+invoiceID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestInvoiceExtraction(t *testing.T) {
	reply := `{"vendorName":"Home Depot","invoiceNumber":"HD-2210","totalAmount":417.82,
	  "items":[{"description":"Concrete mix 80lb","quantity":12,"unitPrice":6.98,"totalPrice":83.76}]}`
	app := setupAppWithExtraction(t, extractionStub(t, reply))
	token, _ := app.registerUser(t, "pm@example.com", "password123")
	jobID := app.createJob(t, token, "Patio Pour", 5000)

	rec := app.request("POST", "/api/v1/jobs/"+jobID+"/invoices/extract",
		`{"text":"HOME DEPOT receipt ... CONCRETE MIX 80LB 12 @ 6.98","fileName":"receipt.txt"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	extracted := result["extracted"].(map[string]interface{})
	if extracted["vendorName"] != "Home Depot" {
		t.Errorf("expected vendor Home Depot, got %v", extracted["vendorName"])
	}
	if extracted["totalAmount"].(float64) != 417.82 {
		t.Errorf("expected total 417.82, got %v", extracted["totalAmount"])
	}

	// Missing text is rejected before any upstream call
	rec = app.request("POST", "/api/v1/jobs/"+jobID+"/invoices/extract", `{"fileName":"receipt.txt"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing text, got %d", rec.Code)
	}
}
