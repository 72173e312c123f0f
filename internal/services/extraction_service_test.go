package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hardhat/internal/config"
	"hardhat/internal/testutil"
)

func newExtractionServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Extractor) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewExtractionService(&config.Config{
		ExtractionAPIKey:  "test-key",
		ExtractionModel:   "test-model",
		ExtractionBaseURL: server.URL,
	})
	return server, svc
}

func completionReply(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(body)
}

func TestExtract(t *testing.T) {
	t.Run("parses_clean_json_reply", func(t *testing.T) {
		_, svc := newExtractionServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/messages" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("x-api-key") != "test-key" {
				t.Errorf("missing api key header")
			}
			if r.Header.Get("anthropic-version") == "" {
				t.Errorf("missing version header")
			}

			var req completionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("bad request body: %v", err)
			}
			if req.Model != "test-model" || len(req.Messages) != 1 {
				t.Errorf("unexpected request payload: %+v", req)
			}

			w.Write([]byte(completionReply(`{"vendorName":"Acme Supply","totalAmount":125.5,"items":[{"description":"Copper pipe","quantity":5}]}`)))
		})

		result, err := svc.Extract(context.Background(), "INVOICE #123 Acme Supply Total $125.50", "invoice.pdf")
		testutil.AssertNoError(t, err)

		if result.ParseError {
			t.Fatal("expected clean parse")
		}
		if result.Extracted.VendorName == nil || *result.Extracted.VendorName != "Acme Supply" {
			t.Errorf("unexpected vendor: %v", result.Extracted.VendorName)
		}
		if result.Extracted.TotalAmount == nil || *result.Extracted.TotalAmount != 125.5 {
			t.Errorf("unexpected total: %v", result.Extracted.TotalAmount)
		}
		if len(result.Extracted.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(result.Extracted.Items))
		}
	})

	t.Run("recovers_json_wrapped_in_prose", func(t *testing.T) {
		_, svc := newExtractionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionReply("Here is the extracted data:\n```json\n{\"vendorName\":\"Acme\"}\n```\nLet me know if you need more.")))
		})

		result, err := svc.Extract(context.Background(), "some invoice text", "")
		testutil.AssertNoError(t, err)
		if result.ParseError || result.Extracted == nil {
			t.Fatalf("expected recovered JSON, got %+v", result)
		}
		if result.Extracted.VendorName == nil || *result.Extracted.VendorName != "Acme" {
			t.Errorf("unexpected vendor: %v", result.Extracted.VendorName)
		}
	})

	t.Run("degrades_to_raw_on_unparseable_reply", func(t *testing.T) {
		_, svc := newExtractionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionReply("I could not find any invoice data in that text.")))
		})

		result, err := svc.Extract(context.Background(), "not an invoice", "note.txt")
		testutil.AssertNoError(t, err)
		if !result.ParseError {
			t.Error("expected parse error flag")
		}
		if result.Extracted != nil {
			t.Error("expected no structured record")
		}
		if result.Raw == "" {
			t.Error("expected raw reply retained")
		}
	})

	t.Run("empty_text_rejected_without_calling_out", func(t *testing.T) {
		called := false
		_, svc := newExtractionServer(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := svc.Extract(context.Background(), "", "invoice.pdf")
		testutil.AssertAppError(t, err, "NO_EXTRACT_TEXT")
		if called {
			t.Error("expected no upstream call for empty text")
		}
	})

	t.Run("upstream_error_surfaces", func(t *testing.T) {
		_, svc := newExtractionServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"type":"overloaded_error"}}`, http.StatusServiceUnavailable)
		})

		_, err := svc.Extract(context.Background(), "invoice text", "invoice.pdf")
		testutil.AssertAppError(t, err, "EXTRACTION_FAILED")
	})
}

func TestParseReply(t *testing.T) {
	t.Run("nested_braces", func(t *testing.T) {
		result := parseReply(`{"vendorName":"Acme","items":[{"description":"pipe"}]}`)
		if result.ParseError {
			t.Fatal("expected parse to succeed")
		}
		if len(result.Extracted.Items) != 1 || result.Extracted.Items[0].Description != "pipe" {
			t.Errorf("unexpected items: %+v", result.Extracted.Items)
		}
	})

	t.Run("empty_reply", func(t *testing.T) {
		result := parseReply("")
		if !result.ParseError {
			t.Error("expected parse error for empty reply")
		}
	})
}
