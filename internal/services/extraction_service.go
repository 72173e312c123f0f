package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"hardhat/internal/config"
	apperrors "hardhat/internal/errors"
	"hardhat/internal/logger"
)

const extractionMaxTokens = 2048

// extractionPrompt asks the model for a strict-JSON invoice record.
const extractionPrompt = `You are extracting structured data from a construction materials invoice or receipt. The file is named %q.

Extract the following information from this invoice text and return it as JSON:

{
  "vendorName": "string or null",
  "invoiceNumber": "string or null",
  "invoiceDate": "YYYY-MM-DD or null",
  "totalAmount": number or null,
  "taxAmount": number or null,
  "items": [
    {
      "description": "string",
      "quantity": number or null,
      "unitPrice": number or null,
      "totalPrice": number or null
    }
  ]
}

IMPORTANT: Return ONLY valid JSON, no other text.

Invoice text:
%s`

// jsonBlock finds the outermost {...} block in a model reply.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// extractionService calls the external text-completion service to pull
// structured invoice data from raw text. One call, no retries: a failed
// extraction surfaces to the caller, an unparseable reply degrades to a
// raw-text result.
type extractionService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewExtractionService creates an Extractor from application config.
func NewExtractionService(cfg *config.Config) Extractor {
	return &extractionService{
		apiKey:  cfg.ExtractionAPIKey,
		model:   cfg.ExtractionModel,
		baseURL: cfg.ExtractionBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Messages  []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Extract sends the invoice text to the completion service and parses
// the structured record out of the reply, best-effort.
func (s *extractionService) Extract(ctx context.Context, text, fileName string) (*ExtractionResult, error) {
	if text == "" {
		return nil, apperrors.ErrNoExtractText
	}
	if fileName == "" {
		fileName = "unknown"
	}

	payload := completionRequest{
		Model:     s.model,
		MaxTokens: extractionMaxTokens,
		Messages: []completionMessage{
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, fileName, text)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Get().Errorw("extraction request rejected",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed,
			fmt.Errorf("extraction service returned status %d", resp.StatusCode))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, err)
	}

	var reply string
	for _, block := range completion.Content {
		if block.Type == "text" {
			reply = block.Text
			break
		}
	}

	return parseReply(reply), nil
}

// parseReply recovers the structured record from the model reply. When
// no parseable JSON is present the raw reply is returned instead; the
// caller decides what to do with a degraded result.
func parseReply(reply string) *ExtractionResult {
	match := jsonBlock.FindString(reply)
	if match != "" {
		var extracted ExtractedInvoice
		if err := json.Unmarshal([]byte(match), &extracted); err == nil {
			return &ExtractionResult{Extracted: &extracted}
		}
	}
	return &ExtractionResult{Raw: reply, ParseError: true}
}
