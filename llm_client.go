package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"govpass-enrollment/models"
)

// extractionContext is the instruction sent with every extraction call.
// The remote endpoint forwards it to a language model together with the
// OCR text and the format template.
const extractionContext = "You are an AI that extracts structured data from OCR text of national ID documents. " +
	"Extract the following specific fields for a government ID registration form. " +
	"Return only valid JSON with the exact structure provided in formatTemplate. " +
	"Instructions: firstName: Extract the person's first name/given name, " +
	"lastName: Extract the person's last name/family name/surname, " +
	"email: Extract email address if present (usually not on ID cards, leave empty if not found). " +
	"If it looks like a partial email (missing '@' or domain), attempt to intelligently infer and reconstruct it as a valid email format, " +
	"phone: Extract phone number if present (usually not on ID cards, leave empty if not found), " +
	"gender: Extract gender (Male/Female/Other) - look for M/F or full words, " +
	"dateOfBirth: Extract date of birth in YYYY-MM-DD format (convert from any date format found), " +
	"nationalId: Extract the National ID number/card number/identification number. " +
	"Important: If a field is not found in the document, leave it as an empty string. " +
	"For dates, convert to YYYY-MM-DD format regardless of original format. " +
	"For gender, standardize to 'Male', 'Female', or 'Other'. " +
	"Be very careful to extract the correct National ID number (not other numbers). " +
	"Return only the JSON object, no additional text or explanations."

// FieldExtractionClient turns cleaned OCR text into the seven personal
// details fields.
type FieldExtractionClient interface {
	ExtractFields(ctx context.Context, content string) (*models.PersonalDetails, error)
}

// LlmClient implements FieldExtractionClient against the hosted
// extraction endpoint.
type LlmClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewLlmClient(url, apiKey string) *LlmClient {
	return &LlmClient{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type extractionRequest struct {
	Context        string                 `json:"context"`
	Content        string                 `json:"content"`
	FormatTemplate models.PersonalDetails `json:"formatTemplate"`
}

func (c *LlmClient) ExtractFields(ctx context.Context, content string) (*models.PersonalDetails, error) {
	payload := extractionRequest{
		Context: extractionContext,
		Content: content,
		// The zero value is exactly the template: all seven keys, all
		// empty strings.
		FormatTemplate: models.PersonalDetails{},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("extraction failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// The endpoint answers with a flat JSON object. Values may come
	// back as non-strings depending on the model, so coerce everything
	// and default missing fields to empty strings.
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	details := &models.PersonalDetails{
		FirstName:   coerceString(raw["firstName"]),
		LastName:    coerceString(raw["lastName"]),
		Email:       coerceString(raw["email"]),
		Phone:       coerceString(raw["phone"]),
		Gender:      coerceString(raw["gender"]),
		DateOfBirth: coerceString(raw["dateOfBirth"]),
		NationalID:  coerceString(raw["nationalId"]),
	}
	return details, nil
}

func coerceString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// Numbers like phone or id values must not round-trip through
		// scientific notation.
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
