package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"govpass-enrollment/models"
)

// ErrConnectivity marks a submission that never reached the issuance
// API at all, as opposed to one it rejected.
var ErrConnectivity = errors.New("could not reach the registration service")

// SubmissionError is a rejection from the issuance API: any response
// status other than 201.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// UserCreationClient posts the final enrollment payload to the identity
// issuance API.
type UserCreationClient interface {
	CreateUser(ctx context.Context, request models.UserCreationRequest) error
}

type IssuanceClient struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
}

func NewIssuanceClient(baseURL, endpoint string) *IssuanceClient {
	return &IssuanceClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUser succeeds only on HTTP 201. Other statuses are surfaced as
// a *SubmissionError carrying the API's message when one can be parsed,
// transport failures as ErrConnectivity.
func (c *IssuanceClient) CreateUser(ctx context.Context, request models.UserCreationRequest) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal user creation payload: %w", err)
	}

	url := c.baseURL + c.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create user creation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("User creation request did not reach the API", "error", err)
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		var created models.UserCreationResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err == nil && created.Message != "" {
			slog.Info("User created", "message", created.Message)
		}
		return nil
	}

	message := fmt.Sprintf("Registration failed. Please try again. (Error: %d)", resp.StatusCode)
	var apiError models.UserCreationResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiError); err == nil && apiError.Message != "" {
		message = apiError.Message
	}

	slog.Warn("User creation rejected", "status_code", resp.StatusCode, "message", message)
	return &SubmissionError{StatusCode: resp.StatusCode, Message: message}
}
