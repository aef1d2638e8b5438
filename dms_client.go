package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"govpass-enrollment/models"
)

// DocumentIntakeClient talks to the document management system that
// runs OCR as an asynchronous job queue.
type DocumentIntakeClient interface {
	// UploadDocument sends the raw file and returns the OCR task id.
	UploadDocument(ctx context.Context, fileName string, content io.Reader) (string, error)

	// ListTasks fetches the full task list; the caller filters it.
	ListTasks(ctx context.Context) ([]models.Task, error)

	// RetrieveContent fetches the extracted text of a processed document.
	RetrieveContent(ctx context.Context, documentID int64) (string, error)
}

// DmsClient implements DocumentIntakeClient against the DMS HTTP API.
// The CSRF token and Authorization header are static configuration, not
// derived per request.
type DmsClient struct {
	baseURL    string
	csrfToken  string
	authHeader string
	httpClient *http.Client
}

func NewDmsClient(baseURL, csrfToken, authHeader string) *DmsClient {
	return &DmsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		csrfToken:  csrfToken,
		authHeader: authHeader,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *DmsClient) setHeaders(req *http.Request) {
	req.Header.Set("X-CSRFToken", c.csrfToken)
	req.Header.Set("Authorization", c.authHeader)
}

// UploadDocument posts the file as the multipart field "document". The
// DMS answers with the task id as a quoted string in the body.
func (c *DmsClient) UploadDocument(ctx context.Context, fileName string, content io.Reader) (string, error) {
	url := fmt.Sprintf("%s/api/documents/post_document/", c.baseURL)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to copy document into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	taskID := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if taskID == "" {
		return "", fmt.Errorf("upload response contained no task id")
	}

	slog.Debug("Document uploaded", "file_name", fileName, "task_id", taskID)
	return taskID, nil
}

func (c *DmsClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	url := fmt.Sprintf("%s/api/tasks/", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create task list request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute task list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("task list failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var tasks []models.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	return tasks, nil
}

func (c *DmsClient) RetrieveContent(ctx context.Context, documentID int64) (string, error) {
	url := fmt.Sprintf("%s/api/documents/%d/?full_perms=true", c.baseURL, documentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create document request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute document request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document retrieval failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode document response: %w", err)
	}
	return payload.Content, nil
}
