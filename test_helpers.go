package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"govpass-enrollment/camera"
	"govpass-enrollment/enrollment"
	"govpass-enrollment/models"

	"github.com/stretchr/testify/require"
)

var testConfig = ServerConfig{
	Host:           "localhost",
	Port:           8081,
	UseTls:         false,
	TlsCertPath:    "",
	TlsPrivKeyPath: "",
}

const testBaseURL = "http://localhost:8081"

var testDemoUsers = []DemoUser{
	{ID: "demo-1", Name: "Demo Operator", Email: "demo@example.com", Password: "demo123"},
}

func newTestTokenCreator(t *testing.T) *RsaSessionTokenCreator {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &RsaSessionTokenCreator{privateKey: key}
}

func startTestServer(t *testing.T, state *ServerState) *Server {
	t.Helper()

	if state.tokenCreator == nil {
		state.tokenCreator = newTestTokenCreator(t)
	}
	if state.storage == nil {
		state.storage = NewInMemoryEnrollmentStorage()
	}
	if state.demoUsers == nil {
		state.demoUsers = testDemoUsers
	}

	srv, err := NewServer(state, testConfig)
	require.NoError(t, err)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("server error: %v", err)
		}
	}()

	waitUntilHealthy(t, testBaseURL+"/api/health")
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Logf("error shutting down server: %v", err)
		}
	})
	return srv
}

func waitUntilHealthy(t *testing.T, url string) {
	t.Helper()
	const maxAttempts = 50
	for i := 0; i < maxAttempts; i++ {
		if resp, err := http.Get(url); err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server did not start in time")
}

func postJSON[T any](t *testing.T, url, token string, payload any) (*http.Response, []byte, *T) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var v T
	_ = json.Unmarshal(respBody, &v)
	return resp, respBody, &v
}

func getJSON[T any](t *testing.T, url, token string) (*http.Response, []byte, *T) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var v T
	_ = json.Unmarshal(respBody, &v)
	return resp, respBody, &v
}

func mustStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	require.Equalf(t, want, resp.StatusCode, "body: %s", body)
}

// login bootstrap
func login(t *testing.T) string {
	t.Helper()
	resp, body, lr := postJSON[models.LoginResponse](t, testBaseURL+"/api/login", "", models.LoginRequest{
		Email:    testDemoUsers[0].Email,
		Password: testDemoUsers[0].Password,
	})
	mustStatus(t, resp, http.StatusOK, body)
	require.NotEmpty(t, lr.Token)
	return lr.Token
}

// uploadDocument posts a file as the multipart "document" field with the
// given content type.
func uploadDocument(t *testing.T, token, fileName, contentType string, content []byte) (*http.Response, []byte, *EnrollmentResponse) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, testBaseURL+"/api/enrollment/document", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var er EnrollmentResponse
	_ = json.Unmarshal(respBody, &er)
	return resp, respBody, &er
}

func validDetails() models.PersonalDetails {
	return models.PersonalDetails{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+919876543210",
		Gender:      "Female",
		DateOfBirth: "1990-12-10",
		NationalID:  "AL10121990",
	}
}

// advanceToSelfie walks a fresh session through the document and
// personal details steps.
func advanceToSelfie(t *testing.T, token string) {
	t.Helper()

	resp, body, er := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepPersonal, er.Step)

	resp, body, er = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/details", token, validDetails())
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSelfie, er.Step)
}

// test doubles

type fakeProcessor struct {
	result models.OCRResult
	calls  int
}

func (f *fakeProcessor) ProcessDocument(_ context.Context, fileName string, content io.Reader, progress ProgressFunc) models.OCRResult {
	f.calls++
	progress.report("Uploading document...")
	return f.result
}

func successfulProcessor() *fakeProcessor {
	details := validDetails()
	return &fakeProcessor{
		result: models.OCRResult{
			Success:        true,
			Text:           "Name: Ada Lovelace",
			StructuredData: &details,
		},
	}
}

type fakeIssuance struct {
	mutex    sync.Mutex
	err      error
	requests []models.UserCreationRequest
}

func (f *fakeIssuance) CreateUser(_ context.Context, request models.UserCreationRequest) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.requests = append(f.requests, request)
	return f.err
}

func (f *fakeIssuance) setErr(err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.err = err
}

func (f *fakeIssuance) lastRequest(t *testing.T) models.UserCreationRequest {
	t.Helper()
	f.mutex.Lock()
	defer f.mutex.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

type stubCameraStream struct{}

func (stubCameraStream) ReadFrame() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (stubCameraStream) Close() error { return nil }

type stubCameraDevice struct{}

func (stubCameraDevice) Open(_ context.Context) (camera.Stream, error) {
	return stubCameraStream{}, nil
}
