package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"govpass-enrollment/enrollment"
	"govpass-enrollment/models"

	"github.com/stretchr/testify/require"
)

func TestFullEnrollmentFlow(t *testing.T) {
	issuance := &fakeIssuance{}
	startTestServer(t, &ServerState{
		processor: successfulProcessor(),
		issuance:  issuance,
	})

	token := login(t)

	resp, body, er := getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", token)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepDocument, er.Step)

	resp, body, er = uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepPersonal, er.Step)
	require.Equal(t, "Name: Ada Lovelace", er.ExtractedText)
	require.NotNil(t, er.Extracted)
	require.Equal(t, "Ada", er.Extracted.FirstName)

	resp, body, er = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/details", token, validDetails())
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSelfie, er.Step)

	resp, body, er = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/selfie", token, SelfieSubmission{
		Image: "data:image/jpeg;base64,Zm9v",
	})
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSuccess, er.Step)
	require.True(t, er.HasSelfie)

	submitted := issuance.lastRequest(t)
	require.Equal(t, "Ada", submitted.FirstName)
	require.Equal(t, "9876543210", submitted.PhoneNumber) // country code stripped
	require.Equal(t, "data:image/jpeg;base64,Zm9v", submitted.Photo)
}

func TestEnrollmentRequiresSession(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	resp, body, _ := getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", "")
	mustStatus(t, resp, http.StatusUnauthorized, body)

	resp, body, _ = getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", "not-a-real-token")
	mustStatus(t, resp, http.StatusUnauthorized, body)

	resp, body, _ = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/details", "", validDetails())
	mustStatus(t, resp, http.StatusUnauthorized, body)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	resp, body, _ := postJSON[models.LoginResponse](t, testBaseURL+"/api/login", "", models.LoginRequest{
		Email:    "demo@example.com",
		Password: "wrong",
	})
	mustStatus(t, resp, http.StatusUnauthorized, body)
}

func TestRegisterStartsSession(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	resp, body, lr := postJSON[models.LoginResponse](t, testBaseURL+"/api/register", "", models.RegisterRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "secret",
	})
	mustStatus(t, resp, http.StatusOK, body)
	require.NotEmpty(t, lr.Token)
	require.Equal(t, "Grace Hopper", lr.User.Name)

	resp, body, er := getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", lr.Token)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepDocument, er.Step)
}

func TestRegisterRequiresNameEmailAndPassword(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	resp, body, _ := postJSON[models.LoginResponse](t, testBaseURL+"/api/register", "", models.RegisterRequest{
		Email: "grace@example.com",
	})
	mustStatus(t, resp, http.StatusBadRequest, body)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	processor := successfulProcessor()
	startTestServer(t, &ServerState{processor: processor, issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := uploadDocument(t, token, "notes.txt", "text/plain", []byte("plain text"))
	mustStatus(t, resp, http.StatusBadRequest, body)
	require.Zero(t, processor.calls)

	// the wizard is still on the document step and accepts a valid file
	resp, body, er := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepPersonal, er.Step)
}

func TestUploadRejectedAtWrongStep(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)

	resp, body, _ = uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusConflict, body)
}

func TestUploadExtractionFailureKeepsDocumentStep(t *testing.T) {
	processor := &fakeProcessor{result: models.OCRResult{Success: false, Error: "OCR processing failed or timed out"}}
	startTestServer(t, &ServerState{processor: processor, issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusBadGateway, body)
	require.Contains(t, string(body), "OCR processing failed or timed out")

	resp, body, er := getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", token)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepDocument, er.Step)
}

func TestUploadDegradedExtractionStillAdvances(t *testing.T) {
	processor := &fakeProcessor{result: models.OCRResult{
		Success: true,
		Text:    "Name: Ada Lovelace",
		Error:   "AI processing failed, but text extraction was successful",
	}}
	startTestServer(t, &ServerState{processor: processor, issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, er := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepPersonal, er.Step)
	require.Equal(t, "Name: Ada Lovelace", er.ExtractedText)
	require.Nil(t, er.Extracted)
	require.Equal(t, "AI processing failed, but text extraction was successful", er.Error)

	// the note is part of the stored state, not just the upload response
	resp, body, er = getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", token)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, "AI processing failed, but text extraction was successful", er.Error)
}

func TestDetailsValidationErrors(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := uploadDocument(t, token, "id.png", "image/png", []byte("fake image"))
	mustStatus(t, resp, http.StatusOK, body)

	invalid := validDetails()
	invalid.Email = "not-an-email"
	invalid.Phone = "12345"

	type errorResponse struct {
		Errors map[string]string `json:"errors"`
	}
	resp, body, er := postJSON[errorResponse](t, testBaseURL+"/api/enrollment/details", token, invalid)
	mustStatus(t, resp, http.StatusBadRequest, body)
	require.Contains(t, er.Errors, "email")
	require.Contains(t, er.Errors, "phone")

	// state unchanged, valid details still accepted
	resp, body, state := postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/details", token, validDetails())
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSelfie, state.Step)
}

func TestSubmissionRejectionThenRetry(t *testing.T) {
	issuance := &fakeIssuance{err: &SubmissionError{StatusCode: http.StatusBadRequest, Message: "A user with this national id already exists."}}
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: issuance})

	token := login(t)
	advanceToSelfie(t, token)

	resp, body, er := postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/selfie", token, SelfieSubmission{Image: "data:image/jpeg;base64,Zm9v"})
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepFailed, er.Step)
	require.Equal(t, "A user with this national id already exists.", er.Error)
	require.True(t, er.HasSelfie)

	resp, body, er = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/retry", token, nil)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSelfie, er.Step)
	require.False(t, er.HasSelfie)
	require.Empty(t, er.Error)

	issuance.setErr(nil)
	resp, body, er = postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/selfie", token, SelfieSubmission{Image: "data:image/jpeg;base64,Zm9v"})
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepSuccess, er.Step)
}

func TestSubmissionConnectivityFailure(t *testing.T) {
	issuance := &fakeIssuance{err: fmt.Errorf("%w: dial tcp: connection refused", ErrConnectivity)}
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: issuance})

	token := login(t)
	advanceToSelfie(t, token)

	resp, body, er := postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/selfie", token, SelfieSubmission{Image: "data:image/jpeg;base64,Zm9v"})
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepFailed, er.Step)
	require.Equal(t, ERR_CONNECTIVITY_MESSAGE, er.Error)
}

func TestRestartDiscardsEverything(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	token := login(t)
	advanceToSelfie(t, token)

	resp, body, er := postJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment/restart", token, nil)
	mustStatus(t, resp, http.StatusOK, body)
	require.Equal(t, enrollment.StepDocument, er.Step)
	require.Nil(t, er.Document)
	require.Nil(t, er.Details)
	require.Empty(t, er.ExtractedText)
}

func TestLogoutRemovesState(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := postJSON[map[string]bool](t, testBaseURL+"/api/logout", token, nil)
	mustStatus(t, resp, http.StatusOK, body)

	resp, body, _ = getJSON[EnrollmentResponse](t, testBaseURL+"/api/enrollment", token)
	mustStatus(t, resp, http.StatusNotFound, body)
}

func TestCaptureSelfieWithKioskCamera(t *testing.T) {
	startTestServer(t, &ServerState{
		processor:    successfulProcessor(),
		issuance:     &fakeIssuance{},
		cameraDevice: stubCameraDevice{},
	})

	token := login(t)
	resp, body, capture := postJSON[CaptureResponse](t, testBaseURL+"/api/enrollment/selfie/capture", token, nil)
	mustStatus(t, resp, http.StatusOK, body)
	require.True(t, strings.HasPrefix(capture.Image, "data:image/jpeg;base64,"))
}

func TestCaptureSelfieWithoutCamera(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	token := login(t)
	resp, body, _ := postJSON[CaptureResponse](t, testBaseURL+"/api/enrollment/selfie/capture", token, nil)
	mustStatus(t, resp, http.StatusServiceUnavailable, body)
}

func TestMutatingRoutesRejectGet(t *testing.T) {
	startTestServer(t, &ServerState{processor: successfulProcessor(), issuance: &fakeIssuance{}})

	for _, path := range []string{
		"/api/login",
		"/api/register",
		"/api/logout",
		"/api/enrollment/document",
		"/api/enrollment/details",
		"/api/enrollment/selfie",
		"/api/enrollment/retry",
		"/api/enrollment/restart",
	} {
		resp, body, _ := getJSON[map[string]any](t, testBaseURL+path, "")
		mustStatus(t, resp, http.StatusMethodNotAllowed, body)
	}
}
