package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"govpass-enrollment/camera"
	"govpass-enrollment/document"
	"govpass-enrollment/enrollment"
	"govpass-enrollment/models"
	"govpass-enrollment/phone"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const ErrorInternal = "error:internal"
const ERR_MARSHAL = "failed to marshal response message"
const ERR_STATE_STORE = "failed to store enrollment state"
const ERR_STATE_RETRIEVAL = "failed to get enrollment state"
const ERR_UNAUTHORIZED = "invalid or missing session token"
const ERR_CONNECTIVITY_MESSAGE = "Network error. Please check your connection and try again."

type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	UseTls         bool   `json:"use_tls,omitempty"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty"`
	TlsCertPath    string `json:"tls_cert_path,omitempty"`
	StaticPath     string `json:"static_path,omitempty"`
}

// DocumentProcessor runs the OCR/extraction pipeline for an upload.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, fileName string, content io.Reader, progress ProgressFunc) models.OCRResult
}

// DemoUser is a mock credential pair; there is no real identity
// provider behind the login step.
type DemoUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ServerState struct {
	storage      EnrollmentStorage
	tokenCreator SessionTokenCreator
	processor    DocumentProcessor
	issuance     UserCreationClient
	cameraDevice camera.Device // nil when no kiosk camera is configured
	demoUsers    []DemoUser
}

type SpaHandler struct {
	staticPath string
	indexPath  string
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

// ServeHTTP inspects the URL path to locate a file within the static dir
// on the SPA handler. If a file is found, it will be served. If not, the
// file located at the index path on the SPA handler will be served. This
// is suitable behavior for serving an SPA (single page application).
// https://github.com/gorilla/mux?tab=readme-ov-file#serving-single-page-applications
func (h SpaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Debug("SPA handler serving request", "path", r.URL.Path)
	// Join internally call path.Clean to prevent directory traversal
	path := filepath.Join(h.staticPath, r.URL.Path)
	// check whether a file exists or is a directory at the given path
	fi, err := os.Stat(path)
	if os.IsNotExist(err) || fi.IsDir() {
		// file does not exist or path is a directory, serve index.html
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	if err != nil {
		slog.Error("Error stating file", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := newRouter(state, config)

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		// The write timeout has to outlast the worst case of the OCR
		// polling loop, which the document handler waits out inline.
		WriteTimeout: 150 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

func newRouter(state *ServerState, config ServerConfig) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	})

	router.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		handleLogin(state, w, r)
	})
	router.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		handleRegister(state, w, r)
	})
	router.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		handleLogout(state, w, r)
	})
	router.HandleFunc("/api/enrollment", func(w http.ResponseWriter, r *http.Request) {
		handleGetEnrollment(state, w, r)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/enrollment/document", func(w http.ResponseWriter, r *http.Request) {
		handleUploadDocument(state, w, r)
	})
	router.HandleFunc("/api/enrollment/details", func(w http.ResponseWriter, r *http.Request) {
		handleSubmitDetails(state, w, r)
	})
	router.HandleFunc("/api/enrollment/selfie/capture", func(w http.ResponseWriter, r *http.Request) {
		handleCaptureSelfie(state, w, r)
	})
	router.HandleFunc("/api/enrollment/selfie", func(w http.ResponseWriter, r *http.Request) {
		handleSubmitSelfie(state, w, r)
	})
	router.HandleFunc("/api/enrollment/retry", func(w http.ResponseWriter, r *http.Request) {
		handleRetry(state, w, r)
	})
	router.HandleFunc("/api/enrollment/restart", func(w http.ResponseWriter, r *http.Request) {
		handleRestart(state, w, r)
	})

	slog.Debug("Registered all API routes")

	if config.StaticPath != "" {
		spa := SpaHandler{staticPath: config.StaticPath, indexPath: "index.html"}
		router.PathPrefix("/").Handler(spa)
	}

	return router
}

type EnrollmentResponse struct {
	Step          enrollment.Step          `json:"step"`
	Document      *enrollment.DocumentInfo `json:"document,omitempty"`
	ExtractedText string                   `json:"extracted_text,omitempty"`
	Extracted     *models.PersonalDetails  `json:"extracted,omitempty"`
	Details       *models.PersonalDetails  `json:"details,omitempty"`
	HasSelfie     bool                     `json:"has_selfie"`
	Error         string                   `json:"error,omitempty"`
}

// enrollmentResponse projects the stored state for the client. The raw
// selfie data URL stays server-side.
func enrollmentResponse(state enrollment.State) EnrollmentResponse {
	return EnrollmentResponse{
		Step:          state.Step,
		Document:      state.Document,
		ExtractedText: state.ExtractedText,
		Extracted:     state.Extracted,
		Details:       state.Details,
		HasSelfie:     state.Selfie != "",
		Error:         state.Error,
	}
}

func handleLogin(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode login request", err)
		return
	}

	user, ok := lookupDemoUser(state.demoUsers, request.Email, request.Password)
	if !ok {
		respondWithErr(w, http.StatusUnauthorized, "Invalid email or password.", "login rejected", fmt.Errorf("unknown credentials for %s", request.Email))
		return
	}

	startSession(state, w, user)
}

func handleRegister(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode register request", err)
		return
	}
	if request.Email == "" || request.Password == "" || request.FirstName == "" {
		respondWithErr(w, http.StatusBadRequest, "name, email and password are required", "incomplete registration", nil)
		return
	}

	user := models.User{
		ID:    NewUserID(),
		Name:  strings.TrimSpace(request.FirstName + " " + request.LastName),
		Email: request.Email,
	}
	startSession(state, w, user)
}

// startSession issues a session token and seeds a fresh wizard state.
func startSession(state *ServerState, w http.ResponseWriter, user models.User) {
	sessionID := GenerateSessionId()
	if sessionID == "" {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, "failed to generate session ID", fmt.Errorf("failed to generate session ID"))
		return
	}

	token, err := state.tokenCreator.CreateSessionToken(user, sessionID)
	if err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, "failed to create session token", err)
		return
	}

	if err := state.storage.StoreState(sessionID, enrollment.New()); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	slog.Info("Session started", "user_id", user.ID, "session_id", sessionID)
	if err := writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: user}); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func handleLogout(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	// Logout discards everything accumulated so far.
	if err := state.storage.RemoveState(sessionID); err != nil {
		slog.Debug("No enrollment state to remove on logout", "session_id", sessionID, "error", err)
	}

	slog.Info("Session ended", "session_id", sessionID)
	if err := writeJSON(w, http.StatusOK, map[string]bool{"ok": true}); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func handleGetEnrollment(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "no enrollment in progress", ERR_STATE_RETRIEVAL, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, enrollmentResponse(current)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func handleUploadDocument(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "no enrollment in progress", ERR_STATE_RETRIEVAL, err)
		return
	}
	if current.Step != enrollment.StepDocument {
		respondWithErr(w, http.StatusConflict, "not on the document step", "document upload at wrong step", fmt.Errorf("current step: %s", current.Step))
		return
	}

	if err := r.ParseMultipartForm(document.MaxUploadSize + 1<<20); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid multipart request", "failed to parse multipart form", err)
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "missing document field", "failed to read uploaded file", err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := document.ValidateUpload(contentType, header.Size); err != nil {
		// A rejected file leaves the previous wizard state untouched.
		respondWithErr(w, http.StatusBadRequest, err.Error(), "document rejected by validator", err)
		return
	}

	slog.Info("Processing uploaded document", "session_id", sessionID, "file_name", header.Filename, "size", header.Size)
	result := state.processor.ProcessDocument(r.Context(), header.Filename, file, func(message string) {
		slog.Debug("Extraction progress", "session_id", sessionID, "message", message)
	})

	if !result.Success {
		// Hard pipeline failure: stay on the document step, the user
		// may retry with the same or another file.
		respondWithErr(w, http.StatusBadGateway, result.Error, "extraction pipeline failed", fmt.Errorf("%s", result.Error))
		return
	}

	doc := enrollment.DocumentInfo{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}
	next, err := current.DocumentProcessed(doc, result)
	if err != nil {
		respondWithErr(w, http.StatusConflict, "invalid step transition", "document transition rejected", err)
		return
	}
	if err := state.storage.StoreState(sessionID, next); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	slog.Info("Document processed", "session_id", sessionID, "degraded", next.Extracted == nil)
	if err := writeJSON(w, http.StatusOK, enrollmentResponse(next)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func handleSubmitDetails(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "no enrollment in progress", ERR_STATE_RETRIEVAL, err)
		return
	}

	var details models.PersonalDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode personal details", err)
		return
	}

	next, err := current.DetailsSubmitted(details)
	if err != nil {
		var fieldErrs enrollment.FieldErrors
		if errors.As(err, &fieldErrs) {
			slog.Debug("Personal details rejected", "session_id", sessionID, "fields", fieldErrs)
			if err := writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs}); err != nil {
				respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
			}
			return
		}
		respondWithErr(w, http.StatusConflict, "invalid step transition", "details transition rejected", err)
		return
	}

	if err := state.storage.StoreState(sessionID, next); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	slog.Info("Personal details accepted", "session_id", sessionID)
	if err := writeJSON(w, http.StatusOK, enrollmentResponse(next)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

type CaptureResponse struct {
	Image string `json:"image"`
}

// handleCaptureSelfie drives the kiosk camera. The capture owns the
// stream only for the duration of this request: released on a
// successful photo, released on every error path via Close.
func handleCaptureSelfie(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	if state.cameraDevice == nil {
		respondWithErr(w, http.StatusServiceUnavailable, "no camera available", "selfie capture without camera device", nil)
		return
	}

	capture := camera.NewCapture(state.cameraDevice)
	defer func() {
		if err := capture.Close(); err != nil {
			slog.Error("failed to release camera stream", "error", err)
		}
	}()

	if err := capture.Start(r.Context()); err != nil {
		respondWithErr(w, http.StatusBadGateway, "Unable to access camera. Please ensure you have granted camera permissions.", "camera acquisition failed", err)
		return
	}

	image, err := capture.TakePhoto()
	if err != nil {
		respondWithErr(w, http.StatusBadGateway, "failed to capture photo", "camera capture failed", err)
		return
	}

	slog.Info("Selfie captured", "session_id", sessionID, "size", len(image))
	if err := writeJSON(w, http.StatusOK, CaptureResponse{Image: image}); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

type SelfieSubmission struct {
	Image string `json:"image"`
}

func handleSubmitSelfie(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "no enrollment in progress", ERR_STATE_RETRIEVAL, err)
		return
	}

	var submission SelfieSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode selfie submission", err)
		return
	}

	withSelfie, err := current.SelfieCaptured(submission.Image)
	if err != nil {
		respondWithErr(w, http.StatusConflict, "invalid step transition", "selfie transition rejected", err)
		return
	}

	details := withSelfie.Details
	payload := models.UserCreationRequest{
		FirstName:        details.FirstName,
		LastName:         details.LastName,
		Email:            details.Email,
		PhoneNumber:      phone.StripCountryCode(details.Phone),
		Gender:           details.Gender,
		DateOfBirth:      details.DateOfBirth,
		NationalIDNumber: details.NationalID,
		Photo:            withSelfie.Selfie,
	}

	slog.Info("Submitting registration", "session_id", sessionID)
	next := concludeSubmission(withSelfie, state.issuance.CreateUser(r.Context(), payload))

	if err := state.storage.StoreState(sessionID, next); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	slog.Info("Registration concluded", "session_id", sessionID, "step", next.Step)
	if err := writeJSON(w, http.StatusOK, enrollmentResponse(next)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

// concludeSubmission maps the issuance outcome onto the terminal steps:
// nil error reaches success, a connectivity failure gets the generic
// message, an API rejection carries its own.
func concludeSubmission(current enrollment.State, submitErr error) enrollment.State {
	if submitErr == nil {
		next, err := current.SubmissionSucceeded()
		if err != nil {
			slog.Error("success transition rejected", "error", err)
			return current
		}
		return next
	}

	message := submitErr.Error()
	var rejection *SubmissionError
	if errors.Is(submitErr, ErrConnectivity) {
		message = ERR_CONNECTIVITY_MESSAGE
	} else if errors.As(submitErr, &rejection) {
		message = rejection.Message
	}

	next, err := current.SubmissionFailed(message)
	if err != nil {
		slog.Error("failure transition rejected", "error", err)
		return current
	}
	return next
}

func handleRetry(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "no enrollment in progress", ERR_STATE_RETRIEVAL, err)
		return
	}

	next, err := current.Retry()
	if err != nil {
		respondWithErr(w, http.StatusConflict, "invalid step transition", "retry rejected", err)
		return
	}

	if err := state.storage.StoreState(sessionID, next); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, enrollmentResponse(next)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func handleRestart(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	_, sessionID, ok := authenticate(state, w, r)
	if !ok {
		return
	}

	current, err := state.storage.RetrieveState(sessionID)
	if err != nil {
		// Starting over without prior state is fine.
		current = enrollment.New()
	}

	next := current.StartOver()
	if err := state.storage.StoreState(sessionID, next); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_STATE_STORE, err)
		return
	}

	slog.Info("Enrollment restarted", "session_id", sessionID)
	if err := writeJSON(w, http.StatusOK, enrollmentResponse(next)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

// -----------------------------------------------------------------------------------

// authenticate resolves the bearer token into a user and session id,
// answering 401 itself when that fails.
func authenticate(state *ServerState, w http.ResponseWriter, r *http.Request) (models.User, string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		respondWithErr(w, http.StatusUnauthorized, ERR_UNAUTHORIZED, "missing bearer token", nil)
		return models.User{}, "", false
	}

	user, sessionID, err := state.tokenCreator.ParseSessionToken(token)
	if err != nil {
		respondWithErr(w, http.StatusUnauthorized, ERR_UNAUTHORIZED, "session token rejected", err)
		return models.User{}, "", false
	}
	return user, sessionID, true
}

func lookupDemoUser(users []DemoUser, email, password string) (models.User, bool) {
	for _, candidate := range users {
		if candidate.Email == email && candidate.Password == password {
			return models.User{ID: candidate.ID, Name: candidate.Name, Email: candidate.Email}, true
		}
	}
	return models.User{}, false
}

func GenerateSessionId() string {
	sessionId := make([]byte, 16)
	if _, err := rand.Read(sessionId); err != nil {
		slog.Error("failed to generate session ID", "error", err)
		return ""
	}
	return fmt.Sprintf("%x", sessionId)
}

// NewUserID mints an id for a freshly registered mock user.
func NewUserID() string {
	return uuid.NewString()
}

func respondWithErr(w http.ResponseWriter, code int, responseBody string, logMsg string, e error) {
	slog.Error(logMsg, "error", e, "status_code", code, "response_body", responseBody)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(responseBody)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// helpers ------------

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed, "method not allowed", "invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
	return nil
}
