package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"govpass-enrollment/models"

	"github.com/stretchr/testify/require"
)

func sampleCreationRequest() models.UserCreationRequest {
	return models.UserCreationRequest{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		PhoneNumber:      "9876543210",
		Gender:           "Female",
		DateOfBirth:      "1815-12-10",
		NationalIDNumber: "AL10121815",
		Photo:            "data:image/jpeg;base64,Zm9v",
	}
}

func TestCreateUserSucceedsOn201(t *testing.T) {
	var received models.UserCreationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message": "User registered successfully!"}`))
	}))
	defer server.Close()

	client := NewIssuanceClient(server.URL, "/api/users/")
	err := client.CreateUser(context.Background(), sampleCreationRequest())

	require.NoError(t, err)
	require.Equal(t, "9876543210", received.PhoneNumber)
	require.Equal(t, "AL10121815", received.NationalIDNumber)
}

func TestCreateUser200IsNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewIssuanceClient(server.URL, "/api/users/")
	err := client.CreateUser(context.Background(), sampleCreationRequest())

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, http.StatusOK, submissionErr.StatusCode)
	require.Equal(t, "Registration failed. Please try again. (Error: 200)", submissionErr.Message)
}

func TestCreateUserUsesApiMessageOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "A user with this national id already exists."}`))
	}))
	defer server.Close()

	client := NewIssuanceClient(server.URL, "/api/users/")
	err := client.CreateUser(context.Background(), sampleCreationRequest())

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, http.StatusBadRequest, submissionErr.StatusCode)
	require.Equal(t, "A user with this national id already exists.", submissionErr.Message)
}

func TestCreateUserFallbackMessageWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewIssuanceClient(server.URL, "/api/users/")
	err := client.CreateUser(context.Background(), sampleCreationRequest())

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	require.Equal(t, "Registration failed. Please try again. (Error: 500)", submissionErr.Message)
}

func TestCreateUserConnectivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewIssuanceClient(server.URL, "/api/users/")
	err := client.CreateUser(context.Background(), sampleCreationRequest())

	require.ErrorIs(t, err, ErrConnectivity)
	var submissionErr *SubmissionError
	require.False(t, errors.As(err, &submissionErr))
}
