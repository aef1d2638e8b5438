package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadDocumentReturnsTaskId(t *testing.T) {
	var gotCsrf, gotAuth, gotField, gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/documents/post_document/", r.URL.Path)
		gotCsrf = r.Header.Get("X-CSRFToken")
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "file bytes", string(content))
		gotField = "document"
		gotFileName = header.Filename

		w.Write([]byte(`"abc-123"`))
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "csrf-token", "Token secret")
	taskID, err := client.UploadDocument(context.Background(), "id.png", strings.NewReader("file bytes"))

	require.NoError(t, err)
	require.Equal(t, "abc-123", taskID)
	require.Equal(t, "csrf-token", gotCsrf)
	require.Equal(t, "Token secret", gotAuth)
	require.Equal(t, "document", gotField)
	require.Equal(t, "id.png", gotFileName)
}

func TestUploadDocumentUnquotedTaskId(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("abc-123\n"))
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	taskID, err := client.UploadDocument(context.Background(), "id.png", strings.NewReader("x"))

	require.NoError(t, err)
	require.Equal(t, "abc-123", taskID)
}

func TestUploadDocumentEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`""`))
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	_, err := client.UploadDocument(context.Background(), "id.png", strings.NewReader("x"))

	require.Error(t, err)
	require.Contains(t, err.Error(), "no task id")
}

func TestUploadDocumentServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	_, err := client.UploadDocument(context.Background(), "id.png", strings.NewReader("x"))

	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestListTasksDecodesTaskList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/tasks/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 7, "task_id": "t1", "status": "SUCCESS", "task_file_name": "id.png", "related_document": 42},
			{"id": 8, "task_id": "t2", "status": "FAILURE", "task_file_name": "id.png", "result": "unreadable"}
		]`))
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	tasks, err := client.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, int64(7), tasks[0].ID)
	require.Equal(t, "t1", tasks[0].TaskID)
	require.Equal(t, int64(42), tasks[0].RelatedDocument)
	require.Equal(t, "unreadable", tasks[1].Result)
	require.Zero(t, tasks[1].RelatedDocument)
}

func TestRetrieveContentRequestsFullPerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/documents/42/", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("full_perms"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "content": "Name: Ada Lovelace"}`))
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	content, err := client.RetrieveContent(context.Background(), 42)

	require.NoError(t, err)
	require.Equal(t, "Name: Ada Lovelace", content)
}

func TestRetrieveContentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewDmsClient(server.URL, "", "")
	_, err := client.RetrieveContent(context.Background(), 42)

	require.Error(t, err)
	require.Contains(t, err.Error(), "status 404")
}
