package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anil29717/DeepDoc/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, "test-token")
	return client, srv
}

func TestErrorMessagePreference(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "detail preferred",
			body: `{"detail": "Document is not ready for chat yet.", "message": "generic"}`,
			want: "Document is not ready for chat yet.",
		},
		{
			name: "message fallback",
			body: `{"message": "Folder not found"}`,
			want: "Folder not found",
		},
		{
			name: "raw body fallback",
			body: `oops`,
			want: "API error (status 400): oops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := client.ListDocuments()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestAskSendsExactlyOneID(t *testing.T) {
	var got map[string]interface{}
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{"answer": "ok", "sources": []string{}, "conversation_id": 1})
	}))
	defer srv.Close()

	docID := 42
	resp, err := client.Ask("what?", &docID, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Answer)

	assert.Equal(t, "what?", got["question"])
	assert.Equal(t, float64(42), got["document_id"])
	_, hasFolder := got["folder_id"]
	assert.False(t, hasFolder, "folder_id must be absent for a document ask")
}

func TestHistoryNormalizesRoles(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/history/7", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("is_folder"))
		json.NewEncoder(w).Encode([]map[string]string{
			{"role": "user", "content": "q"},
			{"role": "ASSISTANT", "content": "a"},
		})
	}))
	defer srv.Close()

	msgs, err := client.History(7, true)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestUploadDocumentMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644))

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/upload", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("folder_id"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":     "PDF uploaded successfully",
			"document_id": 11,
			"filename":    "report.pdf",
			"status":      "PROCESSING",
		})
	}))
	defer srv.Close()

	three := 3
	doc, err := client.UploadDocument(path, &three)
	require.NoError(t, err)
	assert.Equal(t, 11, doc.ID)
	assert.Equal(t, "report.pdf", doc.Filename)
	assert.Equal(t, models.StatusProcessing, doc.Status)
	require.NotNil(t, doc.FolderID)
	assert.Equal(t, 3, *doc.FolderID)
}

func TestOnUnauthorizedCallback(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token"}`))
	}))
	defer srv.Close()

	called := false
	client.OnUnauthorized = func() { called = true }

	_, err := client.ListDocuments()
	require.Error(t, err)
	assert.True(t, called)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid token", ServerMessage(err))
}

func TestLogin(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok123",
			"token_type":   "bearer",
			"user":         map[string]interface{}{"id": 1, "email": "a@b.c", "name": "A", "is_admin": true},
		})
	}))
	defer srv.Close()

	resp, err := client.Login("a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok123", resp.AccessToken)
	assert.Equal(t, 1, resp.User.ID)
	assert.True(t, resp.User.IsAdmin)
}
