package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anil29717/DeepDoc/internal/models"
)

const defaultBaseURL = "http://localhost:8000"

// Client talks to the DeepDoc backend API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string

	// OnUnauthorized is called once per 401 response so the caller can
	// invalidate its auth context.
	OnUnauthorized func()
}

// NewClient creates a new API client. The base URL is taken from the
// DEEPDOC_API_URL environment variable when set.
func NewClient(baseURL, token string) *Client {
	if env := os.Getenv("DEEPDOC_API_URL"); env != "" {
		baseURL = env
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// makeRequest makes an HTTP request and returns the response body.
func (c *Client) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// --- Auth ---

// LoginResponse carries the bearer token and account returned by login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (c *Client) Signup(email, password, name string) error {
	reqBody := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}
	_, err := c.makeRequest("POST", "/api/auth/signup", reqBody)
	return err
}

func (c *Client) Login(email, password string) (*LoginResponse, error) {
	reqBody := map[string]string{
		"email":    email,
		"password": password,
	}
	respBody, err := c.makeRequest("POST", "/api/auth/login", reqBody)
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := json.Unmarshal(respBody, &login); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	return &login, nil
}

// --- Documents ---

func (c *Client) ListDocuments() ([]models.Document, error) {
	respBody, err := c.makeRequest("GET", "/api/documents", nil)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := json.Unmarshal(respBody, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}
	return docs, nil
}

func (c *Client) GetDocument(id int) (*models.Document, error) {
	respBody, err := c.makeRequest("GET", "/api/documents/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (c *Client) GetDocumentStatus(id int) (models.DocumentStatus, error) {
	respBody, err := c.makeRequest("GET", "/api/documents/"+strconv.Itoa(id)+"/status", nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Status models.DocumentStatus `json:"status"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return result.Status, nil
}

func (c *Client) DeleteDocument(id int) error {
	_, err := c.makeRequest("DELETE", "/api/documents/"+strconv.Itoa(id), nil)
	return err
}

// UploadDocument uploads one file as multipart form data, optionally into a
// folder. The returned document carries the server-assigned id and initial
// processing status.
func (c *Client) UploadDocument(path string, folderID *int) (*models.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	endpoint := "/api/documents/upload"
	if folderID != nil {
		endpoint += "?folder_id=" + strconv.Itoa(*folderID)
	}

	req, err := http.NewRequest("POST", c.BaseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result struct {
		DocumentID int                   `json:"document_id"`
		Filename   string                `json:"filename"`
		Status     models.DocumentStatus `json:"status"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upload response: %w", err)
	}

	return &models.Document{
		ID:       result.DocumentID,
		Filename: result.Filename,
		Status:   result.Status,
		FolderID: folderID,
	}, nil
}

// --- Folders ---

func (c *Client) ListFolders() ([]models.Folder, error) {
	respBody, err := c.makeRequest("GET", "/api/folders", nil)
	if err != nil {
		return nil, err
	}

	var folders []models.Folder
	if err := json.Unmarshal(respBody, &folders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folders: %w", err)
	}
	return folders, nil
}

func (c *Client) CreateFolder(name string) (*models.Folder, error) {
	respBody, err := c.makeRequest("POST", "/api/folders", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	var folder models.Folder
	if err := json.Unmarshal(respBody, &folder); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder: %w", err)
	}
	return &folder, nil
}

// DeleteFolder removes a folder. Documents inside it are not deleted; the
// server leaves them unassigned.
func (c *Client) DeleteFolder(id int) error {
	_, err := c.makeRequest("DELETE", "/api/folders/"+strconv.Itoa(id), nil)
	return err
}

func (c *Client) ListFolderDocuments(id int) ([]models.Document, error) {
	respBody, err := c.makeRequest("GET", "/api/folders/"+strconv.Itoa(id)+"/documents", nil)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := json.Unmarshal(respBody, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder documents: %w", err)
	}
	return docs, nil
}

// --- Chat ---

// AskResponse is the answer to a single question.
type AskResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	ConversationID int      `json:"conversation_id"`
}

// Ask sends a question scoped to exactly one of documentID/folderID.
func (c *Client) Ask(question string, documentID, folderID *int) (*AskResponse, error) {
	reqBody := map[string]interface{}{
		"question": question,
	}
	if documentID != nil {
		reqBody["document_id"] = *documentID
	}
	if folderID != nil {
		reqBody["folder_id"] = *folderID
	}

	respBody, err := c.makeRequest("POST", "/api/chat/ask", reqBody)
	if err != nil {
		return nil, err
	}

	var result AskResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer: %w", err)
	}
	return &result, nil
}

// History fetches the ordered transcript for a document or folder. Roles are
// normalized to upper case; the backend stores them inconsistently.
func (c *Client) History(id int, isFolder bool) ([]models.Message, error) {
	endpoint := "/api/chat/history/" + strconv.Itoa(id)
	if isFolder {
		endpoint += "?is_folder=true"
	}

	respBody, err := c.makeRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var msgs []models.Message
	if err := json.Unmarshal(respBody, &msgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	for i := range msgs {
		msgs[i].Role = models.Role(strings.ToUpper(string(msgs[i].Role)))
	}
	return msgs, nil
}

// SendFeedback records a rating for an assistant message.
func (c *Client) SendFeedback(messageID, rating int, comment string) error {
	reqBody := map[string]interface{}{
		"message_id": messageID,
		"rating":     rating,
	}
	if comment != "" {
		reqBody["comment"] = comment
	}
	_, err := c.makeRequest("POST", "/api/chat/feedback", reqBody)
	return err
}

// --- Admin ---

func (c *Client) AdminListUsers() ([]models.User, error) {
	respBody, err := c.makeRequest("GET", "/api/admin/users", nil)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := json.Unmarshal(respBody, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

func (c *Client) AdminSetUserStatus(userID int, active bool) error {
	reqBody := map[string]bool{"is_active": active}
	_, err := c.makeRequest("PATCH", "/api/admin/users/"+strconv.Itoa(userID)+"/status", reqBody)
	return err
}

func (c *Client) AdminListDocuments() ([]models.Document, error) {
	respBody, err := c.makeRequest("GET", "/api/admin/documents", nil)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := json.Unmarshal(respBody, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}
	return docs, nil
}

// AdminUploadForUser uploads a document on behalf of another user.
func (c *Client) AdminUploadForUser(path string, userID int) (*models.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := writer.WriteField("user_id", strconv.Itoa(userID)); err != nil {
		return nil, fmt.Errorf("failed to write user_id field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/api/admin/upload-for-user", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// --- Misc ---

func (c *Client) Health() error {
	_, err := c.makeRequest("GET", "/api/health", nil)
	return err
}
