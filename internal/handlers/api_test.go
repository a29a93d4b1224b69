package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/router"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.SetJWTSecretForTesting("test-secret")

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))

	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMember{}, &models.Task{}))

	db.DB = testDB

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) (uint, string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	userID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeBody(t, w)["access_token"].(string)
	require.True(t, ok)

	return userID, token
}

func createProject(t *testing.T, r *gin.Engine, token string, name string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return uint(decodeBody(t, w)["id"].(float64))
}

func TestRegister(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "newuser",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "newuser", body["username"])
	assert.Contains(t, body, "id")
	assert.Contains(t, body, "created_at")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	// Same username again: conflict, no second row.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "newuser",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decodeBody(t, w)["kind"])
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ab",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "validuser",
		"password": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Neither request may have reached storage.
	var count int64
	require.NoError(t, db.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	r := setupAPI(t)

	registerAndLogin(t, r, "alice")

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrongpassword",
	})
	unknownUser := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nonexistent",
		"password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestMe(t *testing.T) {
	r := setupAPI(t)

	userID, token := registerAndLogin(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.EqualValues(t, userID, body["id"])

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "invalidtoken", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Register, create a project, and check the NotFound/Forbidden split: a
// stranger gets 403 on an existing project and everyone gets 404 on a
// missing one.
func TestProjectAccessEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, tokenA := registerAndLogin(t, r, "user_a")
	_, tokenB := registerAndLogin(t, r, "user_b")

	projectID := createProject(t, r, tokenA, "P1")

	w := doJSON(t, r, http.MethodGet, "/api/projects", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "P1", projects[0]["name"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/projects/999999", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, ownerToken := registerAndLogin(t, r, "owner")
	bobID, bobToken := registerAndLogin(t, r, "bob")
	carolID, _ := registerAndLogin(t, r, "carol")

	projectID := createProject(t, r, ownerToken, "P1")
	membersPath := fmt.Sprintf("/api/projects/%d/members", projectID)

	w := doJSON(t, r, http.MethodPost, membersPath, ownerToken, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A member may not manage membership.
	w = doJSON(t, r, http.MethodPost, membersPath, bobToken, gin.H{"user_id": carolID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, membersPath, ownerToken, gin.H{"user_id": carolID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, membersPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var members []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	assert.Len(t, members, 2)
}

func TestRemoveMemberEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, ownerToken := registerAndLogin(t, r, "owner")
	bobID, _ := registerAndLogin(t, r, "bob")

	projectID := createProject(t, r, ownerToken, "P1")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), ownerToken, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), ownerToken, gin.H{
		"title":       "bob's task",
		"assignee_id": bobID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", projectID, bobID), ownerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody(t, w)["assignee"])
}

// Exercises the raw JSON presence semantics of the assignee field: set,
// then an empty patch (unchanged), then an explicit null (cleared).
func TestTaskAssigneePatchEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, ownerToken := registerAndLogin(t, r, "owner")
	bobID, _ := registerAndLogin(t, r, "bob")

	projectID := createProject(t, r, ownerToken, "P1")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), ownerToken, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), ownerToken, gin.H{"title": "Test Task"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["id"].(float64))

	taskPath := fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID)

	w = doJSON(t, r, http.MethodPut, taskPath, ownerToken, gin.H{"assignee_id": bobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assignee := decodeBody(t, w)["assignee"].(map[string]interface{})
	assert.EqualValues(t, bobID, assignee["id"])

	w = doJSON(t, r, http.MethodPut, taskPath, ownerToken, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assignee = decodeBody(t, w)["assignee"].(map[string]interface{})
	assert.EqualValues(t, bobID, assignee["id"])

	w = doJSON(t, r, http.MethodPut, taskPath, ownerToken, json.RawMessage(`{"assignee_id": null}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decodeBody(t, w)["assignee"])
}

func TestTaskPartialUpdateEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, token := registerAndLogin(t, r, "owner")
	projectID := createProject(t, r, token, "P1")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), token, gin.H{"title": "Test Task"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decodeBody(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID), token, gin.H{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "done", body["status"])
	assert.Equal(t, "Test Task", body["title"])
}

func TestTaskInvalidAssigneeEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, ownerToken := registerAndLogin(t, r, "owner")
	outsiderID, _ := registerAndLogin(t, r, "outsider")

	projectID := createProject(t, r, ownerToken, "P1")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), ownerToken, gin.H{
		"title":       "bad",
		"assignee_id": outsiderID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["kind"])
}

func TestUserSearchEndToEnd(t *testing.T) {
	r := setupAPI(t)

	_, token := registerAndLogin(t, r, "alice")
	registerAndLogin(t, r, "malice")
	registerAndLogin(t, r, "bob")

	w := doJSON(t, r, http.MethodGet, "/api/users/search?q=ali", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	// Empty query is a validation error, not an empty result.
	w = doJSON(t, r, http.MethodGet, "/api/users/search?q=", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthcheck(t *testing.T) {
	r := setupAPI(t)

	w := doJSON(t, r, http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
