package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/internal/dto"
)

func (s *Suite) doAuthed(method, path string, payload any, authorize func(*http.Request)) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	authorize(req)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func bearer(accessToken string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

func apiKey(key string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("X-API-Key", key)
	}
}

func (s *Suite) createTask(auth func(*http.Request), name string) int64 {
	resp := s.doAuthed(http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Name: name}, auth)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created dto.CreatedResponse
	s.decodeJSON(resp, &created)
	return created.ID
}

func (s *Suite) TestTasks_RequireAuthentication() {
	resp, err := http.Get(s.BaseURL + "/api/v1/tasks")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("incomplete authorization header", errResp.Message)
}

func (s *Suite) TestTasks_RejectTamperedToken() {
	s.register("alice", "Password123")
	pair := s.login("alice", "Password123")

	tampered := []byte(pair.AccessToken)
	i := len(tampered) - 2
	if tampered[i] == 'A' {
		tampered[i] = 'B'
	} else {
		tampered[i] = 'A'
	}

	resp := s.doAuthed(http.MethodGet, "/api/v1/tasks", nil, bearer(string(tampered)))
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal("invalid signature", errResp.Message)
}

func (s *Suite) TestTasks_CRUD() {
	s.register("alice", "Password123")
	pair := s.login("alice", "Password123")
	auth := bearer(pair.AccessToken)

	listResp := s.doAuthed(http.MethodGet, "/api/v1/tasks", nil, auth)
	defer listResp.Body.Close()
	s.Require().Equal(http.StatusOK, listResp.StatusCode)

	var tasks []domain.Task
	s.decodeJSON(listResp, &tasks)
	s.Empty(tasks)

	id := s.createTask(auth, "Write report")

	getResp := s.doAuthed(http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, auth)
	defer getResp.Body.Close()
	s.Require().Equal(http.StatusOK, getResp.StatusCode)

	var task domain.Task
	s.decodeJSON(getResp, &task)
	s.Equal("Write report", task.Name)
	s.False(task.IsCompleted)
	s.Nil(task.Priority)

	done := true
	patchResp := s.doAuthed(http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d", id),
		dto.UpdateTaskRequest{IsCompleted: &done}, auth)
	defer patchResp.Body.Close()
	s.Require().Equal(http.StatusOK, patchResp.StatusCode)

	var updated dto.RowsResponse
	s.decodeJSON(patchResp, &updated)
	s.Equal("Task updated", updated.Message)
	s.Equal(int64(1), updated.Rows)

	deleteResp := s.doAuthed(http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", id), nil, auth)
	defer deleteResp.Body.Close()
	s.Require().Equal(http.StatusOK, deleteResp.StatusCode)

	goneResp := s.doAuthed(http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, auth)
	defer goneResp.Body.Close()
	s.Equal(http.StatusNotFound, goneResp.StatusCode)

	var errResp dto.ErrorResponse
	s.decodeJSON(goneResp, &errResp)
	s.Equal(fmt.Sprintf("The task with the id %d was not found", id), errResp.Message)
}

func (s *Suite) TestTasks_CreateWithoutName() {
	s.register("alice", "Password123")
	pair := s.login("alice", "Password123")

	resp := s.doAuthed(http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{}, bearer(pair.AccessToken))
	defer resp.Body.Close()

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp dto.ValidationErrorResponse
	s.decodeJSON(resp, &errResp)
	s.Equal([]string{"name is required"}, errResp.Errors)
}

func (s *Suite) TestTasks_ScopedToOwner() {
	s.register("alice", "Password123")
	s.register("bob", "Password456")

	alicePair := s.login("alice", "Password123")
	bobPair := s.login("bob", "Password456")

	id := s.createTask(bearer(alicePair.AccessToken), "Alice's task")

	resp := s.doAuthed(http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, bearer(bobPair.AccessToken))
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestTasks_APIKeyAccess() {
	registered := s.register("alice", "Password123")
	auth := apiKey(registered.APIKey)

	id := s.createTask(auth, "Keyed task")

	resp := s.doAuthed(http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, auth)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var task domain.Task
	s.decodeJSON(resp, &task)
	s.Equal("Keyed task", task.Name)

	// A key that matches no user is refused
	miss := s.doAuthed(http.MethodGet, "/api/v1/tasks", nil, apiKey("ffffffffffffffffffffffffffffffff"))
	defer miss.Body.Close()
	s.Equal(http.StatusUnauthorized, miss.StatusCode)
}
