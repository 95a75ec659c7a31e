// Package habiticatest provides an in-process fake of the Habitica task API.
package habiticatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fentz26/habiterm/internal/models"
)

// Call is one request seen by the fake server.
type Call struct {
	Method string
	Path   string
	Query  string
}

// Server is a fake Habitica API backed by memory.
type Server struct {
	UserID   string
	APIToken string

	mu       sync.Mutex
	tasks    []models.Task
	calls    []Call
	failOps  map[string]int
	failText map[string]bool
	srv      *httptest.Server
}

// New starts a fake server accepting the given credentials.
func New(userID, apiToken string) *Server {
	s := &Server{
		UserID:   userID,
		APIToken: apiToken,
		failOps:  make(map[string]int),
		failText: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/tasks/user", s.handleUserTasks)
	mux.HandleFunc("/api/v3/tasks/", s.handleTaskByID)
	s.srv = httptest.NewServer(s.authenticate(mux))
	return s
}

// URL returns the API root to pass to the client.
func (s *Server) URL() string { return s.srv.URL + "/api/v3" }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Seed adds tasks, assigning ids where missing.
func (s *Server) Seed(tasks ...models.Task) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.New().String()
		}
		s.tasks = append(s.tasks, tasks[i])
	}
	return tasks
}

// Tasks returns a copy of the stored tasks.
func (s *Server) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task(nil), s.tasks...)
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts requests matching method whose path starts with prefix.
func (s *Server) CountCalls(method, prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

// FailOp makes every request of op ("list", "create", "update", "delete",
// "score") answer with status. A zero status clears the failure.
func (s *Server) FailOp(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failOps, op)
		return
	}
	s.failOps[op] = status
}

// FailCreateText rejects creation of tasks with this exact text.
func (s *Server) FailCreateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failText[text] = true
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api/v3"), Query: r.URL.RawQuery})
		s.mu.Unlock()

		if r.Header.Get("x-api-user") != s.UserID || r.Header.Get("x-api-key") != s.APIToken {
			writeError(w, http.StatusUnauthorized, "NotAuthorized", "Missing authentication headers.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failure(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOps[op]
}

// handleUserTasks handles GET and POST /tasks/user
func (s *Server) handleUserTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTasks(w, r)
	case http.MethodPost:
		s.createTask(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	}
}

// handleTaskByID handles /tasks/{id} and /tasks/{id}/score/{direction}
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v3/tasks/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "BadRequest", "task id required")
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.updateTask(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.deleteTask(w, id)
	case len(parts) == 3 && parts[1] == "score" && r.Method == http.MethodPost:
		s.scoreTask(w, id, parts[2])
	default:
		writeError(w, http.StatusNotFound, "NotFound", "not found")
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	if status := s.failure("list"); status != 0 {
		writeError(w, status, "Injected", "list failed")
		return
	}

	var want models.TaskType
	if typ := r.URL.Query().Get("type"); typ != "" {
		c, err := models.ParseCategory(typ)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
			return
		}
		want = c.TaskType()
	}

	out := []models.Task{}
	for _, t := range s.Tasks() {
		if want == "" || t.Type == want {
			out = append(out, t)
		}
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	if status := s.failure("create"); status != 0 {
		writeError(w, status, "Injected", "create failed")
		return
	}

	var req models.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid json")
		return
	}
	switch req.Type {
	case models.TaskTypeHabit, models.TaskTypeDaily, models.TaskTypeTodo, models.TaskTypeReward:
	default:
		writeError(w, http.StatusBadRequest, "BadRequest", "Task validation failed: invalid type")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "BadRequest", "Task validation failed: text required")
		return
	}

	s.mu.Lock()
	rejected := s.failText[req.Text]
	s.mu.Unlock()
	if rejected {
		writeError(w, http.StatusBadRequest, "BadRequest", "rejected")
		return
	}

	req.ID = uuid.New().String()
	req.Value = 0
	s.mu.Lock()
	s.tasks = append(s.tasks, req)
	s.mu.Unlock()
	writeData(w, http.StatusCreated, req)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, id string) {
	if status := s.failure("update"); status != 0 {
		writeError(w, status, "Injected", "update failed")
		return
	}

	var upd models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if upd.Text != nil {
			s.tasks[i].Text = *upd.Text
		}
		if upd.Notes != nil {
			s.tasks[i].Notes = *upd.Notes
		}
		if upd.Priority != nil {
			s.tasks[i].Priority = *upd.Priority
		}
		writeData(w, http.StatusOK, s.tasks[i])
		return
	}
	writeError(w, http.StatusNotFound, "NotFound", "Task not found.")
}

func (s *Server) deleteTask(w http.ResponseWriter, id string) {
	if status := s.failure("delete"); status != 0 {
		writeError(w, status, "Injected", "delete failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			writeData(w, http.StatusOK, struct{}{})
			return
		}
	}
	writeError(w, http.StatusNotFound, "NotFound", "Task not found.")
}

func (s *Server) scoreTask(w http.ResponseWriter, id, direction string) {
	if status := s.failure("score"); status != 0 {
		writeError(w, status, "Injected", "score failed")
		return
	}

	delta := 1.0
	switch direction {
	case "up":
	case "down":
		delta = -1
	default:
		writeError(w, http.StatusBadRequest, "BadRequest", "invalid direction")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Value += delta
			writeData(w, http.StatusOK, models.ScoreResult{Delta: delta, HP: 50, Exp: 10, GP: 5, Lvl: 3})
			return
		}
	}
	writeError(w, http.StatusNotFound, "NotFound", "Task not found.")
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": code, "message": message})
}
