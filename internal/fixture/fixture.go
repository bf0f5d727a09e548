// Package fixture serves a minimal Task Manager application that honours the
// DOM contract the end-to-end tests expect. It lets the suite run without
// the real front end.
package fixture

import (
	_ "embed"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexHTML []byte

// Statuses are the task states the form offers.
var Statuses = []string{"pending", "in-progress", "completed"}

// Task is a task as exchanged over the JSON API.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Store keeps tasks in memory.
type Store struct {
	mu     sync.Mutex
	nextID int
	tasks  []Task
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// List returns a copy of all tasks in creation order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// Add stores t under a fresh ID and returns it.
func (s *Store) Add(t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t
}

// Update replaces the task with t.ID. It reports whether the task existed.
func (s *Store) Update(t Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return true
		}
	}
	return false
}

// Delete removes the task with id. It reports whether the task existed.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// NewRouter returns the application's routes backed by store.
func NewRouter(store *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	api.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.List())
	})
	api.POST("/tasks", func(c *gin.Context) {
		t, ok := bindTask(c)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, store.Add(t))
	})
	api.PUT("/tasks/:id", func(c *gin.Context) {
		id, ok := taskID(c)
		if !ok {
			return
		}
		t, ok := bindTask(c)
		if !ok {
			return
		}
		t.ID = id
		if !store.Update(t) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusOK, t)
	})
	api.DELETE("/tasks/:id", func(c *gin.Context) {
		id, ok := taskID(c)
		if !ok {
			return
		}
		if !store.Delete(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func bindTask(c *gin.Context) (Task, bool) {
	var t Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return Task{}, false
	}
	if t.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return Task{}, false
	}
	if t.Status == "" {
		t.Status = Statuses[0]
	}
	if !validStatus(t.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(t.Status)})
		return Task{}, false
	}
	return t, true
}

func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func validStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}
