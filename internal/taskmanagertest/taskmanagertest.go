// Package taskmanagertest provides the end-to-end tests of the Task Manager
// application. The tests live in their own package so that any harness that
// can supply a session factory (a local ChromeDriver, a remote grid or an
// in-memory fake) can run them.
package taskmanagertest

import (
	"testing"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"

	taskmanager "github.com/wanmail/taskmanager-selenium"
)

// Config describes the deployment under test and how to reach a browser.
type Config struct {
	BaseURL    string
	Wait       taskmanager.WaitPolicy
	Maximize   bool
	NewSession taskmanager.SessionFactory
	// ArtifactDir receives screenshots and browser logs of failed tests.
	ArtifactDir string
}

// NewTask is the task the CreateTask test enters.
var NewTask = taskmanager.Task{
	Title:       "Test Task",
	Description: "This is a test task created by Selenium",
	Status:      "pending",
}

// runTest adapts a test body to t.Run. Bodies take testing.TB so the
// setup and teardown bracket can also be driven outside of t.Run.
func runTest(f func(testing.TB, Config), c Config) func(*testing.T) {
	return func(t *testing.T) {
		f(t, c)
	}
}

// RunTaskManagerTests runs every test case, one at a time, each with a
// fresh browser session.
func RunTaskManagerTests(t *testing.T, c Config) {
	t.Run("PageTitle", runTest(testPageTitle, c))
	t.Run("CreateTask", runTest(testCreateTask, c))
	t.Run("UpdateTask", runTest(testUpdateTask, c))
	t.Run("DeleteTask", runTest(testDeleteTask, c))
}

// newSession opens a session pointed at the base URL. Teardown is
// registered before any step that can fail, so the browser is released
// exactly once on every exit path.
func newSession(t testing.TB, c Config) *taskmanager.Session {
	t.Helper()
	s, err := taskmanager.Open(c.NewSession, taskmanager.SessionOptions{
		BaseURL:  c.BaseURL,
		Wait:     c.Wait,
		Maximize: c.Maximize,
	})
	if s != nil {
		t.Cleanup(func() { closeSession(t, s, c) })
	}
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return s
}

func closeSession(t testing.TB, s *taskmanager.Session, c Config) {
	if t.Failed() {
		if err := taskmanager.Capture(s.Driver(), c.ArtifactDir, t.Name()); err != nil {
			glog.Warningf("Capturing artifacts of %s: %v", t.Name(), err)
		}
	}
	if err := s.Close(); err != nil {
		t.Errorf("teardown: s.Close() returned error: %v", err)
	}
}

func testPageTitle(t testing.TB, c Config) {
	s := newSession(t, c)

	title, err := taskmanager.PageTitle(s)
	if err != nil {
		t.Fatalf("PageTitle() returned error: %v", err)
	}
	if title != taskmanager.ExpectedTitle {
		t.Errorf("PageTitle() = %q, want %q", title, taskmanager.ExpectedTitle)
	}
}

func testCreateTask(t testing.TB, c Config) {
	s := newSession(t, c)

	if err := taskmanager.CreateTask(s, NewTask); err != nil {
		t.Fatalf("CreateTask(%+v) returned error: %v", NewTask, err)
	}

	elems, err := taskmanager.TaskElements(s, NewTask.Title)
	if err != nil {
		t.Fatalf("TaskElements(%q) returned error: %v", NewTask.Title, err)
	}
	if len(elems) < 1 {
		t.Errorf("TaskElements(%q) returned %d elements, want at least 1", NewTask.Title, len(elems))
	}
	logTexts(t, elems)
}

func logTexts(t testing.TB, elems []selenium.WebElement) {
	for _, e := range elems {
		if text, err := e.Text(); err == nil {
			t.Logf("rendered task: %q", text)
		}
	}
}

// TODO: drive the edit control once the application exposes one per task.
func testUpdateTask(t testing.TB, c Config) {
	t.Skip("updating a task is not covered yet")
}

// TODO: drive the delete control once the application exposes one per task.
func testDeleteTask(t testing.TB, c Config) {
	t.Skip("deleting a task is not covered yet")
}
