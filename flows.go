package taskmanager

import (
	"errors"
	"fmt"

	"github.com/tebeka/selenium"
)

// Element IDs and control labels of the Task Manager page.
const (
	ExpectedTitle = "Task Manager"

	AddTaskLabel = "Add Task"
	SubmitLabel  = "Submit"

	TaskFormID    = "task-form"
	TitleID       = "title"
	DescriptionID = "description"
	StatusID      = "status"
)

// Task is the data entered into the task form.
type Task struct {
	Title       string
	Description string
	Status      string
}

// PageTitle returns the title of the current document.
func PageTitle(s *Session) (string, error) {
	return s.Driver().Title()
}

// CreateTask opens the task form, fills it in with task and submits it.
// It returns once an element showing the task title has been rendered.
//
// Waits are bounded by the session's wait policy. Form fields are looked
// up without waiting: a missing field is a *LookupError.
func CreateTask(s *Session, task Task) error {
	wd, wait := s.Driver(), s.Wait()

	add, err := wait.ClickableOf(wd, selenium.ByXPATH, ContainsText("button", AddTaskLabel))
	if err != nil {
		return err
	}
	if err := add.Click(); err != nil {
		return fmt.Errorf("clicking %q: %w", AddTaskLabel, err)
	}

	if _, err := wait.PresenceOf(wd, selenium.ByID, TaskFormID); err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return &LookupError{By: selenium.ByID, Value: TaskFormID, Err: fmt.Errorf("not present after %v", te.Timeout)}
		}
		return err
	}

	title, err := find(wd, selenium.ByID, TitleID)
	if err != nil {
		return err
	}
	if err := title.SendKeys(task.Title); err != nil {
		return fmt.Errorf("typing title: %w", err)
	}
	desc, err := find(wd, selenium.ByID, DescriptionID)
	if err != nil {
		return err
	}
	if err := desc.SendKeys(task.Description); err != nil {
		return fmt.Errorf("typing description: %w", err)
	}
	statusElem, err := find(wd, selenium.ByID, StatusID)
	if err != nil {
		return err
	}
	status, err := Select(statusElem)
	if err != nil {
		return err
	}
	if err := status.Choose(task.Status); err != nil {
		return fmt.Errorf("choosing status: %w", err)
	}

	submit, err := find(wd, selenium.ByXPATH, ContainsText("button", SubmitLabel))
	if err != nil {
		return err
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("clicking %q: %w", SubmitLabel, err)
	}

	_, err = wait.PresenceOf(wd, selenium.ByXPATH, ContainsText("div", task.Title))
	return err
}

// TaskElements returns the rendered elements showing title.
func TaskElements(s *Session, title string) ([]selenium.WebElement, error) {
	return s.Driver().FindElements(selenium.ByXPATH, ContainsText("div", title))
}

// find looks an element up once, without waiting.
func find(wd selenium.WebDriver, by, value string) (selenium.WebElement, error) {
	elem, err := wd.FindElement(by, value)
	if err != nil {
		return nil, &LookupError{By: by, Value: value, Err: err}
	}
	return elem, nil
}
