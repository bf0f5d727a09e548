package fakedriver

import (
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

// AppOptions describes how the fake Task Manager deviates from the real one.
// The zero value behaves correctly.
type AppOptions struct {
	// Title overrides the document title.
	Title string
	// AddTaskDisabled keeps the "Add Task" button disabled.
	AddTaskDisabled bool
	// NoForm makes "Add Task" do nothing.
	NoForm bool
	// OmitField leaves the form field with this ID out of the form.
	OmitField string
	// NoRender accepts submissions without rendering them in the list.
	NoRender bool
}

// SubmittedTask is a task received through the form.
type SubmittedTask struct {
	Title, Description, Status string
}

// App is a fake Task Manager application. Submitted tasks survive across
// sessions, like a real backend.
type App struct {
	Opts     AppOptions
	Tasks    []SubmittedTask
	Sessions []*Driver
}

// NewApp returns a fake application.
func NewApp(opts AppOptions) *App {
	return &App{Opts: opts}
}

// NewSession starts a session against the app. Its signature matches a
// session factory.
func (a *App) NewSession() (selenium.WebDriver, error) {
	d := New(a.page)
	a.Sessions = append(a.Sessions, d)
	return d, nil
}

func (a *App) page(url string) (*Page, error) {
	title := a.Opts.Title
	if title == "" {
		title = "Task Manager"
	}
	list := NewElement("div", "task-list", "")
	for _, t := range a.Tasks {
		list.Append(NewElement("div", "", t.Title))
	}
	add := NewElement("button", "", "Add Task")
	add.Disabled = a.Opts.AddTaskDisabled
	body := NewElement("body", "", "", NewElement("h1", "", title), add, list)

	add.OnClick = func(*Element) {
		if a.Opts.NoForm || findByID(body, "task-form") != nil {
			return
		}
		body.Append(a.form(body, list))
	}
	return &Page{Title: title, Body: body}, nil
}

func (a *App) form(body, list *Element) *Element {
	form := NewElement("form", "task-form", "")
	fields := []*Element{
		NewElement("input", "title", ""),
		NewElement("textarea", "description", ""),
		NewElement("select", "status", "",
			&Element{Tag: "option", Value: "pending", Label: "Pending", Selected: true},
			&Element{Tag: "option", Value: "in-progress", Label: "In Progress"},
			&Element{Tag: "option", Value: "completed", Label: "Completed"},
		),
	}
	for _, f := range fields {
		if f.ID != a.Opts.OmitField {
			form.Append(f)
		}
	}
	submit := NewElement("button", "", "Submit")
	submit.OnClick = func(*Element) {
		t := SubmittedTask{
			Title:       value(form, "title"),
			Description: value(form, "description"),
			Status:      selectedValue(form, "status"),
		}
		if strings.TrimSpace(t.Title) == "" {
			for _, d := range a.Sessions {
				d.Logf(log.Warning, "task title is required")
			}
			return
		}
		a.Tasks = append(a.Tasks, t)
		if !a.Opts.NoRender {
			list.Append(NewElement("div", "", t.Title))
		}
		remove(body, form)
	}
	form.Append(submit)
	return form
}

func findByID(root *Element, id string) *Element {
	var found *Element
	walk(root, true, func(e *Element) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}

func value(root *Element, id string) string {
	if e := findByID(root, id); e != nil {
		return e.Value
	}
	return ""
}

func selectedValue(root *Element, id string) string {
	sel := findByID(root, id)
	if sel == nil {
		return ""
	}
	for _, o := range sel.Children {
		if o.Selected {
			return o.Value
		}
	}
	return ""
}

func remove(parent, child *Element) {
	kept := parent.Children[:0]
	for _, c := range parent.Children {
		if c != child {
			kept = append(kept, c)
		}
	}
	parent.Children = kept
	child.parent = nil
}
