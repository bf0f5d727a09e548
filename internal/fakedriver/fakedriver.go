// Package fakedriver provides an in-memory selenium.WebDriver backed by a
// tiny DOM. It understands only the selectors the suite issues: by ID, by
// tag name, and the XPath forms
//
//	//tag[contains(text(), 'literal')]
//	.//option[@value = 'literal']
//
// Methods of selenium.WebDriver and selenium.WebElement that the suite does
// not call panic.
package fakedriver

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

// Element is a node of the fake DOM.
type Element struct {
	selenium.WebElement

	Tag, ID, Label string
	Value          string
	Hidden         bool
	Disabled       bool
	Selected       bool
	Children       []*Element

	// StateErr, if set, is returned by IsDisplayed and IsEnabled.
	StateErr error
	// OnClick runs after a successful click.
	OnClick func(e *Element)

	parent *Element
}

// NewElement returns an element with the given tag, ID and text.
func NewElement(tag, id, label string, children ...*Element) *Element {
	e := &Element{Tag: tag, ID: id, Label: label}
	e.Append(children...)
	return e
}

// Append adds children to e.
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		c.parent = e
		e.Children = append(e.Children, c)
	}
}

// Page is a loaded document.
type Page struct {
	Title string
	Body  *Element
}

// Driver is a fake browser session.
type Driver struct {
	selenium.WebDriver

	// Load returns the page served at a URL.
	Load func(url string) (*Page, error)
	// MaximizeErr, if set, is returned by MaximizeWindow.
	MaximizeErr error

	Page      *Page
	URL       string
	Maximized bool
	Quits     int
	Console   []log.Message

	id string
}

var sessionCount atomic.Int64

// New returns a session whose pages come from load.
func New(load func(url string) (*Page, error)) *Driver {
	return &Driver{Load: load, id: fmt.Sprintf("fake-session-%d", sessionCount.Add(1))}
}

func (d *Driver) SessionID() string { return d.id }

func (d *Driver) Quit() error {
	d.Quits++
	if d.Quits > 1 {
		return &selenium.Error{Err: "invalid session id", Message: "session already deleted", HTTPCode: http.StatusNotFound}
	}
	return nil
}

func (d *Driver) MaximizeWindow(name string) error {
	if d.MaximizeErr != nil {
		return d.MaximizeErr
	}
	d.Maximized = true
	return nil
}

func (d *Driver) Get(url string) error {
	p, err := d.Load(url)
	if err != nil {
		return &selenium.Error{Err: "unknown error", Message: err.Error(), HTTPCode: http.StatusInternalServerError}
	}
	d.Page, d.URL = p, url
	return nil
}

func (d *Driver) Title() (string, error) {
	if d.Page == nil {
		return "", nil
	}
	return d.Page.Title, nil
}

func (d *Driver) root() *Element {
	if d.Page == nil {
		return nil
	}
	return d.Page.Body
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	return findOne(d.root(), by, value, true)
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	return findAll(d.root(), by, value, true)
}

// Screenshot returns the PNG signature; enough to prove a file was written.
func (d *Driver) Screenshot() ([]byte, error) {
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

func (d *Driver) Log(typ log.Type) ([]log.Message, error) {
	if typ != log.Browser {
		return nil, fmt.Errorf("log type %q not configured", typ)
	}
	return d.Console, nil
}

// Logf appends a message to the fake browser console.
func (d *Driver) Logf(level log.Level, format string, args ...interface{}) {
	d.Console = append(d.Console, log.Message{Timestamp: time.Now(), Level: level, Message: fmt.Sprintf(format, args...)})
}

func (e *Element) Click() error {
	if e.Hidden || e.Disabled {
		return &selenium.Error{Err: "element not interactable", Message: fmt.Sprintf("<%s id=%q> is not interactable", e.Tag, e.ID), HTTPCode: http.StatusBadRequest}
	}
	if e.Tag == "option" && e.parent != nil {
		for _, sib := range e.parent.Children {
			sib.Selected = false
		}
		e.Selected = true
	}
	if e.OnClick != nil {
		e.OnClick(e)
	}
	return nil
}

func (e *Element) SendKeys(keys string) error {
	if e.Hidden || e.Disabled {
		return &selenium.Error{Err: "element not interactable", HTTPCode: http.StatusBadRequest}
	}
	e.Value += keys
	return nil
}

func (e *Element) TagName() (string, error)  { return e.Tag, nil }
func (e *Element) Text() (string, error)     { return e.Label, nil }
func (e *Element) IsDisplayed() (bool, error) {
	if e.StateErr != nil {
		return false, e.StateErr
	}
	return !e.Hidden, nil
}

func (e *Element) IsEnabled() (bool, error) {
	if e.StateErr != nil {
		return false, e.StateErr
	}
	return !e.Disabled, nil
}
func (e *Element) IsSelected() (bool, error)  { return e.Selected, nil }

func (e *Element) GetAttribute(name string) (string, error) {
	switch name {
	case "id":
		return e.ID, nil
	case "value":
		return e.Value, nil
	}
	return "", &selenium.Error{Err: "no such attribute", HTTPCode: http.StatusNotFound}
}

func (e *Element) FindElement(by, value string) (selenium.WebElement, error) {
	return findOne(e, by, value, false)
}

func (e *Element) FindElements(by, value string) ([]selenium.WebElement, error) {
	return findAll(e, by, value, false)
}

var (
	containsTextRE = regexp.MustCompile(`^//([a-z*]+)\[contains\(text\(\), (?:'([^']*)'|"([^"]*)")\)\]$`)
	optionValueRE  = regexp.MustCompile(`^\.//option\[@value = (?:'([^']*)'|"([^"]*)")\]$`)
)

func matcher(by, value string) (func(*Element) bool, error) {
	switch by {
	case selenium.ByID:
		return func(e *Element) bool { return e.ID == value }, nil
	case selenium.ByTagName:
		return func(e *Element) bool { return e.Tag == value }, nil
	case selenium.ByXPATH:
		if m := containsTextRE.FindStringSubmatch(value); m != nil {
			tag, text := m[1], m[2]+m[3]
			return func(e *Element) bool {
				return (tag == "*" || e.Tag == tag) && strings.Contains(e.Label, text)
			}, nil
		}
		if m := optionValueRE.FindStringSubmatch(value); m != nil {
			v := m[1] + m[2]
			return func(e *Element) bool { return e.Tag == "option" && e.Value == v }, nil
		}
	}
	return nil, &selenium.Error{Err: "invalid selector", Message: fmt.Sprintf("unsupported selector %s=%q", by, value), HTTPCode: http.StatusBadRequest}
}

// walk visits root (if includeRoot) and its descendants in document order.
func walk(root *Element, includeRoot bool, visit func(*Element)) {
	if root == nil {
		return
	}
	if includeRoot {
		visit(root)
	}
	for _, c := range root.Children {
		walk(c, true, visit)
	}
}

func findAll(root *Element, by, value string, includeRoot bool) ([]selenium.WebElement, error) {
	match, err := matcher(by, value)
	if err != nil {
		return nil, err
	}
	var found []selenium.WebElement
	walk(root, includeRoot, func(e *Element) {
		if match(e) {
			found = append(found, e)
		}
	})
	return found, nil
}

func findOne(root *Element, by, value string, includeRoot bool) (selenium.WebElement, error) {
	found, err := findAll(root, by, value, includeRoot)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &selenium.Error{
			Err:      "no such element",
			Message:  fmt.Sprintf("Unable to locate element: {%q: %q}", by, value),
			HTTPCode: http.StatusNotFound,
		}
	}
	return found[0], nil
}
