package taskmanager

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// SelectElement wraps a <select> element.
type SelectElement struct {
	element selenium.WebElement
}

// Select wraps el, which must be a <select> element.
func Select(el selenium.WebElement) (SelectElement, error) {
	tagName, err := el.TagName()
	if err != nil {
		return SelectElement{}, err
	}
	if strings.ToLower(tagName) != "select" {
		return SelectElement{}, fmt.Errorf(`element should have been "select" but was %q`, tagName)
	}
	return SelectElement{element: el}, nil
}

// Element returns the underlying <select> element.
func (s SelectElement) Element() selenium.WebElement {
	return s.element
}

// Options returns all of the options of the select.
func (s SelectElement) Options() ([]selenium.WebElement, error) {
	return s.element.FindElements(selenium.ByTagName, "option")
}

// FirstSelected returns the first selected option.
func (s SelectElement) FirstSelected() (selenium.WebElement, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		sel, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if sel {
			return o, nil
		}
	}
	return nil, fmt.Errorf("no option is selected")
}

// SelectByValue selects the option whose value attribute equals value.
func (s SelectElement) SelectByValue(value string) error {
	opts, err := s.element.FindElements(selenium.ByXPATH, ".//option[@value = "+xpathLiteral(value)+"]")
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("cannot locate option with value: %s", value)
	}
	return setSelected(opts[0])
}

// SelectByVisibleText selects the option whose trimmed text equals text,
// ignoring case.
func (s SelectElement) SelectByVisibleText(text string) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	want := strings.TrimSpace(text)
	for _, o := range opts {
		got, err := o.Text()
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(got), want) {
			return setSelected(o)
		}
	}
	return fmt.Errorf("cannot locate option with text: %s", text)
}

// Choose selects by value, falling back to visible text. This mirrors
// typing the choice into a focused select.
func (s SelectElement) Choose(choice string) error {
	if err := s.SelectByValue(choice); err == nil {
		return nil
	}
	return s.SelectByVisibleText(choice)
}

func setSelected(option selenium.WebElement) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel {
		return nil
	}
	return option.Click()
}
