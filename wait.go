package taskmanager

import (
	"fmt"
	"time"

	"github.com/tebeka/selenium"
)

// WaitPolicy is a bounded polling strategy for DOM conditions.
type WaitPolicy struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultWaitPolicy polls every DefaultWaitInterval for up to
// DefaultWaitTimeout.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{Timeout: DefaultWaitTimeout, Interval: DefaultWaitInterval}
}

// Condition is a named predicate on the page. Check returns true once the
// condition holds; a non-nil error aborts the wait.
type Condition interface {
	String() string
	Check(wd selenium.WebDriver) (bool, error)
}

// Until polls cond until it holds, it fails, or the timeout elapses. The
// condition is always checked at least once.
func (p WaitPolicy) Until(wd selenium.WebDriver, cond Condition) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	deadline := time.Now().Add(p.Timeout)
	for {
		done, err := cond.Check(wd)
		if err != nil {
			return fmt.Errorf("waiting for %s: %w", cond, err)
		}
		if done {
			debugLog("condition %s holds", cond)
			return nil
		}
		if !time.Now().Before(deadline) {
			return &TimeoutError{Condition: cond.String(), Timeout: p.Timeout}
		}
		time.Sleep(interval)
	}
}

// ElementCondition waits for an element located by (By, Value). Once the
// wait succeeds, Element holds the matched element.
type ElementCondition struct {
	By, Value string
	// Clickable additionally requires the element to be displayed and
	// enabled.
	Clickable bool

	Element selenium.WebElement
}

// ElementPresent returns a condition that holds once an element matching
// (by, value) is in the DOM.
func ElementPresent(by, value string) *ElementCondition {
	return &ElementCondition{By: by, Value: value}
}

// ElementClickable returns a condition that holds once an element matching
// (by, value) is displayed and enabled.
func ElementClickable(by, value string) *ElementCondition {
	return &ElementCondition{By: by, Value: value, Clickable: true}
}

func (c *ElementCondition) String() string {
	state := "present"
	if c.Clickable {
		state = "clickable"
	}
	return fmt.Sprintf("element %s=%q to be %s", c.By, c.Value, state)
}

// Check implements Condition. A lookup that matches nothing, or an element
// that went stale between lookup and inspection, means "not yet".
func (c *ElementCondition) Check(wd selenium.WebDriver) (bool, error) {
	elem, err := wd.FindElement(c.By, c.Value)
	if err != nil {
		if IsNoSuchElement(err) {
			return false, nil
		}
		return false, err
	}
	if c.Clickable {
		displayed, err := elem.IsDisplayed()
		if err != nil {
			return false, notYetIfStale(err)
		}
		if !displayed {
			return false, nil
		}
		enabled, err := elem.IsEnabled()
		if err != nil {
			return false, notYetIfStale(err)
		}
		if !enabled {
			return false, nil
		}
	}
	c.Element = elem
	return true, nil
}

// notYetIfStale drops err if it only says the element was detached from the
// DOM, which a re-render does routinely.
func notYetIfStale(err error) error {
	if IsStaleElement(err) {
		return nil
	}
	return err
}

// PresenceOf waits for an element to be present and returns it.
func (p WaitPolicy) PresenceOf(wd selenium.WebDriver, by, value string) (selenium.WebElement, error) {
	cond := ElementPresent(by, value)
	if err := p.Until(wd, cond); err != nil {
		return nil, err
	}
	return cond.Element, nil
}

// ClickableOf waits for an element to be clickable and returns it.
func (p WaitPolicy) ClickableOf(wd selenium.WebDriver, by, value string) (selenium.WebElement, error) {
	cond := ElementClickable(by, value)
	if err := p.Until(wd, cond); err != nil {
		return nil, err
	}
	return cond.Element, nil
}
