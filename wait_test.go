package taskmanager

import (
	"errors"
	"testing"
	"time"

	"github.com/tebeka/selenium"

	"github.com/wanmail/taskmanager-selenium/internal/fakedriver"
)

type countingCondition struct {
	checks, holdAfter int
	err               error
}

func (c *countingCondition) String() string { return "counting condition" }

func (c *countingCondition) Check(selenium.WebDriver) (bool, error) {
	c.checks++
	if c.err != nil {
		return false, c.err
	}
	return c.checks >= c.holdAfter, nil
}

func TestUntil(t *testing.T) {
	p := WaitPolicy{Timeout: time.Second, Interval: time.Millisecond}
	cond := &countingCondition{holdAfter: 3}
	if err := p.Until(nil, cond); err != nil {
		t.Fatalf("Until() returned error: %v", err)
	}
	if cond.checks != 3 {
		t.Errorf("condition checked %d times, want 3", cond.checks)
	}
}

func TestUntilTimeout(t *testing.T) {
	p := WaitPolicy{Timeout: 20 * time.Millisecond, Interval: time.Millisecond}
	cond := &countingCondition{holdAfter: 1 << 30}
	err := p.Until(nil, cond)
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Until() = %v, want a *TimeoutError", err)
	}
	if te.Timeout != p.Timeout || te.Condition != "counting condition" {
		t.Errorf("Until() = %+v, want timeout %v for %q", te, p.Timeout, "counting condition")
	}
}

func TestUntilChecksOnceWithZeroTimeout(t *testing.T) {
	cond := &countingCondition{holdAfter: 1}
	if err := (WaitPolicy{}).Until(nil, cond); err != nil {
		t.Fatalf("Until() returned error: %v", err)
	}
	if cond.checks != 1 {
		t.Errorf("condition checked %d times, want 1", cond.checks)
	}
}

func TestUntilConditionError(t *testing.T) {
	p := WaitPolicy{Timeout: time.Hour, Interval: time.Millisecond}
	boom := errors.New("boom")
	cond := &countingCondition{err: boom}
	err := p.Until(nil, cond)
	if !errors.Is(err, boom) {
		t.Fatalf("Until() = %v, want it to wrap %v", err, boom)
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		t.Errorf("Until() = %v; a failing condition is not a timeout", err)
	}
	if cond.checks != 1 {
		t.Errorf("condition checked %d times, want 1", cond.checks)
	}
}

func fakePage(children ...*fakedriver.Element) *fakedriver.Driver {
	body := fakedriver.NewElement("body", "", "", children...)
	d := fakedriver.New(func(string) (*fakedriver.Page, error) {
		return &fakedriver.Page{Title: "t", Body: body}, nil
	})
	if err := d.Get("http://localhost/"); err != nil {
		panic(err)
	}
	return d
}

func TestElementConditions(t *testing.T) {
	hidden := fakedriver.NewElement("button", "hidden", "Hidden")
	hidden.Hidden = true
	disabled := fakedriver.NewElement("button", "disabled", "Disabled")
	disabled.Disabled = true
	ready := fakedriver.NewElement("button", "ready", "Ready")
	stale := fakedriver.NewElement("button", "stale", "Stale")
	stale.StateErr = &selenium.Error{Err: "stale element reference", HTTPCode: 404}
	dead := fakedriver.NewElement("button", "dead", "Dead")
	dead.StateErr = &selenium.Error{Err: "invalid session id", HTTPCode: 404}
	wd := fakePage(hidden, disabled, ready, stale, dead)

	tests := []struct {
		desc    string
		cond    *ElementCondition
		want    bool
		wantErr bool
	}{
		{desc: "present hidden", cond: ElementPresent(selenium.ByID, "hidden"), want: true},
		{desc: "clickable hidden", cond: ElementClickable(selenium.ByID, "hidden"), want: false},
		{desc: "clickable disabled", cond: ElementClickable(selenium.ByID, "disabled"), want: false},
		{desc: "clickable ready", cond: ElementClickable(selenium.ByXPATH, ContainsText("button", "Ready")), want: true},
		{desc: "absent", cond: ElementPresent(selenium.ByID, "nope"), want: false},
		{desc: "clickable stale", cond: ElementClickable(selenium.ByID, "stale"), want: false},
		{desc: "clickable dead session", cond: ElementClickable(selenium.ByID, "dead"), wantErr: true},
	}
	for _, tc := range tests {
		got, err := tc.cond.Check(wd)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: Check() returned nil error", tc.desc)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: Check() returned error: %v", tc.desc, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: Check() = %t, want %t", tc.desc, got, tc.want)
		}
		if got && tc.cond.Element == nil {
			t.Errorf("%s: Check() held but recorded no element", tc.desc)
		}
	}
}

func TestElementConditionInvalidSelector(t *testing.T) {
	wd := fakePage()
	_, err := ElementPresent(selenium.ByCSSSelector, "#x").Check(wd)
	if err == nil {
		t.Fatal("Check() with an unsupported selector returned nil error")
	}
	if IsNoSuchElement(err) {
		t.Errorf("IsNoSuchElement(%v) = true, want false", err)
	}
}

func TestUntilDeadSessionIsNotATimeout(t *testing.T) {
	add := fakedriver.NewElement("button", "", "Add Task")
	add.StateErr = &selenium.Error{Err: "invalid session id", HTTPCode: 404}
	wd := fakePage(add)

	p := WaitPolicy{Timeout: time.Hour, Interval: time.Millisecond}
	start := time.Now()
	err := p.Until(wd, ElementClickable(selenium.ByXPATH, ContainsText("button", "Add Task")))
	if err == nil {
		t.Fatal("Until() returned nil error for a dead session")
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		t.Errorf("Until() = %v; a dead session is not a timeout", err)
	}
	var se *selenium.Error
	if !errors.As(err, &se) || se.Err != "invalid session id" {
		t.Errorf("Until() = %v, want it to wrap the driver error", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Until() took %v; driver errors should end the wait at once", elapsed)
	}
}
