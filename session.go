package taskmanager

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// SessionFactory starts a new browser session. Tests receive one so that
// the browser engine, or a fake, can be swapped without touching them.
type SessionFactory func() (selenium.WebDriver, error)

// RemoteFactory returns a factory that starts sessions with caps on the
// WebDriver server at addr.
func RemoteFactory(caps selenium.Capabilities, addr string) SessionFactory {
	return func() (selenium.WebDriver, error) {
		return selenium.NewRemote(caps, addr)
	}
}

// Session is a browser session owned by exactly one test.
type Session struct {
	wd     selenium.WebDriver
	wait   WaitPolicy
	closed bool
}

// SessionOptions controls how Open prepares a session.
type SessionOptions struct {
	BaseURL  string
	Wait     WaitPolicy
	Maximize bool
}

// Open starts a session, optionally maximizes its window, navigates it to
// the base URL and waits for the document body.
//
// If the session was started but a later step failed, Open returns both the
// session and the error; the caller still owns the session and must Close
// it.
func Open(newSession SessionFactory, opts SessionOptions) (*Session, error) {
	wd, err := newSession()
	if err != nil {
		return nil, &SessionError{Err: err}
	}
	if wd == nil {
		return nil, &SessionError{Err: errors.New("factory returned no session")}
	}
	s := &Session{wd: wd, wait: opts.Wait}
	debugLog("started session %s", wd.SessionID())

	if opts.Maximize {
		if err := wd.MaximizeWindow(""); err != nil {
			return s, fmt.Errorf("maximizing window: %w", err)
		}
	}
	if err := wd.Get(opts.BaseURL); err != nil {
		return s, fmt.Errorf("navigating to %q: %w", opts.BaseURL, err)
	}
	if _, err := s.wait.PresenceOf(wd, selenium.ByTagName, "body"); err != nil {
		return s, err
	}
	return s, nil
}

// Driver returns the underlying WebDriver.
func (s *Session) Driver() selenium.WebDriver {
	return s.wd
}

// Wait returns the session's wait policy.
func (s *Session) Wait() WaitPolicy {
	return s.wait
}

// Close ends the session. It is safe to call more than once; only the first
// call quits the browser.
func (s *Session) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	id := s.wd.SessionID()
	if err := s.wd.Quit(); err != nil {
		glog.Warningf("Error quitting session %s: %v", id, err)
		return err
	}
	debugLog("quit session %s", id)
	return nil
}
