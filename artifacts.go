package taskmanager

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/log"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArtifactName turns a test name such as "TestChrome/CreateTask" into a
// file name stem.
func ArtifactName(testName string) string {
	return unsafeFileChars.ReplaceAllString(testName, "_")
}

// Capture saves a screenshot and the browser console log of wd into dir,
// as <name>.png and <name>.browser.log. It does nothing if dir is empty.
// Both artifacts are attempted; the first error is returned.
func Capture(wd selenium.WebDriver, dir, name string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	stem := filepath.Join(dir, ArtifactName(name))

	var firstErr error
	if img, err := wd.Screenshot(); err != nil {
		firstErr = fmt.Errorf("taking screenshot: %w", err)
	} else if err := os.WriteFile(stem+".png", img, 0644); err != nil {
		firstErr = err
	}

	msgs, err := wd.Log(log.Browser)
	if err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("fetching browser log: %w", err)
		}
	} else if err := os.WriteFile(stem+".browser.log", formatLog(msgs), 0644); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr == nil {
		glog.Infof("Saved failure artifacts to %s.*", stem)
	}
	return firstErr
}

func formatLog(msgs []log.Message) []byte {
	var buf bytes.Buffer
	for _, m := range msgs {
		fmt.Fprintf(&buf, "%s %s %s\n", m.Timestamp.Format(time.RFC3339Nano), m.Level, m.Message)
	}
	return buf.Bytes()
}
