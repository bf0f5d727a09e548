package taskmanager

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is where the Task Manager front end is served during
	// local development.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultWaitTimeout bounds every guarded wait.
	DefaultWaitTimeout = 10 * time.Second
	// DefaultWaitInterval is the polling interval of guarded waits.
	DefaultWaitInterval = 100 * time.Millisecond
)

// Config configures a run of the suite against one deployment of the
// application.
type Config struct {
	// BaseURL is the address the browser is pointed at before every test.
	BaseURL string
	// Timeout and Interval define the wait policy.
	Timeout, Interval time.Duration
	// Headless runs the browser without a window.
	Headless bool
	// Maximize maximizes the browser window after the session starts.
	Maximize bool
	// ChromeBinary is the path to the Chrome binary. If empty, ChromeDriver
	// picks the system installation.
	ChromeBinary string
	// ChromeDriverPath is the path to the ChromeDriver binary.
	ChromeDriverPath string
	// ArtifactDir receives screenshots and browser logs of failed tests.
	// Capture is disabled when empty.
	ArtifactDir string
}

// DefaultConfig returns the configuration the suite uses when no flags are
// given.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultWaitTimeout,
		Interval: DefaultWaitInterval,
		Headless: true,
		Maximize: true,
	}
}

// RegisterFlags binds the configuration to fs. Values already in c act as
// the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base_url", c.BaseURL, "The URL of the Task Manager application under test.")
	fs.DurationVar(&c.Timeout, "wait_timeout", c.Timeout, "How long guarded waits poll for a DOM condition before failing.")
	fs.DurationVar(&c.Interval, "wait_interval", c.Interval, "The polling interval of guarded waits.")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "If true, run the browser without a window.")
	fs.BoolVar(&c.Maximize, "maximize", c.Maximize, "If true, maximize the browser window after the session starts.")
	fs.StringVar(&c.ChromeBinary, "chrome_binary", c.ChromeBinary, "The path to the Chrome binary. If empty, ChromeDriver uses the system installation.")
	fs.StringVar(&c.ChromeDriverPath, "chrome_driver_path", c.ChromeDriverPath, "The path to the ChromeDriver binary. If empty, vendor-bin/chromedriver* is searched.")
	fs.StringVar(&c.ArtifactDir, "artifact_dir", c.ArtifactDir, "If set, screenshots and browser logs of failed tests are written to this directory.")
}

// Validate checks that c can drive a run.
func (c Config) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("wait timeout must be positive, got %v", c.Timeout)
	}
	if c.Interval <= 0 || c.Interval > c.Timeout {
		return fmt.Errorf("wait interval must be in (0, %v], got %v", c.Timeout, c.Interval)
	}
	return nil
}

func validateBaseURL(base string) error {
	if base == "" {
		return errors.New("base URL is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %v", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", base)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", base)
	}
	return nil
}

// WaitPolicy returns the wait policy described by c.
func (c Config) WaitPolicy() WaitPolicy {
	return WaitPolicy{Timeout: c.Timeout, Interval: c.Interval}
}
