package taskmanager

import (
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/log"
)

// Chrome command-line flags every session starts with.
const (
	// The sandbox requires a setuid binary, which containers rarely have.
	noSandboxArg      = "--no-sandbox"
	disableDevShmArg  = "--disable-dev-shm-usage"
	headlessArg       = "--headless"
	defaultBrowserTag = "chrome"
)

// NewChromeCapabilities returns the capabilities for a Chrome session
// configured by c. w3c should be true for ChromeDriver 75 and later.
func NewChromeCapabilities(c Config, w3c bool) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": defaultBrowserTag}
	chrCaps := chrome.Capabilities{
		Path: c.ChromeBinary,
		Args: []string{noSandboxArg, disableDevShmArg},
		W3C:  w3c,
	}
	if c.Headless {
		chrCaps.Args = append(chrCaps.Args, headlessArg)
	}
	caps.AddChrome(chrCaps)
	// Keep the browser console so it can be saved when a test fails.
	caps.SetLogLevel(log.Browser, log.All)
	return caps
}
