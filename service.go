package taskmanager

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// FirstW3CChromeDriver is the first ChromeDriver release that speaks the W3C
// protocol by default. Older releases are 2.x.
var FirstW3CChromeDriver = semver.Version{Major: 75}

// driverHost is the interface ChromeDriver is reached on. ChromeDriver only
// accepts local connections by default.
const driverHost = "127.0.0.1"

// FindBestPath returns the last usable file matching glob in sorted order,
// or "" if there is none. Versioned names such as chromedriver-120 sort the
// newest last. If binary is true, only executable files are usable.
func FindBestPath(glob string, binary bool) string {
	matches, err := filepath.Glob(glob)
	if err != nil {
		glog.Warningf("Error globbing %q: %s", glob, err)
		return ""
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, path := range matches {
		if usablePath(path, binary) {
			return path
		}
	}
	return ""
}

func usablePath(path string, binary bool) bool {
	fi, err := os.Stat(path)
	if err != nil {
		glog.Warningf("Error statting %q: %s", path, err)
		return false
	}
	if !fi.Mode().IsRegular() {
		return false
	}
	return !binary || fi.Mode().Perm()&0111 != 0
}

// PickUnusedPort asks the kernel for a TCP port that is free on host. The
// port is released before returning, so a caller racing other processes
// may still lose it.
func PickUnusedPort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("listening on %s: %v", host, err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}

var chromeDriverVersionRE = regexp.MustCompile(`ChromeDriver (\d+)\.(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseChromeDriverVersion extracts the version from the output of
// `chromedriver --version`. A fourth version component is kept as build
// metadata.
func ParseChromeDriverVersion(out string) (semver.Version, error) {
	m := chromeDriverVersionRE.FindStringSubmatch(out)
	if m == nil {
		return semver.Version{}, fmt.Errorf("no ChromeDriver version in %q", out)
	}
	v, err := semver.Parse(m[1] + "." + m[2] + "." + m[3])
	if err != nil {
		return semver.Version{}, err
	}
	if m[4] != "" {
		v.Build = []string{m[4]}
	}
	return v, nil
}

// ChromeDriverVersion runs the binary at path to learn its version.
func ChromeDriverVersion(path string) (semver.Version, error) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return semver.Version{}, fmt.Errorf("running %s --version: %v", path, err)
	}
	return ParseChromeDriverVersion(string(out))
}

// Driver is a locally running ChromeDriver.
type Driver struct {
	// Addr is the WebDriver endpoint to pass to selenium.NewRemote.
	Addr    string
	Version semver.Version

	service *selenium.Service
}

// W3C reports whether the driver should be spoken to in W3C mode.
func (d *Driver) W3C() bool {
	return d.Version.GTE(FirstW3CChromeDriver)
}

// StartChromeDriver starts the ChromeDriver at path on an unused port.
func StartChromeDriver(path string, opts ...selenium.ServiceOption) (*Driver, error) {
	version, err := ChromeDriverVersion(path)
	if err != nil {
		return nil, err
	}
	port, err := PickUnusedPort(driverHost)
	if err != nil {
		return nil, fmt.Errorf("picking a port for ChromeDriver: %v", err)
	}
	s, err := selenium.NewChromeDriverService(path, port, opts...)
	if err != nil {
		return nil, fmt.Errorf("starting ChromeDriver %s: %v", version, err)
	}
	glog.Infof("Started ChromeDriver %s on port %d", version, port)
	return &Driver{
		Addr:    fmt.Sprintf("http://%s/wd/hub", net.JoinHostPort(driverHost, strconv.Itoa(port))),
		Version: version,
		service: s,
	}, nil
}

// Stop shuts the driver down.
func (d *Driver) Stop() error {
	return d.service.Stop()
}

// WaitReachable polls baseURL until it answers an HTTP GET or timeout
// elapses. Any status code counts as an answer.
func WaitReachable(baseURL string, timeout, interval time.Duration) error {
	client := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		resp, err := client.Get(baseURL)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%s did not respond within %v: %v", baseURL, timeout, err)
		}
		time.Sleep(interval)
	}
}
