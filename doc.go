/*
Package taskmanager drives a web "Task Manager" application through a real
browser over the WebDriver protocol and checks that its pages behave.

Each test case owns one browser session: it is opened from a SessionFactory,
pointed at the base URL, used for one flow and quit, whatever the outcome.
Every wait on the page is bounded by a WaitPolicy, so a broken page fails a
test with a *TimeoutError or *LookupError instead of hanging it.

The test cases themselves live in internal/taskmanagertest. TestChrome in
this package runs them against a local ChromeDriver:

	go run ./cmd/fetchdrivers -dir vendor-bin
	go test -run TestChrome . -args -base_url=http://localhost:3000

Passing -serve_fixture instead of -base_url runs the suite against the
stand-in application in internal/fixture.

Example usage:

	d, err := taskmanager.StartChromeDriver("vendor-bin/chromedriver")
	if err != nil {
		return err
	}
	defer d.Stop()

	cfg := taskmanager.DefaultConfig()
	caps := taskmanager.NewChromeCapabilities(cfg, d.W3C())
	s, err := taskmanager.Open(taskmanager.RemoteFactory(caps, d.Addr), taskmanager.SessionOptions{
		BaseURL:  cfg.BaseURL,
		Wait:     cfg.WaitPolicy(),
		Maximize: true,
	})
	defer s.Close()
	if err != nil {
		return err
	}

	err = taskmanager.CreateTask(s, taskmanager.Task{Title: "Buy milk", Status: "pending"})
*/
package taskmanager
