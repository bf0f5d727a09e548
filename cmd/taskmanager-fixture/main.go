// Binary taskmanager-fixture serves a stand-in Task Manager application for
// running the browser tests locally.
package main

import (
	"flag"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/wanmail/taskmanager-selenium/internal/fixture"
)

var (
	addr  = flag.String("addr", ":3000", "The address to listen on.")
	debug = flag.Bool("debug", false, "If true, run gin in debug mode.")
)

func main() {
	flag.Parse()
	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := fixture.NewRouter(fixture.NewStore())
	glog.Infof("Serving the Task Manager fixture on %s", *addr)
	if err := r.Run(*addr); err != nil {
		glog.Exit(err)
	}
}
