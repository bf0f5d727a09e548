// Binary fetchdrivers downloads the Chromium browser and the matching
// ChromeDriver that the Task Manager browser tests run against.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/wanmail/taskmanager-selenium/internal/download"
)

var (
	dir     = flag.String("dir", "vendor-bin", "The directory to download the files into.")
	build   = flag.String("chromium_build", "", "The Chromium snapshot build to download. If empty, the latest build is used.")
	timeout = flag.Duration("timeout", 10*time.Minute, "How long the downloads may take in total.")
)

func main() {
	flag.Parse()
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	files, err := download.ChromeSnapshotFiles(ctx, *build)
	if err != nil {
		glog.Exitf("Unable to find the Chromium snapshot: %v", err)
	}
	if err := download.DownloadAll(ctx, files, *dir); err != nil {
		glog.Exit(err)
	}
	glog.Infof("Downloaded %d files into %q", len(files), *dir)
}
