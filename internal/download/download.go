// Package download fetches the Chromium build and matching ChromeDriver that
// the browser tests run against.
package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

const (
	// Bucket URL: https://console.cloud.google.com/storage/browser/chromium-browser-snapshots
	snapshotBucket   = "chromium-browser-snapshots"
	snapshotPrefix   = "Linux_x64"
	lastChangeObject = "Linux_x64/LAST_CHANGE"

	chromeArchive       = "chrome-linux.zip"
	chromeDriverArchive = "chromedriver_linux64.zip"
)

// File describes how to download a file from the Web.
type File struct {
	URL      string
	Name     string
	Hash     string
	HashType string // default is sha256
	// Rename moves Rename[0] to Rename[1] after unarchiving, relative to the
	// download directory.
	Rename []string

	directory string
}

// Path is where the file is stored once downloaded.
func (f File) Path() string {
	if f.directory != "" {
		return filepath.Join(f.directory, f.Name)
	}
	return f.Name
}

// LatestSnapshotBuild reads the number of the newest Chromium snapshot build.
func LatestSnapshotBuild(ctx context.Context, bkt *storage.BucketHandle) (string, error) {
	r, err := bkt.Object(lastChangeObject).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot create a reader for gs://%s/%s: %v", snapshotBucket, lastChangeObject, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("cannot read from gs://%s/%s: %v", snapshotBucket, lastChangeObject, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ChromeSnapshotFiles describes the Chromium browser and ChromeDriver archives
// of the given snapshot build. If build is empty, the latest build is used.
func ChromeSnapshotFiles(ctx context.Context, build string) ([]File, error) {
	client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient), option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("cannot create a storage client for downloading Chromium: %v", err)
	}
	defer client.Close()

	bkt := client.Bucket(snapshotBucket)
	if build == "" {
		if build, err = LatestSnapshotBuild(ctx, bkt); err != nil {
			return nil, err
		}
	}
	glog.Infof("Using Chromium snapshot build %s", build)

	archives := []struct {
		name   string
		rename []string
	}{
		{name: chromeArchive},
		{name: chromeDriverArchive, rename: []string{"chromedriver_linux64/chromedriver", "chromedriver"}},
	}
	var files []File
	for _, a := range archives {
		object := path.Join(snapshotPrefix, build, a.name)
		attrs, err := bkt.Object(object).Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot get the attributes of gs://%s/%s: %v", snapshotBucket, object, err)
		}
		files = append(files, File{
			URL:      attrs.MediaLink,
			Name:     a.name,
			Hash:     hex.EncodeToString(attrs.MD5),
			HashType: "md5",
			Rename:   a.rename,
		})
	}
	return files, nil
}

// Download fetches file into directory unless an identical copy is already
// there, then unarchives it. If directory is the empty string, the current
// directory is used.
func Download(file File, directory string) error {
	file.directory = directory

	if file.Hash != "" && fileSameHash(file) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := downloadFile(file); err != nil {
			return err
		}
	}

	if err := unzipArchive(file); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(directory, rename[0])
		to := filepath.Join(directory, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

// DownloadAll downloads files into directory concurrently.
func DownloadAll(ctx context.Context, files []File, directory string) error {
	if directory != "" {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return err
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Download(file, directory); err != nil {
				return fmt.Errorf("error handling %s: %s", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	default:
		return sha256.New()
	}
}

// downloadFile writes to a temporary file next to Path and renames it into
// place only once the download is complete and its hash matches.
func downloadFile(file File) error {
	resp, err := http.Get(file.URL)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	tmp := file.Path() + ".tmp"
	if err := writeChecked(tmp, resp.Body, file); err != nil {
		os.Remove(tmp) // Ignore error.
		return err
	}
	if err := os.Rename(tmp, file.Path()); err != nil {
		os.Remove(tmp) // Ignore error.
		return fmt.Errorf("error moving %q into place: %v", file.Path(), err)
	}
	return nil
}

func writeChecked(name string, r io.Reader, file File) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("error creating %q: %v", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", name, closeErr)
		}
	}()

	var w io.Writer = f
	var h hash.Hash
	if file.Hash != "" {
		h = newHash(file.HashType)
		w = io.MultiWriter(f, h)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	if h != nil {
		if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
			return fmt.Errorf("%s: got %s hash %q, want %q", file.Name, file.HashType, sum, file.Hash)
		}
	}
	return nil
}

func fileSameHash(file File) bool {
	f, err := os.Open(file.Path())
	if err != nil {
		return false
	}
	defer f.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, f); err != nil {
		return false
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func unzipArchive(file File) error {
	dir := "."
	if file.directory != "" {
		dir = file.directory
	}

	var unzipCmd []string
	switch path.Ext(file.Name) {
	case ".zip":
		unzipCmd = []string{"unzip", "-d", dir, "-o", file.Path()}
	case ".gz":
		unzipCmd = []string{"tar", "-xzf", file.Path(), "-C", dir}
	default:
		return nil
	}

	glog.Infof("Unzipping %q", file.Path())
	if err := exec.Command(unzipCmd[0], unzipCmd[1:]...).Run(); err != nil {
		return fmt.Errorf("error unzipping %q: %v", file.Name, err)
	}
	return nil
}
