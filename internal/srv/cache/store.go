package cache

import (
	"context"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/tool"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrInvalidLocator = errors.New("invalid locator")
	ErrDownload       = errors.New("download failed")
)

// Store keeps one local copy per locator in a flat folder.
// A cached file is reused forever and never revalidated.
type Store struct {
	dir             string
	client          *http.Client
	downloadTimeout time.Duration
}

func NewStore(dir string, client *http.Client, downloadTimeout time.Duration) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		dir:             dir,
		client:          client,
		downloadTimeout: downloadTimeout,
	}
}

// FileName derives the cache file name of locator: its last path segment, unescaped.
// The result never contains a path separator.
func FileName(locator string) (string, error) {
	name := locator
	if apimodel.IsRemoteLocator(locator) {
		u, err := url.Parse(locator)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidLocator, err)
		}
		name = u.Path
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	switch name {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: no file name in %q", ErrInvalidLocator, locator)
	}
	return name, nil
}

// LocalPath returns where locator is, or would be, cached.
func (s *Store) LocalPath(locator string) (string, error) {
	name, err := FileName(locator)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// EnsureLocal returns the path of a local copy of locator, downloading it when not yet cached.
// Only remote locators are accepted and the returned path is always inside the cache folder.
// On failure nothing is left at the cache path.
func (s *Store) EnsureLocal(ctx context.Context, locator string) (string, error) {
	if !apimodel.IsRemoteLocator(locator) {
		return "", fmt.Errorf("%w: %q is not a remote locator", ErrInvalidLocator, locator)
	}

	localPath, err := s.LocalPath(locator)
	if err != nil {
		return "", err
	}

	exists, err := tool.IsFileExists(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if exists {
		logrus.Debugf("Cache hit: %s", localPath)
		return localPath, nil
	}

	if err = os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: unable to create cache folder: %v", ErrDownload, err)
	}

	if err = s.download(ctx, locator, localPath); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDownload, locator, err)
	}
	return localPath, nil
}

func (s *Store) download(ctx context.Context, locator string, localPath string) (err error) {
	if s.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.downloadTimeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return err
	}
	logrus.Infof("Downloading %s", locator)
	start := time.Now()

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", response.Status)
	}

	tmpFile, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpFile.Name())
		}
	}()

	size, err := io.Copy(tmpFile, response.Body)
	if err != nil {
		tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpFile.Name(), localPath); err != nil {
		return err
	}

	logrus.Infof("Downloaded %s (%s in %s)", filepath.Base(localPath), humanize.Bytes(uint64(size)), time.Since(start).Round(time.Millisecond))
	return nil
}
