package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/jypelle/piradio/apimodel"
	"github.com/sirupsen/logrus"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client reads the track list published by a catalog server.
type Client struct {
	baseUrl        *url.URL
	httpClient     *http.Client
	requestTimeout time.Duration
}

func NewClient(serverUrl string, httpClient *http.Client, requestTimeout time.Duration) (*Client, error) {
	baseUrl, err := url.Parse(serverUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if !strings.HasSuffix(baseUrl.Path, "/") {
		baseUrl.Path += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseUrl:        baseUrl,
		httpClient:     httpClient,
		requestTimeout: requestTimeout,
	}, nil
}

// FetchTracks returns the normalized catalog, server relative locators resolved to absolute urls.
// Entries without locator are dropped.
func (c *Client) FetchTracks(ctx context.Context) ([]apimodel.Track, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	tracksUrl := c.resolve("api/tracks")
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, tracksUrl, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	logrus.Infof("Fetching catalog from %s", tracksUrl)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		errorMessage := apimodel.ErrorMessage{ErrStatusCode: response.StatusCode}
		json.NewDecoder(response.Body).Decode(&errorMessage)
		return nil, &errorMessage
	}

	var rawTracks []apimodel.Track
	if err = json.NewDecoder(response.Body).Decode(&rawTracks); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	tracks := make([]apimodel.Track, 0, len(rawTracks))
	for i, track := range rawTracks {
		if !track.Normalize() {
			logrus.Warnf("Catalog entry %d has no file, ignored", i)
			continue
		}
		track.File = c.resolve(track.File)
		if track.Cover != "" {
			track.Cover = c.resolve(track.Cover)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// resolve turns a server relative locator into an absolute url.
func (c *Client) resolve(locator string) string {
	if apimodel.IsRemoteLocator(locator) {
		return locator
	}
	return c.baseUrl.ResolveReference(&url.URL{Path: locator}).String()
}
