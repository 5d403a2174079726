// Package pypi installs packages into a [pyenv.DirEnv] sandbox from the
// PyPI package index.
//
// The client speaks the PyPI JSON API and caches metadata responses through
// [cache.Cache]. Downloads and metadata fetches are plain one-shot HTTP
// requests: a network failure or a missing package propagates to the caller
// immediately, with no retry.
package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/n-sviridenko/pyprep/pkg/cache"
	"github.com/n-sviridenko/pyprep/pkg/errors"
	"github.com/n-sviridenko/pyprep/pkg/observability"
)

const (
	defaultBaseURL = "https://pypi.org/pypi"
	httpTimeout    = 30 * time.Second
)

// PackageInfo holds the slice of PyPI metadata pyprep needs: identity plus
// the downloadable release files.
//
// Package names are normalized following PEP 503 (lowercase, underscores
// replaced with hyphens).
type PackageInfo struct {
	Name    string  `json:"name"`    // Normalized package name
	Version string  `json:"version"` // Latest version
	Summary string  `json:"summary"` // Short description (may be empty)
	Wheels  []Wheel `json:"wheels"`  // Release files of the latest version
}

// Wheel is one downloadable release file.
type Wheel struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// Client provides access to the PyPI JSON API with response caching.
type Client struct {
	http    *http.Client
	cache   *cache.Cache
	baseURL string
}

// NewClient creates a PyPI client. The cache may be nil to disable caching;
// callers usually pass a namespaced view (cache.Namespace("pypi:")).
func NewClient(c *cache.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		baseURL: defaultBaseURL,
	}
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores with hyphens, following PEP 503
// normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// FetchPackage retrieves metadata for pkg.
//
// The name is normalized automatically. If refresh is true the cache is
// bypassed and a fresh API call is made.
//
// Returns a PACKAGE_NOT_FOUND error if the index has no such package and a
// NETWORK_ERROR for HTTP failures.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = NormalizePkgName(pkg)

	var info PackageInfo
	err := c.cached(pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// cached retrieves a value from cache or executes fetch and caches the result.
func (c *Client) cached(key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), pkg, &data); err != nil {
		return err
	}

	*info = PackageInfo{
		Name:    NormalizePkgName(data.Info.Name),
		Version: data.Info.Version,
		Summary: data.Info.Summary,
	}
	for _, u := range data.URLs {
		info.Wheels = append(info.Wheels, Wheel{
			Filename: u.Filename,
			URL:      u.URL,
			Size:     u.Size,
		})
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url, pkg string, v any) error {
	body, err := c.get(ctx, url, pkg)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// get performs a one-shot GET, emitting HTTP hooks. There is no retry: the
// first failure propagates.
func (c *Client) get(ctx context.Context, url, pkg string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	host, path := splitURL(url)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "request %s", url)
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, pkg); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

type apiResponse struct {
	Info apiInfo  `json:"info"`
	URLs []apiURL `json:"urls"`
}

type apiInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Summary string `json:"summary"`
}

type apiURL struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	PackageType string `json:"packagetype"`
	Size        int64  `json:"size"`
}

func checkStatus(code int, pkg string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodePackageNotFound, "pypi has no package %s", pkg)
	default:
		return errors.New(errors.ErrCodeNetwork, "pypi responded with status %d", code)
	}
}

func splitURL(url string) (host, path string) {
	rest := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	host, path, _ = strings.Cut(rest, "/")
	return host, "/" + path
}
