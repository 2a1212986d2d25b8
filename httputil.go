package portfolio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/etfportfolio/date"
	"github.com/rs/zerolog"
)

// dailyCache is an http.RoundTripper that keeps successful GET responses on
// disk until the end of the UTC day.
type dailyCache struct {
	base  http.RoundTripper
	dir   string
	today func() date.Date
	log   zerolog.Logger
}

// NewDailyCacheClient returns a client that serves repeated GET requests of
// the same day from dir. An empty dir uses the user cache directory.
func NewDailyCacheClient(dir string, log zerolog.Logger) *http.Client {
	if dir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(base, "etf")
		} else {
			dir = os.TempDir()
		}
	}
	return &http.Client{Transport: &dailyCache{
		base:  http.DefaultTransport,
		dir:   dir,
		today: date.Today,
		log:   log.With().Str("component", "http_cache").Logger(),
	}}
}

func (c *dailyCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	// the key embeds the day, stale entries are simply never read again.
	key := fmt.Sprintf("%x", sha1.Sum([]byte(c.today().String()+" "+req.URL.String())))

	if resp, err := c.get(key, req); err == nil {
		c.log.Debug().Str("url", req.URL.String()).Msg("Cache hit")
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Msg("HTTP request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("Cannot write HTTP cache, ignored")
	}
	return resp, nil
}

func (c *dailyCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores resp. DumpResponse buffers the body and leaves resp readable.
func (c *dailyCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
