package video

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"curriculum-editor/internal/domain"
)

// Provider resolves the length of a video hosted on one platform.
type Provider interface {
	Supports(u *url.URL) bool
	Duration(ctx context.Context, u *url.URL) (int64, error)
}

// Router dispatches a lookup to the first provider that recognizes the URL.
type Router struct {
	providers []Provider
}

func NewRouter(providers ...Provider) *Router {
	return &Router{providers: providers}
}

// Config holds provider endpoints and credentials. Empty base URLs use the public APIs.
type Config struct {
	YouTubeKey  string
	YouTubeBase string
	VimeoBase   string
	Timeout     time.Duration
}

// NewDefaultRouter builds a router with the YouTube and Vimeo providers.
func NewDefaultRouter(conf Config) *Router {
	client := resty.New().SetHeader("Accept", "application/json")
	if conf.Timeout > 0 {
		client.SetTimeout(conf.Timeout)
	}
	return NewRouter(
		NewYouTube(client, conf.YouTubeBase, conf.YouTubeKey),
		NewVimeo(client, conf.VimeoBase),
	)
}

// VideoDuration returns the video length in seconds.
func (r *Router) VideoDuration(ctx context.Context, raw string) (int64, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return 0, fmt.Errorf("%w: %s", domain.ErrVideoUnsupported, raw)
	}
	for _, p := range r.providers {
		if p.Supports(u) {
			return p.Duration(ctx, u)
		}
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrVideoUnsupported, raw)
}

func hostIs(u *url.URL, domains ...string) bool {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
