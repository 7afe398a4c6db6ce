package video

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"

	"curriculum-editor/internal/domain"
)

func TestParseISODuration(t *testing.T) {
	cases := map[string]int64{
		"PT12M34S": 754,
		"PT1H":     3600,
		"PT45S":    45,
		"P1DT1M":   86460,
		"PT0S":     0,
	}
	for in, want := range cases {
		got, err := parseISODuration(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "P", "PT", "12:34", "PT1.5S"} {
		_, err := parseISODuration(bad)
		require.Error(t, err, bad)
	}
}

func TestYouTubeID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=abc123&t=5": "abc123",
		"https://youtu.be/abc123":                    "abc123",
		"https://www.youtube.com/embed/abc123":       "abc123",
		"https://youtube.com/shorts/abc123":          "abc123",
		"https://www.youtube.com/channel/xyz":        "",
	}
	for raw, want := range cases {
		u, _ := url.Parse(raw)
		require.Equal(t, want, youtubeID(u), raw)
	}
}

func TestRouterDispatchesYouTube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.Equal(t, "abc123", r.URL.Query().Get("id"))
		require.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"contentDetails":{"duration":"PT12M34S"}}]}`))
	}))
	defer srv.Close()

	router := NewDefaultRouter(Config{YouTubeKey: "k", YouTubeBase: srv.URL})
	secs, err := router.VideoDuration(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)
	require.Equal(t, int64(754), secs)
}

func TestYouTubeMissingVideoIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	router := NewRouter(NewYouTube(resty.New(), srv.URL, "k"))
	_, err := router.VideoDuration(context.Background(), "https://www.youtube.com/watch?v=gone")
	require.ErrorIs(t, err, domain.ErrVideoUnavailable)
}

func TestVimeoOEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/oembed.json", r.URL.Path)
		if r.URL.Query().Get("url") == "https://vimeo.com/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"video","duration":600}`))
	}))
	defer srv.Close()

	router := NewDefaultRouter(Config{VimeoBase: srv.URL})
	secs, err := router.VideoDuration(context.Background(), "https://vimeo.com/76979871")
	require.NoError(t, err)
	require.Equal(t, int64(600), secs)

	_, err = router.VideoDuration(context.Background(), "https://vimeo.com/404")
	require.ErrorIs(t, err, domain.ErrVideoUnavailable)
}

func TestRouterRejectsUnknownHosts(t *testing.T) {
	router := NewDefaultRouter(Config{})
	for _, raw := range []string{"https://example.com/video.mp4", "not a url", ""} {
		_, err := router.VideoDuration(context.Background(), raw)
		require.ErrorIs(t, err, domain.ErrVideoUnsupported, raw)
	}
}
