package video

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"curriculum-editor/internal/domain"
)

const youtubeAPI = "https://www.googleapis.com/youtube/v3"

// YouTube looks up durations through the YouTube Data API.
type YouTube struct {
	client *resty.Client
	base   string
	key    string
}

func NewYouTube(client *resty.Client, base, key string) *YouTube {
	if base == "" {
		base = youtubeAPI
	}
	return &YouTube{client: client, base: strings.TrimRight(base, "/"), key: key}
}

func (y *YouTube) Supports(u *url.URL) bool {
	return hostIs(u, "youtube.com", "youtu.be", "youtube-nocookie.com")
}

type youtubeVideos struct {
	Items []struct {
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (y *YouTube) Duration(ctx context.Context, u *url.URL) (int64, error) {
	id := youtubeID(u)
	if id == "" {
		return 0, fmt.Errorf("%w: no video id in %s", domain.ErrVideoUnsupported, u)
	}

	var out youtubeVideos
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"part": "contentDetails", "id": id, "key": y.key}).
		SetResult(&out).
		Get(y.base + "/videos")
	if err != nil {
		return 0, errors.Wrap(err, "youtube lookup")
	}
	if resp.StatusCode() == http.StatusForbidden || resp.StatusCode() == http.StatusNotFound {
		return 0, fmt.Errorf("%w: youtube answered %s", domain.ErrVideoUnavailable, resp.Status())
	}
	if resp.IsError() {
		return 0, fmt.Errorf("youtube lookup: %s", resp.Status())
	}
	if len(out.Items) == 0 {
		return 0, fmt.Errorf("%w: youtube video %s", domain.ErrVideoUnavailable, id)
	}
	return parseISODuration(out.Items[0].ContentDetails.Duration)
}

// youtubeID accepts watch, short-link, embed and shorts URLs.
func youtubeID(u *url.URL) string {
	if hostIs(u, "youtu.be") {
		return firstSegment(u.Path)
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 2 && (segs[0] == "embed" || segs[0] == "shorts" || segs[0] == "live") {
		return segs[1]
	}
	return ""
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	return seg
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts values such as PT1H2M3S or P1DT5M to seconds.
func parseISODuration(s string) (int64, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total int64
	for i, mult := range []int64{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += n * mult
	}
	return total, nil
}
