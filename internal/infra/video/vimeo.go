package video

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"curriculum-editor/internal/domain"
)

const vimeoAPI = "https://vimeo.com"

// Vimeo reads durations from the public oEmbed endpoint.
type Vimeo struct {
	client *resty.Client
	base   string
}

func NewVimeo(client *resty.Client, base string) *Vimeo {
	if base == "" {
		base = vimeoAPI
	}
	return &Vimeo{client: client, base: strings.TrimRight(base, "/")}
}

func (v *Vimeo) Supports(u *url.URL) bool {
	return hostIs(u, "vimeo.com")
}

type vimeoOEmbed struct {
	Duration int64 `json:"duration"`
}

func (v *Vimeo) Duration(ctx context.Context, u *url.URL) (int64, error) {
	var out vimeoOEmbed
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("url", u.String()).
		SetResult(&out).
		Get(v.base + "/api/oembed.json")
	if err != nil {
		return 0, errors.Wrap(err, "vimeo lookup")
	}
	switch resp.StatusCode() {
	case http.StatusForbidden, http.StatusNotFound:
		return 0, fmt.Errorf("%w: vimeo answered %s", domain.ErrVideoUnavailable, resp.Status())
	}
	if resp.IsError() {
		return 0, fmt.Errorf("vimeo lookup: %s", resp.Status())
	}
	if out.Duration <= 0 {
		return 0, fmt.Errorf("%w: vimeo reported no duration", domain.ErrVideoUnavailable)
	}
	return out.Duration, nil
}
