package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"curriculum-editor/internal/app"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
)

// Config points the client at the course backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the course backend REST API. It serves courses, the catalog and media uploads.
type Client struct {
	http *resty.Client
}

func NewClient(conf Config) *Client {
	c := resty.New().
		SetBaseURL(conf.BaseURL).
		SetHeader("Accept", "application/json")
	if conf.Token != "" {
		c.SetAuthToken(conf.Token)
	}
	if conf.Timeout > 0 {
		c.SetTimeout(conf.Timeout)
	}
	return &Client{http: c}
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (payload.CourseRecord, error) {
	var course payload.CourseRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", courseID).
		SetResult(&course).
		Get("/courses/{id}")
	if err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "get course")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	}
	if resp.IsError() {
		return payload.CourseRecord{}, statusError("get course", resp)
	}
	if course.ID == "" {
		course.ID = courseID
	}
	return course, nil
}

// SaveCourse creates the course when it has no id and updates it otherwise.
// A 422 answer is decoded into a *payload.RemoteValidationError.
func (c *Client) SaveCourse(ctx context.Context, course payload.CourseRecord) (payload.CourseRecord, error) {
	var saved payload.CourseRecord
	req := c.http.R().
		SetContext(ctx).
		SetBody(course).
		SetResult(&saved)

	var (
		resp *resty.Response
		err  error
	)
	if course.ID == "" {
		resp, err = req.Post("/courses")
	} else {
		resp, err = req.SetPathParam("id", course.ID).Put("/courses/{id}")
	}
	if err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "save course")
	}

	switch {
	case resp.StatusCode() == http.StatusUnprocessableEntity:
		verr, perr := payload.ParseFieldErrors(resp.Body())
		if perr != nil {
			return payload.CourseRecord{}, errors.Wrap(perr, "decode validation errors")
		}
		return payload.CourseRecord{}, verr
	case resp.StatusCode() == http.StatusNotFound:
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	case resp.IsError():
		return payload.CourseRecord{}, statusError("save course", resp)
	}

	if saved.ID == "" {
		saved = course
	}
	return saved, nil
}

func (c *Client) LoadModules(ctx context.Context) ([]payload.ModuleRecord, error) {
	var modules []payload.ModuleRecord
	if err := c.getList(ctx, "/bank/modules", &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) LoadActivities(ctx context.Context) ([]payload.ActivityRecord, error) {
	var activities []payload.ActivityRecord
	if err := c.getList(ctx, "/bank/activities", &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) getList(ctx context.Context, path string, out interface{}) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(out).Get(path)
	if err != nil {
		return errors.Wrapf(err, "get %s", path)
	}
	if resp.IsError() {
		return statusError("get "+path, resp)
	}
	return nil
}

type uploadResponse struct {
	URL    string `json:"url"`
	FileID string `json:"file_id"`
	Title  string `json:"title"`
}

// Upload posts a file to the media library as multipart form data.
func (c *Client) Upload(ctx context.Context, name string, body io.Reader) (app.Uploaded, error) {
	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, body).
		SetFormData(map[string]string{"title": name}).
		SetResult(&out).
		Post("/media")
	if err != nil {
		return app.Uploaded{}, errors.Wrap(err, "upload file")
	}
	if resp.IsError() {
		return app.Uploaded{}, statusError("upload file", resp)
	}
	if out.URL == "" {
		return app.Uploaded{}, fmt.Errorf("upload file: backend returned no url")
	}
	if out.Title == "" {
		out.Title = name
	}
	return app.Uploaded{URL: out.URL, FileID: out.FileID, Title: out.Title}, nil
}

func statusError(op string, resp *resty.Response) error {
	return fmt.Errorf("%s: backend answered %s", op, resp.Status())
}
