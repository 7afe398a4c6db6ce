package cli

import (
	"bytes"
	"strings"
	"testing"

	"curriculum-editor/internal/payload"
)

func TestInspectPrintsDerivedDurations(t *testing.T) {
	rec := `{
	  "name": "go", "title": "Go", "type_duration": "min", "installments": 1, "price": "1000.00",
	  "modules": [{
	    "title": "Basics", "type_duration": "min", "active": true,
	    "activities": [
	      {"title": "Intro", "type_activities": "video", "content": "https://youtu.be/x", "type_duration": "seg", "duration": 90},
	      {"title": "Notes", "type_activities": "reading", "content": "<p>x</p>", "type_duration": "min", "duration": 2}
	    ]
	  }]
	}`
	var out bytes.Buffer
	if err := inspect(strings.NewReader(rec), &out, payload.NewMoney(payload.DefaultLocale)); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "210s") {
		t.Fatalf("expected module total of 210s, got:\n%s", got)
	}
	if !strings.Contains(got, "videoUrl") {
		t.Fatalf("expected visible fields for the video, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "valid\n") {
		t.Fatalf("expected valid course, got:\n%s", got)
	}
}

func TestInspectReportsLocalErrors(t *testing.T) {
	rec := `{"name": "go", "title": "", "type_duration": "min", "installments": 1, "modules": []}`
	var out bytes.Buffer
	if err := inspect(strings.NewReader(rec), &out, payload.NewMoney(payload.DefaultLocale)); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out.String(), "invalid title") {
		t.Fatalf("expected title error, got:\n%s", out.String())
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if err := inspect(strings.NewReader("nope"), &bytes.Buffer{}, payload.NewMoney(payload.DefaultLocale)); err == nil {
		t.Fatalf("expected decode error")
	}
}
