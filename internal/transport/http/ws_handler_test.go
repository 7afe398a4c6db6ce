package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"curriculum-editor/internal/app"
	"curriculum-editor/internal/infra/memory"
	"curriculum-editor/internal/payload"
)

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWithVideos(t, nil)
}

func newTestServerWithVideos(t *testing.T, videos app.DurationLookup) *httptest.Server {
	t.Helper()
	service := app.NewEditorService(app.Dependencies{
		Sessions: memory.NewSessionStore(),
		Courses:  memory.NewCourseRepository(sampleCourse()),
		Bank: memory.NewBankRepository(memory.NewStaticBankLoader(
			[]payload.ModuleRecord{{ID: "7", Title: "Catalog module", DurationUnit: "min"}},
			nil,
		), time.Minute),
		Collapse: memory.NewCollapseRepository(),
		Videos:   videos,
		Money:    payload.NewMoney(payload.DefaultLocale),
	})
	mux := http.NewServeMux()
	NewWSHandler(service, nil).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketEditAndSaveFlow(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?courseId=c-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the initial state first.
	_, body := readNext(conn, t, "state")
	if course, _ := body["course"].(map[string]any); course["title"] != "Go" {
		t.Fatalf("expected loaded course, got %v", body["course"])
	}

	set := map[string]any{
		"type":    "set",
		"payload": map[string]any{"path": []int{}, "field": "title", "value": "Go in depth"},
	}
	if err := conn.WriteJSON(set); err != nil {
		t.Fatalf("write set: %v", err)
	}
	_, body = readNext(conn, t, "state")
	if body["dirty"] != true {
		t.Fatalf("expected dirty state after edit, got %v", body["dirty"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	readNext(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "save"}); err != nil {
		t.Fatalf("write save: %v", err)
	}
	savedSeen := false
	cleanSeen := false
	for i := 0; i < 3 && !(savedSeen && cleanSeen); i++ {
		typ, body := readNext(conn, t, "")
		switch typ {
		case "notification":
			savedSeen = body["title"] == "Course saved"
		case "state":
			cleanSeen = body["dirty"] == false
		}
	}
	if !savedSeen || !cleanSeen {
		t.Fatalf("expected saved notification and clean state, got notification=%v clean=%v", savedSeen, cleanSeen)
	}
}

func TestWebSocketRejectsUnknownCourse(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?courseId=missing"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "error")
}

func TestBankModulesEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/bank/modules")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var modules []payload.ModuleRecord
	if err := json.NewDecoder(resp.Body).Decode(&modules); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(modules) != 1 || modules[0].ID != "7" {
		t.Fatalf("unexpected catalog %+v", modules)
	}
}

func TestEditsFlowWhileVideoLookupIsPending(t *testing.T) {
	videos := &gatedVideos{gate: make(chan struct{}), entered: make(chan struct{})}
	server := newTestServerWithVideos(t, videos)

	u := "ws" + server.URL[len("http"):] + "/ws?courseId=c-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "state")

	if err := conn.WriteJSON(map[string]any{"type": "refreshDurations"}); err != nil {
		t.Fatalf("write refresh: %v", err)
	}
	select {
	case <-videos.entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("lookup never started")
	}

	set := map[string]any{
		"type":    "set",
		"payload": map[string]any{"path": []int{}, "field": "title", "value": "edited"},
	}
	if err := conn.WriteJSON(set); err != nil {
		t.Fatalf("write set: %v", err)
	}
	_, body := readNext(conn, t, "state")
	if course, _ := body["course"].(map[string]any); course["title"] != "edited" {
		t.Fatalf("expected edit applied during lookup, got %v", body["course"])
	}

	close(videos.gate)
	for i := 0; i < 3; i++ {
		typ, body := readNext(conn, t, "")
		if typ == "refreshed" {
			if body["updated"] != float64(1) {
				t.Fatalf("expected one refreshed duration, got %v", body["updated"])
			}
			return
		}
	}
	t.Fatalf("expected refreshed result after the lookup was released")
}

type gatedVideos struct {
	gate    chan struct{}
	entered chan struct{}
}

func (v *gatedVideos) VideoDuration(ctx context.Context, _ string) (int64, error) {
	close(v.entered)
	select {
	case <-v.gate:
		return 754, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func sampleCourse() payload.CourseRecord {
	return payload.CourseRecord{
		ID: "c-1", Name: "go", Title: "Go", DurationUnit: "min", Installments: 1,
		Modules: []payload.ModuleRecord{
			{Title: "Basics", DurationUnit: "min", Active: true, Activities: []payload.ActivityRecord{
				{Title: "Read", Type: "reading", Content: "<p>x</p>", DurationUnit: "min", Duration: 10, Active: true},
				{Title: "Watch", Type: "video", Content: "https://youtu.be/abc", DurationUnit: "min", Duration: 2, Active: true},
			}},
		},
	}
}
