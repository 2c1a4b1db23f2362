package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	gorilla "github.com/gorilla/websocket"

	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/tutor"
)

func newServer(t *testing.T, cfg Config) (*Server, *lab.Lab) {
	t.Helper()
	if cfg.Lab == nil {
		cfg.Lab = lab.New(lab.WithClock(clock.NewMock()), lab.WithAudio(false))
	}
	return NewServer(cfg), cfg.Lab
}

func do(t *testing.T, s *Server, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func snapshot(t *testing.T, data []byte) lab.Snapshot {
	t.Helper()
	var snap lab.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, data)
	}
	return snap
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, Config{})
	status, body := do(t, s, "GET", "/health", "")
	if status != 200 || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("unexpected health %d %s", status, body)
	}
}

func TestState(t *testing.T) {
	s, _ := newServer(t, Config{})
	status, body := do(t, s, "GET", "/api/state", "")
	if status != 200 {
		t.Fatalf("status %d", status)
	}
	snap := snapshot(t, body)
	if snap.Object.Distance != optics.DefaultObjectDistance || snap.Zone != optics.ZoneBetween {
		t.Errorf("unexpected defaults %+v", snap)
	}
}

func TestSetters(t *testing.T) {
	s, _ := newServer(t, Config{})

	tests := []struct {
		name, path, body string
		check            func(lab.Snapshot) bool
	}{
		{"distance", "/api/distance", `{"value":300}`, func(s lab.Snapshot) bool { return s.Object.Distance == 300 }},
		{"distance clamped", "/api/distance", `{"value":9000}`, func(s lab.Snapshot) bool { return s.Object.Distance == optics.MaxObjectDistance }},
		{"focal", "/api/focal", `{"value":80}`, func(s lab.Snapshot) bool { return s.Lens.FocalLength == 80 }},
		{"height", "/api/height", `{"value":40}`, func(s lab.Snapshot) bool { return s.Object.Height == 40 }},
		{"lens", "/api/lens", `{"type":"concave"}`, func(s lab.Snapshot) bool { return s.Lens.Type == optics.Concave }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, s, "POST", tt.path, tt.body)
			if status != 200 {
				t.Fatalf("status %d: %s", status, body)
			}
			if snap := snapshot(t, body); !tt.check(snap) {
				t.Errorf("unexpected snapshot %+v", snap)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	s, _ := newServer(t, Config{})

	tests := []struct {
		name, path, body string
	}{
		{"unknown lens", "/api/lens", `{"type":"prism"}`},
		{"missing value", "/api/distance", `{}`},
		{"malformed", "/api/focal", `{"value":`},
		{"unknown language", "/api/language", `{"language":"fr-FR"}`},
		{"missing enabled", "/api/audio", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, body := do(t, s, "POST", tt.path, tt.body); status != 400 {
				t.Errorf("expected 400, got %d: %s", status, body)
			}
		})
	}
}

func TestSettersConflictWhilePlaying(t *testing.T) {
	s, _ := newServer(t, Config{})

	status, body := do(t, s, "POST", "/api/play", "")
	if status != 200 || !snapshot(t, body).Playing {
		t.Fatalf("expected playing, got %d %s", status, body)
	}

	for _, path := range []string{"/api/distance", "/api/focal"} {
		if status, _ := do(t, s, "POST", path, `{"value":120}`); status != 409 {
			t.Errorf("%s: expected 409, got %d", path, status)
		}
	}

	// Height and lens type stay adjustable.
	if status, _ := do(t, s, "POST", "/api/height", `{"value":30}`); status != 200 {
		t.Errorf("height: expected 200, got %d", status)
	}

	status, body = do(t, s, "POST", "/api/toggle", "")
	if status != 200 || snapshot(t, body).Playing {
		t.Errorf("expected toggle to pause, got %s", body)
	}
}

func TestPauseAndReset(t *testing.T) {
	s, _ := newServer(t, Config{})
	do(t, s, "POST", "/api/distance", `{"value":400}`)
	do(t, s, "POST", "/api/play", "")

	_, body := do(t, s, "POST", "/api/pause", "")
	if snapshot(t, body).Playing {
		t.Error("expected paused")
	}

	_, body = do(t, s, "POST", "/api/reset", "")
	if snap := snapshot(t, body); snap.Object.Distance != optics.DefaultObjectDistance {
		t.Errorf("expected reset distance, got %v", snap.Object.Distance)
	}
}

func TestScenarios(t *testing.T) {
	s, _ := newServer(t, Config{})

	status, body := do(t, s, "GET", "/api/scenarios", "")
	if status != 200 {
		t.Fatalf("status %d", status)
	}
	var list []ScenarioInfo
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) == 0 || list[0].Title == "" {
		t.Fatalf("unexpected list %+v", list)
	}

	status, body = do(t, s, "POST", "/api/scenarios/magnifier", "")
	if status != 200 {
		t.Fatalf("status %d: %s", status, body)
	}
	if snap := snapshot(t, body); snap.Zone != optics.ZoneInsideF {
		t.Errorf("expected the magnifier zone, got %s", snap.Zone)
	}

	if status, _ := do(t, s, "POST", "/api/scenarios/telescope", ""); status != 404 {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestLanguageAndAudioSavePrefs(t *testing.T) {
	store := prefs.NewStore(nil, nil)
	s, _ := newServer(t, Config{Prefs: store})

	_, body := do(t, s, "POST", "/api/language", `{"language":"en-US"}`)
	if snap := snapshot(t, body); snap.Language != narration.English {
		t.Errorf("expected english, got %s", snap.Language)
	}

	_, body = do(t, s, "POST", "/api/audio", `{"enabled":false}`)
	if snapshot(t, body).AudioEnabled {
		t.Error("expected audio off")
	}

	got := store.Get()
	if got.Language != narration.English || got.AudioEnabled {
		t.Errorf("prefs not saved: %+v", got)
	}
}

func TestTutorUnavailable(t *testing.T) {
	s, _ := newServer(t, Config{})
	if status, _ := do(t, s, "POST", "/api/tutor/ask", `{"question":"why?"}`); status != 503 {
		t.Errorf("expected 503, got %d", status)
	}
}

func TestTutorAsk(t *testing.T) {
	mock := tutor.NewMock("an inverted real image")
	s, _ := newServer(t, Config{Tutor: mock})

	status, body := do(t, s, "POST", "/api/tutor/ask", `{"question":"what forms?"}`)
	if status != 200 || string(body) != "an inverted real image" {
		t.Errorf("unexpected answer %d %q", status, body)
	}

	q := mock.Calls()[0]
	if q.Lens.FocalLength != optics.DefaultFocalLength || q.Distance != optics.DefaultObjectDistance {
		t.Errorf("question lacks lab state: %+v", q)
	}

	if status, _ := do(t, s, "POST", "/api/tutor/ask", `{"question":"  "}`); status != 400 {
		t.Errorf("expected 400 for a blank question, got %d", status)
	}
}

func TestTutorPreset(t *testing.T) {
	mock := tutor.NewMock("ok")
	s, _ := newServer(t, Config{Tutor: mock})

	do(t, s, "POST", "/api/tutor/ask", `{"preset":"analyze"}`)
	if got := mock.Calls()[0].Text; got != tutor.AnalyzeQuestion(narration.Chinese) {
		t.Errorf("expected the preset question, got %q", got)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s, _ := newServer(t, Config{})
	if status, _ := do(t, s, "GET", "/ws/state", ""); status != http.StatusUpgradeRequired {
		t.Errorf("expected 426, got %d", status)
	}
}

func TestStateWebSocket(t *testing.T) {
	s, l := newServer(t, Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	conn, _, err := gorilla.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/state", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() lab.Snapshot {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return snapshot(t, data)
	}

	if first := read(); first.Object.Distance != optics.DefaultObjectDistance {
		t.Errorf("expected the current state first, got %+v", first)
	}

	if err := l.SetObjectDistance(320); err != nil {
		t.Fatal(err)
	}
	for {
		if snap := read(); snap.Object.Distance == 320 {
			if snap.Zone != optics.ZoneBeyond2F {
				t.Errorf("unexpected zone %s", snap.Zone)
			}
			return
		}
	}
}
