package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/hexdelve/internal/config"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/room"
)

func newTestServer(t *testing.T, cfg config.PreviewConfig) (*Server, string) {
	t.Helper()
	gen, err := mapgen.NewGenerator(mapgen.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(cfg, gen)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func defaultPreview() config.PreviewConfig {
	return config.DefaultConfig().Preview
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func request(t *testing.T, conn *websocket.Conn, body string) (MapView, ErrorView) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(body)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var ev ErrorView
	if strings.Contains(string(data), `"error"`) {
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatal(err)
		}
		return MapView{}, ev
	}
	var mv MapView
	if err := json.Unmarshal(data, &mv); err != nil {
		t.Fatalf("bad map view: %v", err)
	}
	return mv, ev
}

func TestPreviewServesMap(t *testing.T) {
	_, url := newTestServer(t, defaultPreview())
	conn := dial(t, url)

	view, ev := request(t, conn, `{"seed":"deadbeef"}`)
	if ev.Error != "" {
		t.Fatalf("server replied with error %q", ev.Error)
	}
	if view.Seed != "deadbeef" || view.Radius != 5 {
		t.Errorf("view header = %q radius %d", view.Seed, view.Radius)
	}
	if len(view.Cells) != 91 {
		t.Errorf("view has %d cells, want 91", len(view.Cells))
	}

	pillars, entrances := 0, 0
	for _, r := range view.Rooms {
		switch r.Room.Type.Kind {
		case room.KindPillar:
			pillars++
		case room.KindEntrance:
			entrances++
			if r.X != 5 || r.Y != 5 {
				t.Errorf("entrance at (%d,%d)", r.X, r.Y)
			}
		}
	}
	if pillars != 4 || entrances != 1 {
		t.Errorf("view has %d pillars and %d entrances", pillars, entrances)
	}
}

func TestPreviewDeterministic(t *testing.T) {
	_, url := newTestServer(t, defaultPreview())
	a, _ := request(t, dial(t, url), `{"seed":"0x2a"}`)
	b, _ := request(t, dial(t, url), `{"seed":"2A"}`)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different views")
	}
}

func TestPreviewErrors(t *testing.T) {
	_, url := newTestServer(t, defaultPreview())
	conn := dial(t, url)

	if _, ev := request(t, conn, `{"seed":"not-hex"}`); ev.Error == "" {
		t.Error("invalid seed did not produce an error")
	}
	if _, ev := request(t, conn, `{{{`); ev.Error == "" {
		t.Error("malformed JSON did not produce an error")
	}

	// connection survives both errors
	view, ev := request(t, conn, `{}`)
	if ev.Error != "" || len(view.Cells) != 91 {
		t.Errorf("random-seed request failed: %q", ev.Error)
	}
}

func TestPreviewRejectsOrigin(t *testing.T) {
	cfg := defaultPreview()
	cfg.AllowedOrigins = []string{"https://example.com"}
	_, url := newTestServer(t, cfg)

	header := http.Header{"Origin": []string{"http://evil.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("connection from a foreign origin was accepted")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestPreviewConnectionLimit(t *testing.T) {
	cfg := defaultPreview()
	cfg.MaxPerIP = 1
	_, url := newTestServer(t, cfg)

	dial(t, url)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second connection from the same IP was accepted")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response = %v, want 429", resp)
	}
}

func TestServeAndShutdown(t *testing.T) {
	gen, _ := mapgen.NewGenerator(mapgen.DefaultParams(), nil)
	s := NewServer(defaultPreview(), gen)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(listener) }()

	conn := dial(t, "ws://"+listener.Addr().String()+"/ws")
	request(t, conn, `{"seed":"1"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("client connection still open after Shutdown")
	}
}
