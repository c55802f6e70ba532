package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketAssessmentFlow(t *testing.T) {
	env := newTestEnv()
	server := httptest.NewServer(env.router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?topic=Arrays&learner=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the session view first.
	_, payload := readNext(conn, t, "session")
	if payload["state"] != "in_progress" {
		t.Fatalf("expected in_progress, got %v", payload["state"])
	}

	send(t, conn, map[string]any{"type": "submit"})
	_, payload = readNext(conn, t, "error")
	if payload["code"] != string(ErrIncompleteAnswers) {
		t.Fatalf("expected incomplete answers, got %v", payload["code"])
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"index": 0, "letter": "A"}})
	readNext(conn, t, "session")
	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"index": 1, "letter": "Z"}})
	_, payload = readNext(conn, t, "error")
	if payload["code"] != string(ErrInvalidOption) {
		t.Fatalf("expected invalid option, got %v", payload["code"])
	}
	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"index": 1, "letter": "B"}})
	_, payload = readNext(conn, t, "session")
	if payload["canSubmit"] != true {
		t.Fatalf("expected canSubmit after answering all")
	}

	send(t, conn, map[string]any{"type": "submit"})
	_, payload = readNext(conn, t, "submitted")
	if payload["score"] != float64(100) {
		t.Fatalf("expected score 100, got %v", payload["score"])
	}
}

func TestWebSocketDiscardsSessionOnDisconnect(t *testing.T) {
	env := newTestEnv()
	server := httptest.NewServer(env.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?topic=Arrays&learner=u2", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_, payload := readNext(conn, t, "session")
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatalf("expected session id")
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := env.service.Session(t.Context(), id); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected session %s to be discarded after disconnect", id)
}

func TestWebSocketRequiresTopic(t *testing.T) {
	env := newTestEnv()
	server := httptest.NewServer(env.router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %v", resp)
	}
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
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
