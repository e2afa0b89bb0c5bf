package research

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWatchSessionStreamsUntilTerminal(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	server := httptest.NewServer(router)
	defer server.Close()

	id := svc.CreateSession()
	svc.store.Update(id, func(sess *Session) {
		sess.Status = StatusProcessing
		sess.ResearchProgress = 20
	})

	wsURL := strings.Replace(server.URL, "http", "ws", 1) +
		fmt.Sprintf("/api/research/sessions/%d/watch", id)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first struct {
		Session     Session `json:"session"`
		CurrentStep int     `json:"currentStep"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("Reading first snapshot: %v", err)
	}
	if first.Session.Status != StatusProcessing {
		t.Errorf("Expected processing snapshot, got %q", first.Session.Status)
	}
	if first.CurrentStep != StepSearching {
		t.Errorf("Expected step 2, got %d", first.CurrentStep)
	}

	// Finishing the session ends the stream with a normal close.
	svc.store.Update(id, func(sess *Session) {
		sess.Status = StatusCompleted
		sess.ResearchProgress = 100
		sess.AnalysisProgress = 100
		sess.CompilationProgress = 100
	})

	sawCompleted := false
	for {
		var snap struct {
			Session Session `json:"session"`
		}
		if err := conn.ReadJSON(&snap); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			t.Fatalf("Unexpected read error: %v", err)
		}
		if snap.Session.Status == StatusCompleted {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Error("Never observed the completed snapshot before close")
	}
}

func TestWatchSessionUnknownID(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/api/research/sessions/999/watch"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("Expected 404 handshake response, got %+v", resp)
	}
}
