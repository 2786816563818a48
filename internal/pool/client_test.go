package pool

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaicoin/shaiminer/internal/job"
)

func TestHandleInboundJobPublishesJob(t *testing.T) {
	var cur job.Current
	c := &Client{Current: &cur}

	c.handleInbound([]byte(`{"type":"job","job_id":"j1","data":"deadbeef","target":"00ff"}`))

	got := cur.Snapshot()
	if got == nil || got.ID != "j1" || got.Data != "deadbeef" || got.Target != "00ff" {
		t.Fatalf("Snapshot() = %+v, want job j1", got)
	}
}

func TestHandleInboundIncompleteJobIgnored(t *testing.T) {
	var cur job.Current
	c := &Client{Current: &cur}

	c.handleInbound([]byte(`{"type":"job","job_id":"j1"}`))

	if got := cur.Snapshot(); got != nil {
		t.Fatalf("Snapshot() = %+v, want nil for incomplete job", got)
	}
}

func TestHandleInboundAcceptedRejected(t *testing.T) {
	var cur job.Current
	c := &Client{Current: &cur}

	c.handleInbound([]byte(`{"type":"accepted"}`))
	c.handleInbound([]byte(`{"type":"rejected"}`))
	c.handleInbound([]byte(`{"type":"rejected"}`))

	if c.Accepted != 1 {
		t.Fatalf("Accepted = %d, want 1", c.Accepted)
	}
	if c.Rejected != 2 {
		t.Fatalf("Rejected = %d, want 2", c.Rejected)
	}
}

func TestHandleInboundUnknownTypeIgnored(t *testing.T) {
	var cur job.Current
	c := &Client{Current: &cur}
	c.handleInbound([]byte(`{"type":"ping"}`))
	c.handleInbound([]byte(`not json`))
	if c.Accepted != 0 || c.Rejected != 0 || cur.Snapshot() != nil {
		t.Fatalf("unknown/malformed messages must be ignored, not fatal")
	}
}

func TestSleepIntervalRespectsStop(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	if sleepInterval(stop, 11*time.Second, 42*time.Second) {
		t.Fatalf("sleepInterval should return false when stop is already closed")
	}
}

func TestSleepIntervalWithinBounds(t *testing.T) {
	stop := make(chan struct{})
	start := time.Now()
	ok := sleepInterval(stop, 10*time.Millisecond, 20*time.Millisecond)
	elapsed := time.Since(start)
	if !ok {
		t.Fatalf("sleepInterval should return true when stop never fires")
	}
	if elapsed < 10*time.Millisecond {
		t.Fatalf("sleepInterval returned too early: %s", elapsed)
	}
}

// TestRunPublishesJobAndSubmits spins up a local websocket server that sends
// one job then reads one submit frame, covering the full round trip through
// Run's session handling (E4-style).
func TestRunPublishesJobAndSubmits(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotSubmit := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"job","job_id":"j1","data":"00","target":"ff"}`)); err != nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		gotSubmit <- string(raw)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	var cur job.Current
	submissions := make(chan job.Submission, 1)
	c := New(wsURL, "miner1", &cur, submissions)

	stop := make(chan struct{})
	go c.Run(stop)

	deadline := time.After(2 * time.Second)
	for cur.Snapshot() == nil {
		select {
		case <-deadline:
			t.Fatalf("job was never published")
		case <-time.After(5 * time.Millisecond):
		}
	}

	submissions <- job.Submission{JobID: "j1", Nonce: "00000001", Path: "abcd"}

	select {
	case raw := <-gotSubmit:
		if !strings.Contains(raw, `"type":"submit"`) || !strings.Contains(raw, `"miner_id":"miner1"`) {
			t.Fatalf("unexpected submit frame: %s", raw)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never received submit frame")
	}

	close(stop)
}

func TestSubmitMessageShape(t *testing.T) {
	sub := job.Submission{JobID: "j1", Nonce: "00000001", Path: strings.Repeat("ff", 4)}
	msg := submitMessage{Type: "submit", MinerID: "addr1", Nonce: sub.Nonce, JobID: sub.JobID, Path: sub.Path}
	if msg.Type != "submit" || msg.MinerID != "addr1" {
		t.Fatalf("unexpected submit message shape: %+v", msg)
	}
}
