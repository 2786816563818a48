// Package pool implements the persistent websocket session with the mining
// pool: an outer reconnect loop, inbound job/accepted/rejected parsing, and
// an outbound FIFO of submit messages.
package pool

import (
	"encoding/json"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaicoin/shaiminer/internal/banner"
	"github.com/shaicoin/shaiminer/internal/job"
)

// Client maintains the connection to one pool endpoint and feeds the jobs it
// receives into CurrentJob, and accepted/rejected counts into Accepted/Rejected.
type Client struct {
	URL     string
	MinerID string
	Current *job.Current

	Submissions <-chan job.Submission

	Accepted uint64
	Rejected uint64
}

// New builds a pool client. submissions is the worker pool's outbound queue;
// the client drains it and writes one text frame per submission.
func New(url, minerID string, cur *job.Current, submissions <-chan job.Submission) *Client {
	return &Client{
		URL:         url,
		MinerID:     minerID,
		Current:     cur,
		Submissions: submissions,
	}
}

// inboundMessage is the tagged union of messages the pool may send. Fields
// are optional and presence is type-dependent. PPLNSScore is accepted for
// forward compatibility with pool payloads that carry it, but is not acted
// on: PPLNS accounting is pool-side bookkeeping, out of scope here.
type inboundMessage struct {
	Type       string   `json:"type"`
	JobID      string   `json:"job_id"`
	Data       string   `json:"data"`
	Target     string   `json:"target"`
	PPLNSScore *float64 `json:"pplns_score,omitempty"`
}

// submitMessage is the wire shape of an outbound solved-nonce submission.
type submitMessage struct {
	Type    string `json:"type"`
	MinerID string `json:"miner_id"`
	Nonce   string `json:"nonce"`
	JobID   string `json:"job_id"`
	Path    string `json:"path"`
}

// Run drives the outer reconnect loop until stop is closed. Each connection
// attempt blocks until the session ends (read error, clean close, or stop).
func (c *Client) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.URL, nil)
		if err != nil {
			banner.PrintConnectError(err)
			if !sleepInterval(stop, 5*time.Second, 30*time.Second) {
				return
			}
			continue
		}

		c.session(conn, stop)
		c.Current.Clear()

		if !sleepInterval(stop, 11*time.Second, 42*time.Second) {
			return
		}
	}
}

// session runs one connection's inbound read loop and outbound writer until
// either fails or stop is closed.
func (c *Client) session(conn *websocket.Conn, stop <-chan struct{}) {
	defer conn.Close()

	done := make(chan struct{})
	go c.writeLoop(conn, stop, done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			banner.PrintDisconnected()
			close(done)
			return
		}
		c.handleInbound(raw)

		select {
		case <-stop:
			close(done)
			return
		default:
		}
	}
}

func (c *Client) handleInbound(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	switch msg.Type {
	case "job":
		if msg.JobID == "" || msg.Data == "" || msg.Target == "" {
			return
		}
		c.Current.Set(&job.Job{ID: msg.JobID, Data: msg.Data, Target: msg.Target})
		banner.PrintNewJob(msg.JobID, msg.Data, msg.Target)
	case "accepted":
		atomic.AddUint64(&c.Accepted, 1)
		banner.PrintShareAccepted()
	case "rejected":
		atomic.AddUint64(&c.Rejected, 1)
		banner.PrintShareRejected()
	default:
		// Unknown message types are ignored, not fatal.
	}
}

// writeLoop drains the worker pool's submission queue and writes one text
// frame per submission, until stop fires or the read loop signals done. On
// stop or a write failure it closes conn, which ends the session's read loop.
func (c *Client) writeLoop(conn *websocket.Conn, stop <-chan struct{}, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-stop:
			conn.Close()
			return
		case sub := <-c.Submissions:
			msg := submitMessage{
				Type:    "submit",
				MinerID: c.MinerID,
				Nonce:   sub.Nonce,
				JobID:   sub.JobID,
				Path:    sub.Path,
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// sleepInterval sleeps a uniform random duration in [lo, hi), returning
// false if stop fires first (meaning Run should give up entirely).
func sleepInterval(stop <-chan struct{}, lo, hi time.Duration) bool {
	d := lo
	if hi > lo {
		d = lo + time.Duration(rand.Int63n(int64(hi-lo)))
	}
	select {
	case <-time.After(d):
		return true
	case <-stop:
		return false
	}
}
