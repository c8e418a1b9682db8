package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/solwatch/dexlogs/registry"
)

// Defaults for the reconnect backoff strategy.
const (
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultCommitment     = "processed"
)

// Options configures a Collector.
type Options struct {
	Endpoint       string
	Commitment     string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Collector owns the websocket subscription to the Solana log feed and
// drives every notification through match, decode and append. It runs
// until its context is cancelled; any transport failure triggers a
// reconnect with exponential backoff, never a crash.
type Collector struct {
	endpoint       string
	commitment     string
	initialBackoff time.Duration
	maxBackoff     time.Duration

	matcher *Matcher
	decoder *Decoder
	sink    Sink
	metrics *Metrics
	logger  *zap.Logger
	dialer  *websocket.Dialer

	requestID int
}

// New creates a collector for the given feed endpoint, program registry
// and sink.
func New(opts Options, reg *registry.Registry, sink Sink, metrics *Metrics, logger *zap.Logger) *Collector {
	if opts.Commitment == "" {
		opts.Commitment = defaultCommitment
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}

	return &Collector{
		endpoint:       opts.Endpoint,
		commitment:     opts.Commitment,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		matcher:        NewMatcher(reg),
		decoder:        NewDecoder(logger),
		sink:           sink,
		metrics:        metrics,
		logger:         logger,
		dialer:         websocket.DefaultDialer,
	}
}

// subscribeRequest is the JSON-RPC logsSubscribe message sent once per
// connection. The request ID is not correlated with later notifications;
// everything after the subscribe is an asynchronous push.
type subscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// feedMessage is the inbound message envelope. Only messages whose method
// is logsNotification are processed.
type feedMessage struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Value struct {
				Signature string   `json:"signature"`
				Logs      []string `json:"logs"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// Run connects, subscribes and receives until ctx is cancelled. Connection
// failures are logged and retried with capped exponential backoff; the
// backoff resets once a subscription succeeds.
func (c *Collector) Run(ctx context.Context) error {
	backoff := c.initialBackoff

	for {
		subscribed, err := c.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if subscribed {
			backoff = c.initialBackoff
		}

		c.metrics.RecordReconnect(err)
		c.logger.Warn("Connection lost, reconnecting",
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, c.maxBackoff)
	}
}

// runConnection performs one full connection lifetime: dial, subscribe,
// receive until error. Returns whether the subscribe handshake completed,
// and the error that ended the connection.
func (c *Collector) runConnection(ctx context.Context) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to dial %s: %w", c.endpoint, err)
	}
	defer conn.Close()

	// Closing the connection is the only way to abort a blocked read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c.requestID++
	sub := subscribeRequest{
		JSONRPC: "2.0",
		ID:      c.requestID,
		Method:  "logsSubscribe",
		Params:  []interface{}{"all", map[string]string{"commitment": c.commitment}},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return false, fmt.Errorf("failed to send subscribe request: %w", err)
	}

	c.logger.Info("Subscribed to logs",
		zap.String("endpoint", c.endpoint),
		zap.String("commitment", c.commitment),
		zap.Int("request_id", c.requestID),
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("receive failed: %w", err)
		}
		if err := c.handleMessage(data); err != nil {
			return true, err
		}
	}
}

// handleMessage parses one inbound message. Messages that are not log
// notifications are ignored; a message that is not valid JSON is a
// transport-level failure and resets the connection.
func (c *Collector) handleMessage(data []byte) error {
	var msg feedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("malformed feed message: %w", err)
	}
	if msg.Method != "logsNotification" {
		return nil
	}

	c.metrics.RecordNotification()
	c.handleNotification(msg.Params.Result.Value.Signature, msg.Params.Result.Value.Logs)
	return nil
}

// handleNotification runs one notification through the pipeline. All
// entries derived from it share a single capture timestamp. Failures here
// are local: a bad payload line or a failed append never ends the
// connection.
func (c *Collector) handleNotification(txid string, logs []string) {
	matches := c.matcher.Match(logs)
	if len(matches) == 0 {
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	for _, match := range matches {
		c.metrics.RecordMatch()
		c.logger.Info("Matched DEX program",
			zap.String("dex", match.DexName),
			zap.String("program_id", match.ProgramID),
			zap.String("txid", txid),
		)

		payloads, failed := c.decoder.Decode(logs)
		for i := 0; i < failed; i++ {
			c.metrics.RecordDecodeFailure()
		}

		for _, payload := range payloads {
			entry := buildEntry(match, txid, timestamp, payload)
			if err := c.sink.Append(entry); err != nil {
				c.metrics.RecordAppendFailure(err)
				c.logger.Error("Failed to persist entry",
					zap.String("txid", txid),
					zap.Error(err),
				)
				continue
			}

			c.metrics.RecordEntryWritten()
			c.logger.Info("Captured DEX log",
				zap.String("dex", match.DexName),
				zap.String("txid", txid),
				zap.Int("bytes", entry.HexSize),
			)
		}
	}
}

// nextBackoff doubles the delay up to the cap and adds up to 10% jitter.
func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		next = max
	}
	jitter := time.Duration(rand.Float64() * float64(next) * 0.1)
	return next + jitter
}
