/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in anonymous usage events and crash reports.
// Nothing leaves the machine unless VED_TELEMETRY_OPT_IN is set and an
// endpoint is configured.
//
// Environment (prefix VED_TELEMETRY_):
//
//	OPT_IN      "1", "true": enable
//	URL         endpoint for JSON usage events
//	CRASH_URL   endpoint for crash report uploads
//	TIMEOUT_MS  request timeout, default 1500
//	DEBUG       log send attempts
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	applog "vectoredit/internal/log"
	"vectoredit/internal/version"
)

const envPrefix = "VED_TELEMETRY"

// Config holds the telemetry settings.
type Config struct {
	OptIn     bool   `envconfig:"OPT_IN"`
	EventsURL string `envconfig:"URL"`
	CrashURL  string `envconfig:"CRASH_URL"`
	TimeoutMS int    `envconfig:"TIMEOUT_MS" default:"1500"`
	Debug     bool   `envconfig:"DEBUG"`
}

// FromEnv reads Config from the environment. Malformed values disable
// telemetry instead of failing startup.
func FromEnv() Config {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		applog.WithComponent("telemetry").Warn("ignoring telemetry environment", slog.Any("err", err))
		return Config{TimeoutMS: 1500}
	}
	cfg.EventsURL = strings.TrimSpace(cfg.EventsURL)
	cfg.CrashURL = strings.TrimSpace(cfg.CrashURL)
	return cfg
}

func (c Config) timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Client queues events and posts them from one goroutine. Events are
// dropped when the queue is full or a request fails.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	session string

	q       chan map[string]any
	pending sync.WaitGroup
	once    sync.Once
	closed  chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client, built from the environment on
// first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault installs c as the process-wide client and returns the previous one.
func SetDefault(c *Client) *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultClient
	defaultClient = c
	return prev
}

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		log:     applog.WithComponent("telemetry"),
		cli:     &http.Client{Timeout: cfg.timeout()},
		session: uuid.NewString(),
		q:       make(chan map[string]any, 64),
		closed:  make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether usage events are sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// CrashUploadEnabled reports whether crash reports are uploaded.
func (c *Client) CrashUploadEnabled() bool { return c != nil && c.cfg.OptIn && c.cfg.CrashURL != "" }

// Event queues a usage event. props must not carry document content.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"session": c.session,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		if _, reserved := payload[k]; !reserved {
			payload[k] = v
		}
	}
	c.pending.Add(1)
	select {
	case c.q <- payload:
	default:
		c.pending.Done()
	}
}

// Flush waits until queued events are sent or ctx ends.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the sender. Queued events are discarded.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.closed) })
}

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			buf, err := json.Marshal(item)
			if err == nil {
				err = c.post(context.Background(), c.cfg.EventsURL, "application/json", buf)
			}
			c.debug("event", err)
			c.pending.Done()
		}
	}
}

// UploadCrash posts a crash report and waits for the result, so it can run
// right before the process exits.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if !c.CrashUploadEnabled() {
		return nil
	}
	err := c.post(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report)
	c.debug("crash report", err)
	return err
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session", c.session)
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry endpoint returned %s", resp.Status)
	}
	return nil
}

func (c *Client) debug(what string, err error) {
	if !c.cfg.Debug {
		return
	}
	if err != nil {
		c.log.Debug(what+" send failed", slog.Any("err", err))
		return
	}
	c.log.Debug(what + " sent")
}

// Event queues a usage event on the default client.
func Event(name string, props map[string]any) { Default().Event(name, props) }

// UploadCrash uploads a crash report with the default client.
func UploadCrash(ctx context.Context, report []byte) error {
	return Default().UploadCrash(ctx, report)
}
