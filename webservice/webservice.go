// Package webservice runs a webservice that executes the nested spawn
// regression on request and returns its trace and communication models.
package webservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nickng/handoff/scenario"
	"github.com/nickng/handoff/task"
	"github.com/nickng/handoff/trace"
)

// MaxWait bounds how long a request may keep main waiting.
var MaxWait = 5 * time.Second

// request is the JSON body accepted by the handlers. Missing fields take
// the values of scenario.DefaultConfig.
type request struct {
	Depth    int    `json:"depth"`
	Value    int    `json:"value"`
	Expected int    `json:"expected"`
	SkipSend bool   `json:"skipSend"`
	Leak     bool   `json:"leak"`
	Timeout  string `json:"timeout"`
}

func parseConfig(req *http.Request) (scenario.Config, error) {
	cfg := scenario.DefaultConfig()
	r := request{Depth: cfg.Depth, Value: cfg.Value, Expected: cfg.Expected}
	if req.Body != nil {
		defer req.Body.Close()
		if err := json.NewDecoder(req.Body).Decode(&r); err != nil && !errors.Is(err, io.EOF) {
			return cfg, err
		}
	}
	cfg.Depth, cfg.Value, cfg.Expected = r.Depth, r.Value, r.Expected
	cfg.SkipSend, cfg.Leak = r.SkipSend, r.Leak
	if r.Timeout != "" {
		d, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return cfg, err
		}
		cfg.Timeout = d
	}
	if cfg.Timeout <= 0 || cfg.Timeout > MaxWait {
		cfg.Timeout = MaxWait
	}
	if cfg.Depth < 1 {
		return cfg, fmt.Errorf("invalid depth %d", cfg.Depth)
	}
	return cfg, nil
}

// outcome is a finished run.
type outcome struct {
	Result scenario.Result
	Err    error
	Events []trace.Event
}

func execute(ctx context.Context, cfg scenario.Config) outcome {
	rec := trace.NewRecorder(nil)
	pool := task.New(task.WithObserver(rec))
	res, err := scenario.Run(ctx, pool, rec, cfg)

	wctx, cancel := context.WithTimeout(ctx, MaxWait)
	defer cancel()
	pool.Wait(wctx)
	return outcome{Result: res, Err: err, Events: rec.Slice()}
}
