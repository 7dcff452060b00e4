package football

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Request describes one outbound GET, passed to the worker process on
// stdin.
type Request struct {
	URL                string            `json:"url"`
	Header             map[string]string `json:"header,omitempty"`
	Params             map[string]string `json:"params,omitempty"`
	SoftTimeoutSeconds int               `json:"soft_timeout_seconds"`
}

// workerOutcome is the worker's stdout report. Body carries the raw
// response text; Error is set when the call itself failed.
type workerOutcome struct {
	Body  string `json:"body,omitempty"`
	Error string `json:"error,omitempty"`
}

// Fetcher performs HTTP calls inside an isolated worker process that can
// be killed from the outside. A soft timeout is handed to the HTTP client
// inside the worker; the hard timeout is a wall-clock ceiling enforced
// here by terminating the worker. Fetch therefore always returns within
// the hard timeout plus a bounded termination overhead, even when the
// underlying network stack hangs past its own timeout.
type Fetcher struct {
	exe         string
	args        []string
	hardTimeout time.Duration
	debug       bool
}

// NewFetcher builds a fetcher that re-executes the current binary with
// the hidden fetch-worker subcommand.
func NewFetcher(hardTimeout time.Duration, debug bool) (*Fetcher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate own executable: %w", err)
	}
	return &Fetcher{
		exe:         exe,
		args:        []string{"fetch-worker"},
		hardTimeout: hardTimeout,
		debug:       debug,
	}, nil
}

// NewFetcherCommand builds a fetcher around an arbitrary worker command.
// Tests use it to simulate hanging or misbehaving workers.
func NewFetcherCommand(exe string, args []string, hardTimeout time.Duration) *Fetcher {
	return &Fetcher{exe: exe, args: args, hardTimeout: hardTimeout}
}

// Fetch runs the request in the worker and returns the raw JSON payload.
// Failures are always a *Error: Timeout when the hard deadline killed the
// worker, NetworkError when the call itself failed, Malformed when the
// response was not valid JSON.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Detail: fmt.Sprintf("failed to encode request: %v", err)}
	}

	hctx, cancel := context.WithTimeout(ctx, f.hardTimeout)
	defer cancel()

	cmd := newWorkerCommand(hctx, f.exe, f.args)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if f.debug {
		fmt.Printf("[fetch] %s (soft %ds, hard %s)\n", req.URL, req.SoftTimeoutSeconds, f.hardTimeout)
	}

	// A completed run wins over an expired deadline: the deadline firing
	// after the worker already produced its outcome is not a timeout.
	runErr := cmd.Run()
	if runErr != nil {
		if errors.Is(hctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{
				Kind:   KindTimeout,
				Detail: fmt.Sprintf("request exceeded hard timeout of %s", f.hardTimeout),
			}
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = runErr.Error()
		}
		return nil, &Error{Kind: KindNetwork, Detail: detail}
	}

	var outcome workerOutcome
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		return nil, &Error{Kind: KindMalformed, Detail: "worker produced unparseable output"}
	}
	if outcome.Error != "" {
		return nil, &Error{Kind: KindNetwork, Detail: outcome.Error}
	}
	if !json.Valid([]byte(outcome.Body)) {
		return nil, &Error{Kind: KindMalformed, Detail: "response body is not valid JSON"}
	}
	return json.RawMessage(outcome.Body), nil
}
