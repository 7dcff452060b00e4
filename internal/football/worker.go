package football

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"time"
)

// newWorkerCommand prepares the worker process. CommandContext kills the
// process when the hard-timeout context expires; WaitDelay bounds how long
// Run waits for I/O after the kill, so the termination overhead stays
// bounded even if the worker ignores the signal.
func newWorkerCommand(ctx context.Context, exe string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.WaitDelay = time.Second
	return cmd
}

// RunWorker is the body of the hidden fetch-worker subcommand. It reads a
// Request as JSON from stdin, performs the GET with the soft timeout, and
// writes a workerOutcome as JSON to stdout. It always reports through the
// outcome, never through its exit status, so the parent can distinguish
// call failures from worker failures.
func RunWorker(stdin io.Reader, stdout io.Writer) error {
	report := func(outcome workerOutcome) error {
		return json.NewEncoder(stdout).Encode(outcome)
	}

	var req Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return report(workerOutcome{Error: fmt.Sprintf("invalid request spec: %v", err)})
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return report(workerOutcome{Error: fmt.Sprintf("invalid url: %v", err)})
	}
	query := target.Query()
	for k, v := range req.Params {
		query.Set(k, v)
	}
	target.RawQuery = query.Encode()

	httpReq, err := http.NewRequest(http.MethodGet, target.String(), nil)
	if err != nil {
		return report(workerOutcome{Error: fmt.Sprintf("failed to create request: %v", err)})
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	softTimeout := time.Duration(req.SoftTimeoutSeconds) * time.Second
	if softTimeout <= 0 {
		softTimeout = 3 * time.Second
	}
	client := &http.Client{Timeout: softTimeout}

	resp, err := client.Do(httpReq)
	if err != nil {
		return report(workerOutcome{Error: fmt.Sprintf("request failed: %v", err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return report(workerOutcome{Error: fmt.Sprintf("failed to read response body: %v", err)})
	}
	if resp.StatusCode >= 400 {
		return report(workerOutcome{Error: fmt.Sprintf("api returned status %d", resp.StatusCode), Body: string(body)})
	}

	return report(workerOutcome{Body: string(body)})
}
