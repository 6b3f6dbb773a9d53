// File: internal/driver/process.go
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sync"
	"time"
)

const statusPollInterval = 100 * time.Millisecond

var errDriverExited = errors.New("driver exited before becoming ready")

// driverProcess supervises a driver binary that selenium has no service
// constructor for (IEDriverServer, safaridriver).
type driverProcess struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
	once    sync.Once
}

// startProcess runs path with args and blocks until statusURL answers 200,
// the process exits, ctx is done, or timeout elapses.
func startProcess(ctx context.Context, path string, args []string, statusURL string, timeout time.Duration, out io.Writer) (*driverProcess, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", path, err)
	}

	p := &driverProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	if err := waitForStatus(ctx, statusURL, timeout, p.done); err != nil {
		_ = p.Stop()
		return nil, err
	}
	return p, nil
}

// Stop kills the process if it is still running and reaps it. Safe to call twice.
func (p *driverProcess) Stop() error {
	var err error
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		if killErr := p.cmd.Process.Kill(); killErr != nil {
			err = fmt.Errorf("failed to kill driver process: %w", killErr)
		}
		<-p.done
	})
	return err
}

// waitForStatus polls the WebDriver status endpoint. A nil exited channel
// means the caller does not track the process.
func waitForStatus(ctx context.Context, statusURL string, timeout time.Duration, exited <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		if statusOK(ctx, client, statusURL) {
			return nil
		}
		select {
		case <-exited:
			return errDriverExited
		case <-ctx.Done():
			return fmt.Errorf("driver at %s not ready after %s: %w", statusURL, timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

func statusOK(ctx context.Context, client *http.Client, statusURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
