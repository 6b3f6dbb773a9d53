// File: internal/driver/process_test.go
package driver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForStatus(t *testing.T) {
	t.Run("ready after a few polls", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/status", r.URL.Path)
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"value":{"ready":true}}`))
		}))
		defer server.Close()

		err := waitForStatus(context.Background(), server.URL+"/status", 5*time.Second, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, calls.Load(), int32(3))
	})

	t.Run("times out", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		start := time.Now()
		err := waitForStatus(context.Background(), server.URL+"/status", 300*time.Millisecond, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	})

	t.Run("process exit stops the wait", func(t *testing.T) {
		exited := make(chan struct{})
		close(exited)

		err := waitForStatus(context.Background(), "http://127.0.0.1:1/status", 5*time.Second, exited)
		assert.ErrorIs(t, err, errDriverExited)
	})
}

func TestStartProcessMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "IEDriverServer")
	_, err := startProcess(context.Background(), missing, nil, "http://127.0.0.1:1/status", time.Second, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute")
}

// helperDriverEnv selects what TestDriverHelperProcess does when the test
// binary is started as a stand-in driver: "serve" answers /status on the port
// from its command line, "exit" quits before becoming ready.
const helperDriverEnv = "PAGEHARNESS_HELPER_DRIVER"

// TestDriverHelperProcess is not a real test. It runs inside the child process
// started through the script from writeHelperDriver.
func TestDriverHelperProcess(t *testing.T) {
	mode := os.Getenv(helperDriverEnv)
	if mode == "" {
		return
	}
	if mode == "exit" {
		os.Exit(3)
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	// safaridriver takes "--port N", IEDriverServer "/port=N".
	var port string
	for i, arg := range args {
		switch {
		case arg == "--port" && i+1 < len(args):
			port = args[i+1]
		case strings.HasPrefix(arg, "/port="):
			port = strings.TrimPrefix(arg, "/port=")
		}
	}
	if port == "" {
		fmt.Fprintln(os.Stderr, "no port argument")
		os.Exit(2)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":{"ready":true}}`))
	})
	if err := http.ListenAndServe("127.0.0.1:"+port, mux); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// writeHelperDriver puts an executable driver stand-in on a temp path that
// re-enters the test binary in the given helper mode.
func writeHelperDriver(t *testing.T, mode string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("driver stand-in is a shell script")
	}
	exe, err := os.Executable()
	require.NoError(t, err)

	t.Setenv(helperDriverEnv, mode)
	path := filepath.Join(t.TempDir(), "safaridriver")
	script := fmt.Sprintf("#!/bin/sh\nexec '%s' -test.run='^TestDriverHelperProcess$' -- \"$@\"\n", exe)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// statusUp asks a driver status endpoint once.
func statusUp(t *testing.T, statusURL string) bool {
	t.Helper()
	client := &http.Client{Timeout: time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	return statusOK(context.Background(), client, statusURL)
}

func TestDriverProcessStopTwice(t *testing.T) {
	path := writeHelperDriver(t, "serve")
	port, err := freePort()
	require.NoError(t, err)
	statusURL := "http://127.0.0.1:" + strconv.Itoa(port) + "/status"

	p, err := startProcess(context.Background(), path, []string{"--port", strconv.Itoa(port)}, statusURL, 10*time.Second, nil)
	require.NoError(t, err)
	require.True(t, statusUp(t, statusURL))

	require.NoError(t, p.Stop())
	select {
	case <-p.done:
	default:
		t.Fatal("Stop returned before the process was reaped")
	}
	assert.False(t, statusUp(t, statusURL), "driver still answering after Stop")

	assert.NoError(t, p.Stop(), "second Stop is a no-op")
}

func TestStartProcessDriverExits(t *testing.T) {
	path := writeHelperDriver(t, "exit")
	port, err := freePort()
	require.NoError(t, err)
	statusURL := "http://127.0.0.1:" + strconv.Itoa(port) + "/status"

	start := time.Now()
	_, err = startProcess(context.Background(), path, []string{"--port", strconv.Itoa(port)}, statusURL, 10*time.Second, nil)
	assert.ErrorIs(t, err, errDriverExited)
	assert.Less(t, time.Since(start), 5*time.Second, "an exited driver must not wait out the timeout")
}
