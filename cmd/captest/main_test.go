package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/torosent/captest/internal/catalog"
	"github.com/torosent/captest/internal/config"
	"github.com/torosent/captest/internal/history"
)

type hitServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newHitServer(t *testing.T) *hitServer {
	t.Helper()
	hs := &hitServer{hits: map[string]int{}}
	hs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hs.mu.Lock()
		hs.hits[r.URL.Path]++
		hs.mu.Unlock()
		switch r.URL.Path {
		case "/broken":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))
	t.Cleanup(hs.Close)
	return hs
}

func (hs *hitServer) count(path string) int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return hs.hits[path]
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPrintsResults(t *testing.T) {
	srv := newHitServer(t)
	src := writeCatalog(t, "# weighted pages\nindex.html,3\nmissing,1\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-s", src, "-B", srv.URL, "-c", "2", "-t", "0.2", "--delay", "0s", "-v", "2"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v\nstderr:\n%s", err, stderr.String())
	}

	out := stdout.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[len(lines)-2] != "---------------------" || !strings.HasPrefix(lines[len(lines)-1], "Results: ") {
		t.Fatalf("unexpected report tail:\n%s", out)
	}
	if srv.count("/index.html") == 0 {
		t.Fatalf("expected index.html to be fetched")
	}
	if !strings.Contains(out, "HTTP 404") {
		t.Fatalf("expected 404 bucket in report:\n%s", out)
	}
}

func TestRunServerErrorsStillExitCleanly(t *testing.T) {
	srv := newHitServer(t)
	src := writeCatalog(t, "broken,1\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-s", src, "-B", srv.URL, "-t", "0.1", "--delay", "0s", "-v", "2", "--json-output"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var summary struct {
		TotalRequests int64            `json:"total_requests"`
		TotalErrors   int64            `json:"total_errors"`
		Rate          float64          `json:"rate"`
		Statuses      map[string]int64 `json:"statuses"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &summary); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, stdout.String())
	}
	if summary.TotalRequests != 0 || summary.Rate != 0 {
		t.Fatalf("expected zero successes, got %+v", summary)
	}
	if summary.TotalErrors == 0 || summary.Statuses["503"] != summary.TotalErrors {
		t.Fatalf("expected every fetch to be a 503 error, got %+v", summary)
	}
	if !strings.Contains(stderr.String(), "broken returned with 503") {
		t.Fatalf("expected a warning per 503 in the log:\n%s", stderr.String())
	}
}

func TestRunFailedThresholdIsAnError(t *testing.T) {
	srv := newHitServer(t)
	src := writeCatalog(t, "broken,1\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-s", src, "-B", srv.URL, "-t", "0.1", "--threshold", "errors:count < 1", "-v", "1"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "thresholds failed") {
		t.Fatalf("expected threshold failure, got %v", err)
	}
}

func TestRunAppendsHistory(t *testing.T) {
	srv := newHitServer(t)
	src := writeCatalog(t, "index.html,1\n")
	hist := filepath.Join(t.TempDir(), "runs.jsonl")

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"-s", src, "-B", srv.URL, "-t", "0.05", "-v", "0", "--history-file", hist}, &stdout, &stderr); err != nil {
			t.Fatalf("run() error = %v", err)
		}
	}

	records, err := history.Read(t.Context(), hist)
	if err != nil {
		t.Fatalf("history.Read() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(records))
	}
	if records[0].RunID == "" || records[0].RunID == records[1].RunID {
		t.Fatalf("expected distinct run ids, got %q and %q", records[0].RunID, records[1].RunID)
	}
	if records[0].Source != src || records[0].BaseURL != srv.URL {
		t.Fatalf("unexpected record metadata %+v", records[0])
	}
}

func TestRunConfigurationErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"-c", "0"}, &stdout, &stderr)
	var ve config.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	err = run([]string{"-s", filepath.Join(t.TempDir(), "absent.csv")}, &stdout, &stderr)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing catalog error, got %v", err)
	}

	src := writeCatalog(t, "# nothing here\n")
	err = run([]string{"-s", src}, &stdout, &stderr)
	if !errors.Is(err, catalog.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	src = writeCatalog(t, "index.html,heavy\n")
	err = run([]string{"-s", src}, &stdout, &stderr)
	var pe *catalog.ParseError
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Fatalf("expected ParseError on line 1, got %v", err)
	}
}

func TestRunNoArgsFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); !errors.Is(err, config.ErrNoSource) {
		t.Fatalf("run(nil) error = %v, want ErrNoSource", err)
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--help"}, &stdout, &stderr); err != nil {
		t.Fatalf("run(--help) error = %v", err)
	}
}
