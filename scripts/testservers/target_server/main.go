// Command target_server is a local HTTP target for trying captest end to end.
//
//	go run ./scripts/testservers/target_server -port 8080 -catalog /tmp/catalog.csv
//	captest -s /tmp/catalog.csv -B http://localhost:8080 -t 10
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var sampleCatalog = []struct {
	path   string
	weight int
}{
	{"index.html", 50},
	{"static/app.js", 20},
	{"api/users", 15},
	{"search?q=go", 10},
	{"missing", 3},
	{"flaky", 2},
}

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 5*time.Millisecond, "Base latency added to every response")
	jitter := flag.Duration("jitter", 10*time.Millisecond, "Random extra latency up to this value")
	flakyRatio := flag.Float64("flaky-ratio", 0.5, "Share of /flaky requests answered with 503")
	catalogPath := flag.String("catalog", "", "Write a matching CSV catalog to this path and continue")
	flag.Parse()

	if *port <= 0 {
		log.Fatalf("port must be > 0")
	}
	if *catalogPath != "" {
		if err := writeCatalog(*catalogPath); err != nil {
			log.Fatalf("write catalog: %v", err)
		}
		log.Printf("sample catalog written to %s", *catalogPath)
	}

	log.Fatal(runHTTPServer(*port, *latency, *jitter, *flakyRatio))
}

func runHTTPServer(port int, latency, jitter time.Duration, flakyRatio float64) error {
	var served atomic.Int64
	delay := func() {
		d := latency
		if jitter > 0 {
			d += time.Duration(rand.Int63n(int64(jitter)))
		}
		time.Sleep(d)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		delay()
		http.NotFound(w, r)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		delay()
		if rand.Float64() < flakyRatio {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"served": served.Load()})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		delay()
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
	})

	addr := fmt.Sprintf(":%d", port)
	log.Printf("target server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func writeCatalog(path string) error {
	var b strings.Builder
	b.WriteString("# target,weight\n")
	for _, e := range sampleCatalog {
		fmt.Fprintf(&b, "%s,%d\n", e.path, e.weight)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
