package inject

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// HTTPReadInjector runs parallelReads worker processes that cycle through
// a URL list, issuing blocking HTTP GETs and discarding results; a fetch
// failure is counted as a no-op; duration-bounded, per spec.md §4.5/§5
// (workers are OS processes, same as CPU/Disk/Deadlock).
type HTTPReadInjector struct {
	base
	parallelReads int
	urls          []string
}

func NewHTTPReadInjector(clk *clock.Source, durationMs int64, parallelReads int, urls []string) *HTTPReadInjector {
	if parallelReads <= 0 {
		parallelReads = 1
	}
	if len(urls) == 0 {
		urls = []string{"https://www.google.com"}
	}
	return &HTTPReadInjector{base: newBase(clk, durationMs), parallelReads: parallelReads, urls: urls}
}

func (h *HTTPReadInjector) Inject(ctx context.Context) {
	go h.runBody(ctx, func(ctx context.Context) {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var wg sync.WaitGroup
		for i := 0; i < h.parallelReads; i++ {
			cmd, err := selfExecWorker(workerCtx, "http-read", "--urls", strings.Join(h.urls, ","))
			if err != nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				waitIgnoringKill(cmd)
			}()
		}

		sleepCtx(ctx, time.Duration(h.durationMs)*time.Millisecond)
		cancel()
		wg.Wait()
	})
}

func (h *HTTPReadInjector) Name() string {
	return fmt.Sprintf("HTTPReadInjection(d%d-p%d)", h.durationMs, h.parallelReads)
}

// RunHTTPReadWorker cycles through urls issuing blocking GETs and
// discarding the bodies until killed; a fetch failure is a no-op. It is
// the body of the "http-read" internal-worker subcommand.
func RunHTTPReadWorker(urls []string) {
	if len(urls) == 0 {
		urls = []string{"https://www.google.com"}
	}
	client := &http.Client{Timeout: 10 * time.Second}
	idx := 0
	for {
		url := urls[idx%len(urls)]
		idx++
		fetchOnce(client, url)
	}
}

func fetchOnce(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		log.Verbosef(2, "http read worker: fetch %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}
