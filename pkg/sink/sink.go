// Package sink implements the append-only tabular row writer described in
// spec.md §4.2: header written once on first use, then one line per row,
// missing columns rendered empty, one flush per Append call.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// Sink is the append-only row writer contract. Implementations must
// surface write failures to the caller rather than crash the process;
// callers are expected to log and retry on the next Append.
type Sink interface {
	// Append writes rows in input order. The first call against a target
	// that does not yet exist writes a header line (for TabularSink: the
	// header given to New, or else the first row's keys, timestamp first);
	// later rows use that same column order and leave missing columns
	// blank.
	Append(rows []sample.Sample) error
	// Close releases any held file handle.
	Close() error
}

// TabularSink writes comma-separated rows to a single file, opening it
// lazily on the first Append so an empty run never creates an empty file.
type TabularSink struct {
	path   string
	header []string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// New returns a TabularSink targeting path. The file is not touched until
// the first Append call.
//
// header fixes the column order for the lifetime of the run, per spec.md
// §3's Sample invariant (c): the header is the union of declared indicator
// sets observed in the first sample, not whatever order a later map
// happens to iterate in. Callers normally obtain it from
// probe.Registry.DeclaredHeader(). If header is empty, the first row's keys are
// used instead, in Go's (unspecified) map iteration order — acceptable
// only for single-column or test use.
func New(path string, header ...string) *TabularSink {
	return &TabularSink{path: path, header: header}
}

func (t *TabularSink) Append(rows []sample.Sample) error {
	if len(rows) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		if err := t.open(rows[0]); err != nil {
			return fmt.Errorf("sink: opening %s: %w", t.path, err)
		}
	}

	for _, row := range rows {
		record := make([]string, len(t.header))
		for i, col := range t.header {
			if v, ok := row[col]; ok {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := t.writer.Write(record); err != nil {
			return fmt.Errorf("sink: writing row to %s: %w", t.path, err)
		}
	}

	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		return fmt.Errorf("sink: flushing %s: %w", t.path, err)
	}
	return nil
}

// open decides between creating a fresh file with a header derived from
// firstRow, or appending to an existing one whose header is trusted as-is.
func (t *TabularSink) open(firstRow sample.Sample) error {
	_, statErr := os.Stat(t.path)
	exists := statErr == nil

	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	f, err := os.OpenFile(t.path, flags, 0o644)
	if err != nil {
		return err
	}
	t.file = f
	t.writer = csv.NewWriter(f)

	if exists {
		header, err := readExistingHeader(t.path)
		if err != nil {
			return err
		}
		t.header = header
		return nil
	}

	if len(t.header) == 0 {
		t.header = orderedKeys(firstRow)
	}
	return t.writer.Write(t.header)
}

func readExistingHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading existing header: %w", err)
	}
	return header, nil
}

// orderedKeys fixes a column order for the run's lifetime: timestamp
// first (per spec.md §6, "first column is timestamp"), remaining keys in
// the order Go's map iteration happens to yield on this first call. Since
// Go map order is randomized, callers that need a deterministic header
// across runs should route samples through probe.Registry, which fixes
// declared indicator order independently of map iteration.
func orderedKeys(row sample.Sample) []string {
	keys := make([]string, 0, len(row))
	if _, ok := row[sample.TimestampKey]; ok {
		keys = append(keys, sample.TimestampKey)
	}
	for k := range row {
		if k == sample.TimestampKey {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func (t *TabularSink) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	t.writer.Flush()
	err := t.file.Close()
	t.file = nil
	return err
}
