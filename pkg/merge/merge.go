// Package merge implements the post-run labeling step: stitch a monitor
// CSV and an injection-log CSV into a single labeled CSV, per spec.md's
// merge utility, grounded on original_source/merge_data_injections.py.
package merge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// NormalLabel is the tag applied to a monitor row that falls outside
// every injection interval.
const NormalLabel = "normal"

// fallbackTimestampTags is the column-name fallback chain tried, in
// order, when the requested timestamp tag is not present in the monitor
// header, mirroring the original's index() chain.
var fallbackTimestampTags = []string{"timestamp", "_timestamp", "time"}

// Injection is one labeled interval read from an injection log.
type Injection struct {
	Start int64
	End   int64
	Tag   string
}

// Merge reads monitorPath and injectionsPath, writes outPath with an
// appended "label" column, and returns the number of injections
// retrieved and the number of monitor rows written.
func Merge(monitorPath, injectionsPath, outPath, timestampTag string) (injectionCount, rowCount int, err error) {
	injections, err := readInjections(injectionsPath)
	if err != nil {
		return 0, 0, err
	}
	sort.Slice(injections, func(i, j int) bool { return injections[i].Start < injections[j].Start })

	in, err := os.Open(monitorPath)
	if err != nil {
		return 0, 0, fmt.Errorf("merge: opening monitor file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, 0, fmt.Errorf("merge: creating output file: %w", err)
	}
	defer out.Close()

	reader := csv.NewReader(in)
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return len(injections), 0, nil
		}
		return 0, 0, fmt.Errorf("merge: reading monitor header: %w", err)
	}

	tsIndex, err := timestampIndex(header, timestampTag)
	if err != nil {
		return 0, 0, err
	}

	if err := writer.Write(append(append([]string(nil), header...), "label")); err != nil {
		return 0, 0, fmt.Errorf("merge: writing output header: %w", err)
	}

	cursor := 0
	written := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("merge: reading monitor row: %w", err)
		}
		if len(row) <= tsIndex {
			continue
		}
		ts, convErr := strconv.ParseInt(strings.TrimSpace(row[tsIndex]), 10, 64)
		if convErr != nil {
			continue
		}

		label := NormalLabel
		if len(injections) > 0 {
			for cursor < len(injections)-1 && ts > injections[cursor].End {
				cursor++
			}
			if injections[cursor].Start <= ts && ts <= injections[cursor].End {
				label = injections[cursor].Tag
			}
		}

		if err := writer.Write(append(append([]string(nil), row...), label)); err != nil {
			return 0, 0, fmt.Errorf("merge: writing output row: %w", err)
		}
		written++
	}

	return len(injections), written, nil
}

func readInjections(path string) ([]Injection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("merge: opening injection file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("merge: reading injection header: %w", err)
	}

	var injections []Injection
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("merge: reading injection row: %w", err)
		}
		if len(row) != 3 {
			continue
		}
		start, errStart := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		end, errEnd := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if errStart != nil || errEnd != nil {
			continue
		}
		injections = append(injections, Injection{Start: start, End: end, Tag: strings.TrimSpace(row[2])})
	}
	return injections, nil
}

// timestampIndex locates tag in header, falling back through
// fallbackTimestampTags in order when tag itself is absent, matching the
// original's index() fallback chain.
func timestampIndex(header []string, tag string) (int, error) {
	candidates := append([]string{tag}, fallbackTimestampTags...)
	for _, candidate := range candidates {
		for i, col := range header {
			if col == candidate {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("merge: no timestamp column found in monitor header (tried %v)", candidates)
}
