package probe

import (
	"fmt"
	"os"
	"strings"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// netdevFields is the fixed 16-column schema of /proc/net/dev, in file
// order, per spec.md §4.3.
var netdevFields = []string{
	"rec.bytes", "rec.pkts", "rec.errs", "rec.drop", "rec.fifo", "rec.frame", "rec.compressed", "rec.multicast",
	"sent.bytes", "sent.pkts", "sent.errs", "sent.drop", "sent.fifo", "sent.frame", "sent.compressed", "sent.multicast",
}

// FileTabularProbe reads a multi-row pseudo-file shaped like
// /proc/net/dev: two header lines are skipped, then each remaining
// non-empty line is collapsed on whitespace, its first token taken as the
// interface name (trailing ':' stripped), and the next 16 tokens mapped to
// netdevFields.
type FileTabularProbe struct {
	base
	name string
	path string
	tag  string
}

// NewFileTabularProbe builds a /proc/net/dev-style FileTabularProbe.
func NewFileTabularProbe(name, path, tag string) *FileTabularProbe {
	return &FileTabularProbe{name: name, path: path, tag: tag}
}

func (p *FileTabularProbe) Describe() string {
	return fmt.Sprintf("%s (%d)", p.name, len(p.listIndicators()))
}

func (p *FileTabularProbe) CanRead() bool {
	return p.Read() != nil
}

func (p *FileTabularProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *FileTabularProbe) Read() sample.Sample {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(raw), "\n")
	result := sample.Sample{}
	for i := 2; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		iface := strings.TrimSuffix(fields[0], ":")
		values := fields[1:]
		for idx, field := range netdevFields {
			if idx >= len(values) {
				break
			}
			result[p.tag+"."+iface+"."+field] = values[idx]
		}
	}
	if len(result) == 0 {
		return nil
	}
	p.recordIndicators(result)
	return result
}
