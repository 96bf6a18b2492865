package probe

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// ShellTabularProbe scans command output for a header line starting with a
// known sentinel ("avg-cpu" for iostat), strips '%', splits on whitespace,
// then takes the very next non-empty line as the matching value row,
// zipping headers to values. Returns an empty mapping if the sentinel is
// absent, per spec.md §4.3.
type ShellTabularProbe struct {
	base
	name     string
	cmd      string
	args     []string
	tag      string
	sentinel string
}

// NewShellTabularProbe builds an iostat-style ShellTabularProbe.
func NewShellTabularProbe(name, cmd, tag, sentinel string, args ...string) *ShellTabularProbe {
	return &ShellTabularProbe{name: name, cmd: cmd, args: args, tag: tag, sentinel: sentinel}
}

func (p *ShellTabularProbe) Describe() string {
	return fmt.Sprintf("%s (%d)", p.name, len(p.listIndicators()))
}

func (p *ShellTabularProbe) CanRead() bool {
	data := p.Read()
	return data != nil && len(data) > 0
}

func (p *ShellTabularProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *ShellTabularProbe) Read() sample.Sample {
	out, err := exec.Command(p.cmd, p.args...).Output()
	if err != nil {
		return nil
	}
	parsed := p.parse(string(out))
	result := make(sample.Sample, len(parsed))
	for k, v := range parsed {
		result[p.tag+"."+k] = v
	}
	p.recordIndicators(result)
	return result
}

func (p *ShellTabularProbe) parse(text string) map[string]string {
	lines := strings.Split(text, "\n")
	var headers []string
	for i, line := range lines {
		if headers != nil {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			return zip(headers, fields)
		}
		if strings.HasPrefix(line, p.sentinel) {
			stripped := strings.ReplaceAll(line, "%", "")
			fields := strings.Fields(stripped)
			if len(fields) > 1 {
				headers = fields[1:]
			} else {
				headers = []string{}
			}
		}
		_ = i
	}
	return map[string]string{}
}

func zip(headers, values []string) map[string]string {
	out := make(map[string]string, len(headers))
	n := len(headers)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		out[headers[i]] = values[i]
	}
	return out
}
