package probe

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// ShellKVProbe runs "cmd args", reads stdout as text and parses it as
// colon- or whitespace-separated key/value lines (meminfo, vmstat-style),
// per spec.md §2/§4.3. Every parsed pair is emitted as "tag.key = value".
type ShellKVProbe struct {
	base
	name      string
	cmd       string
	args      []string
	tag       string
	separator byte // ':' for meminfo-style, ' ' for vmstat-style
}

// NewShellKVProbe builds a colon-separated ShellKVProbe (meminfo-style)
// that runs `cmd args...` and prefixes every parsed indicator with tag.
func NewShellKVProbe(name, cmd, tag string, args ...string) *ShellKVProbe {
	return &ShellKVProbe{name: name, cmd: cmd, args: args, tag: tag, separator: ':'}
}

// NewShellKVProbeSpaceSeparated builds a whitespace-separated ShellKVProbe
// (vmstat-style).
func NewShellKVProbeSpaceSeparated(name, cmd, tag string, args ...string) *ShellKVProbe {
	return &ShellKVProbe{name: name, cmd: cmd, args: args, tag: tag, separator: ' '}
}

func (p *ShellKVProbe) Describe() string {
	return fmt.Sprintf("%s (%d)", p.name, len(p.listIndicators()))
}

func (p *ShellKVProbe) CanRead() bool {
	return p.Read() != nil
}

func (p *ShellKVProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *ShellKVProbe) Read() sample.Sample {
	out, err := exec.Command(p.cmd, p.args...).Output()
	if err != nil {
		return nil
	}
	var parsed map[string]string
	if p.separator == ' ' {
		parsed = parseSpaceKV(string(out))
	} else {
		parsed = parseColonKV(string(out))
	}
	if parsed == nil {
		return nil
	}
	result := make(sample.Sample, len(parsed))
	for k, v := range parsed {
		result[p.tag+"."+k] = v
	}
	p.recordIndicators(result)
	return result
}

// parseColonKV splits on newlines, and for each non-empty line splits on
// the first ':', trimming both sides; if the value contains spaces only
// the first space-delimited token is kept. Exactly spec.md §4.3's
// ShellKV policy.
func parseColonKV(text string) map[string]string {
	lines := strings.Split(text, "\n")
	out := map[string]string{}
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if spaceIdx := strings.Index(value, " "); spaceIdx >= 0 {
			value = value[:spaceIdx]
		}
		if name != "" {
			out[name] = value
		}
	}
	return out
}

// parseSpaceKV handles the /proc/vmstat shape: each non-empty line is
// "name value", first whitespace run is the separator; if the value
// itself contains further whitespace only the first token is kept.
func parseSpaceKV(text string) map[string]string {
	lines := strings.Split(text, "\n")
	out := map[string]string{}
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		idx := strings.Index(line, " ")
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if spaceIdx := strings.Index(value, " "); spaceIdx >= 0 {
			value = value[:spaceIdx]
		}
		if name != "" {
			out[name] = value
		}
	}
	return out
}
