package probe

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
)

// FileScalarProbe reads the whole contents of a pseudo-file (e.g. a
// thermal zone) and interprets it as a single integer indicator, per
// spec.md §4.3.
type FileScalarProbe struct {
	base
	name      string
	path      string
	indicator string
}

// NewFileScalarProbe builds a FileScalarProbe over path, emitting a single
// indicator named indicator.
func NewFileScalarProbe(name, path, indicator string) *FileScalarProbe {
	return &FileScalarProbe{name: name, path: path, indicator: indicator}
}

func (p *FileScalarProbe) Describe() string {
	return fmt.Sprintf("%s (1)", p.name)
}

func (p *FileScalarProbe) CanRead() bool {
	return p.Read() != nil
}

func (p *FileScalarProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *FileScalarProbe) Read() sample.Sample {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	result := sample.Sample{p.indicator: value}
	p.recordIndicators(result)
	return result
}
