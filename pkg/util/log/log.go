// Package log is a thin leveled wrapper around seelog, mirroring the
// shape of the teacher's own pkg/util/log without pulling in its full
// component graph.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/cihub/seelog"
)

var (
	mu       sync.RWMutex
	logger   seelog.LoggerInterface = seelog.Disabled
	verbose  int
)

// Configure sets the process-wide logger and the verbosity threshold used
// by Verbosef. verbosity follows the original CLI semantics: 0 suppresses
// everything but warnings/errors, 1 is base info, 2 is chatty per-tick
// diagnostics.
func Configure(verbosity int) {
	mu.Lock()
	defer mu.Unlock()
	verbose = verbosity

	minLevel := "trace"
	if verbosity <= 0 {
		minLevel = "warn"
	}
	cfg := `
<seelog minlevel="` + minLevel + `">
	<outputs formatid="main">
		<console/>
	</outputs>
	<formats>
		<format id="main" format="%Date(2006-01-02 15:04:05.000) [%Level] %Msg%n"/>
	</formats>
</seelog>`
	l, err := seelog.LoggerFromConfigAsString(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: failed to configure seelog, falling back to disabled logger: %v\n", err)
		return
	}
	logger = l
}

// Flush drains any buffered log output; callers should defer it once at
// process start after Configure.
func Flush() {
	mu.RLock()
	defer mu.RUnlock()
	logger.Flush()
}

func cur() seelog.LoggerInterface {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, args ...interface{}) { cur().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { cur().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { _ = cur().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { _ = cur().Errorf(format, args...) }

// Verbosef only emits at Debug level when the configured verbosity is at
// least n, matching the original "-v 2 prints everything" CLI convention.
func Verbosef(n int, format string, args ...interface{}) {
	mu.RLock()
	v := verbose
	mu.RUnlock()
	if v >= n {
		cur().Debugf(format, args...)
	}
}
