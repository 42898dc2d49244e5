package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Reporter receives non-fatal problems from script objects, one line each.
type Reporter interface {
	Report(format string, args ...any)
}

// lineReporter writes each report as a single log line.
type lineReporter struct {
	logger *log.Logger
}

func newLineReporter(w io.Writer) *lineReporter {
	return &lineReporter{logger: log.New(w, "", 0)}
}

func (r *lineReporter) Report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.logger.Println(strings.TrimRight(msg, "\n"))
}

// diagnosticsWriter returns stderr, teed into a rotating log file when
// log.file is configured. The returned close func must be called on exit.
func diagnosticsWriter(cfg LogConfig) (io.Writer, func() error) {
	if cfg.File == "" {
		return os.Stderr, func() error { return nil }
	}
	lj := &lumberjack.Logger{
		Filename:   expandHome(cfg.File),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	return io.MultiWriter(os.Stderr, lj), lj.Close
}

var (
	debugMu      sync.Mutex
	debugEnabled = os.Getenv("CLICKAUTO_DEBUG") != ""
)

func setDebug(on bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugEnabled = debugEnabled || on
}

// dbg prints a debug line when debugging is enabled.
func dbg(format string, args ...any) {
	debugMu.Lock()
	on := debugEnabled
	debugMu.Unlock()
	if !on {
		return
	}
	fmt.Fprintf(os.Stderr, "clickauto: debug: "+format+"\n", args...)
}
