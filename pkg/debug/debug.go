package debug

import (
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// DefaultTimeLayout is the timestamp layout TimeHook falls back to.
const DefaultTimeLayout = "2006-01-02T15:04:05.0000Z"

// eventSkipFrames reads the unexported skipFrame counter off a
// zerolog.Event so CallerHook stays correct for loggers built with
// CallerSkipFrame.
func eventSkipFrames(e *zerolog.Event) int {
	v := reflect.ValueOf(e).Elem().FieldByName("skipFrame")
	if !v.IsValid() {
		return 0
	}

	return int(v.Int())
}

// TimeHook stamps every event with a formatted wall-clock time.
type TimeHook struct {
	Layout string
}

func (h TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	layout := h.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	e.Str("time", time.Now().Format(layout))
}

// CallerHook records the package, file and line that emitted the event.
type CallerHook struct {
	Color bool
}

func (h CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	// three frames sit between here and the logging call site
	pc, file, line, ok := runtime.Caller(eventSkipFrames(e) + 3)
	if !ok {
		return
	}

	pkg := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		pkg, _ = SplitFuncName(fn.Name())
	}

	e.Str("caller", FormatCaller(pkg, file, line, h.Color))
}

// SplitFuncName splits a runtime function name such as
// "github.com/intellexhq/intellex/pkg/engine.(*Engine).Tokenize" into
// its package path and function parts.
func SplitFuncName(name string) (pkg, function string) {
	slash := strings.LastIndexByte(name, '/')
	if slash < 0 {
		slash = 0
	}

	dot := strings.IndexByte(name[slash:], '.')
	if dot < 0 {
		return name, ""
	}
	dot += slash

	pkg, function = name[:dot], name[dot+1:]

	if i := strings.Index(pkg, ".("); i >= 0 {
		function = pkg[i+1:] + "." + function
		pkg = pkg[:i]
	}

	return pkg, function
}

// FormatCaller renders pkg:file:line, optionally colorized for
// terminal output.
func FormatCaller(pkg, path string, line int, colorize bool) string {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}

	if !colorize {
		return fmt.Sprintf("%s:%s:%d", pkg, base, line)
	}

	sep := color.New(color.Faint).Sprint(":")
	file := color.New(color.Bold).Sprint(base)
	num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", line)

	return pkg + sep + file + sep + num
}

// NewConsoleLogger builds the zerolog logger the CLI commands share.
// Events are rendered human-readable on out with the time and caller
// hooks attached.
func NewConsoleLogger(out io.Writer, level zerolog.Level, colorize bool) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colorize,
		TimeFormat: DefaultTimeLayout,
	}

	return zerolog.New(writer).
		Level(level).
		Hook(TimeHook{}).
		Hook(CallerHook{Color: colorize})
}
