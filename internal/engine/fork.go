package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"benchforge/internal/config"
	"benchforge/internal/measure"
)

// ForkChildArg is the argv marker that re-invokes this binary as a
// measurement child.
const ForkChildArg = "fork-child"

// Forked launches one child process per suite, so no suite's heap or
// warmed state can leak into another's numbers. The plan travels to the
// child as JSON on stdin; results come back as JSON on stdout; everything
// human-readable stays on stderr.
type Forked struct {
	exe    string
	pace   *rate.Limiter
	stderr io.Writer
}

// ForkedOption configures a Forked engine.
type ForkedOption func(*Forked)

// WithExecutable overrides the binary to re-invoke. Defaults to the
// running executable.
func WithExecutable(path string) ForkedOption {
	return func(f *Forked) {
		if path != "" {
			f.exe = path
		}
	}
}

// WithPacing overrides the launch limiter. A nil limiter disables pacing.
func WithPacing(l *rate.Limiter) ForkedOption {
	return func(f *Forked) {
		f.pace = l
	}
}

// WithForkStderr redirects parent-side diagnostics and streamed child
// output.
func WithForkStderr(w io.Writer) ForkedOption {
	return func(f *Forked) {
		if w != nil {
			f.stderr = w
		}
	}
}

func NewForked(opts ...ForkedOption) *Forked {
	f := &Forked{
		// At most one child launch per half second, so the OS settles
		// between children.
		pace:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Forked) Run(plan config.Plan) ([]measure.Result, error) {
	exe := f.exe
	if exe == "" {
		path, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
		exe = path
	}

	log := config.LoggerFor(plan.Verbosity, f.stderr)

	var bar *progressbar.ProgressBar
	if plan.Verbosity == config.VerbosityNormal {
		bar = f.makeBar(len(plan.Suites))
	}

	results := make([]measure.Result, 0, len(plan.Suites))
	for _, name := range plan.Suites {
		if f.pace != nil {
			if delay := f.pace.Reserve().Delay(); delay > 0 {
				time.Sleep(delay)
			}
		}
		if bar != nil {
			bar.Describe(fmt.Sprintf("Measuring: %s", name))
		}

		rs, err := f.runChild(exe, name, plan, log)
		if err != nil {
			if bar != nil {
				_ = bar.Clear()
			}
			return nil, err
		}
		results = append(results, rs...)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

// runChild executes one suite in a fresh process and decodes its payload.
func (f *Forked) runChild(exe, suiteName string, plan config.Plan, log *slog.Logger) ([]measure.Result, error) {
	childPlan := plan
	childPlan.Suites = []string{suiteName}

	planJSON, err := json.Marshal(childPlan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	cmd := exec.Command(exe, ForkChildArg)
	cmd.Env = append(os.Environ(), plan.Env...)
	cmd.Stdin = bytes.NewReader(planJSON)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s child: %w", suiteName, err)
	}
	log.Debug("forked child", "suite", suiteName, "pid", cmd.Process.Pid)

	var out bytes.Buffer
	var tail tailBuffer

	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	g.Go(func() error {
		dst := io.Writer(&tail)
		if plan.Verbosity == config.VerbosityExtra {
			dst = io.MultiWriter(f.stderr, &tail)
		}
		_, err := io.Copy(dst, stderr)
		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	log.Debug("child finished",
		"suite", suiteName,
		"elapsed", time.Since(start),
		"ok", waitErr == nil)

	var p payload
	decodeErr := json.Unmarshal(out.Bytes(), &p)

	// A structured error from the child is authoritative; exit codes and
	// pump errors only matter when the payload is unusable.
	if decodeErr == nil && p.Error != nil {
		return nil, p.Error.toError(suiteName)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("%s child failed: %w: %s", suiteName, waitErr, tail.String())
	}
	if pumpErr != nil {
		return nil, fmt.Errorf("%s child io: %w", suiteName, pumpErr)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s child output: %w", suiteName, decodeErr)
	}
	if len(p.Results) == 0 {
		return nil, fmt.Errorf("%s child returned no results", suiteName)
	}
	return p.Results, nil
}

func (f *Forked) makeBar(suites int) *progressbar.ProgressBar {
	return progressbar.NewOptions(suites,
		progressbar.OptionSetDescription("Measuring suites"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(f.stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// tailBuffer keeps the last chunk of child stderr for error messages.
type tailBuffer struct {
	buf []byte
}

const tailLimit = 2048

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - tailLimit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
