package matching

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"recovr/internal/config"
	"recovr/internal/logging"
	"recovr/internal/services"
)

// RawResult is one parsed line of oracle output: a candidate image path and
// the raw feature-match count the oracle reported for it.
type RawResult struct {
	ImagePath  string
	MatchCount int
}

// Oracle compares a reference image against candidate images and returns raw
// feature-match counts. Implementations may shell out, call a service, or run
// in process; ranking and scoring never depend on which.
type Oracle interface {
	Match(ctx context.Context, referencePath string, candidatePaths []string) ([]RawResult, error)
}

// Executor abstracts command execution for testability. Output lines carry
// merged stdout and stderr in arrival order.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// ExitCodeError reports a subprocess that ran to completion with a non-zero
// exit code. Already-parsed output remains usable.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// Option configures the script oracle.
type Option func(*ScriptOracle)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(o *ScriptOracle) {
		if exec != nil {
			o.exec = exec
		}
	}
}

// ScriptOracle invokes the external matcher script as a subprocess:
//
//	<python> <script> <referenceImage> <candidateImage>...
type ScriptOracle struct {
	python  string
	script  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// NewScriptOracle constructs an oracle around the configured matcher script.
func NewScriptOracle(cfg *config.Config, logger *slog.Logger, opts ...Option) (*ScriptOracle, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	oracle := &ScriptOracle{
		python:  cfg.Matcher.PythonBinary,
		script:  cfg.Matcher.ScriptPath,
		timeout: time.Duration(cfg.Matcher.TimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.WithComponent(logger, "oracle"),
	}
	if oracle.python == "" || oracle.script == "" {
		return nil, services.Wrap(services.ErrConfiguration, "oracle", "new", "matcher binary and script required", nil)
	}
	for _, opt := range opts {
		opt(oracle)
	}
	return oracle, nil
}

// Match runs the matcher script and parses its output. Individual malformed
// lines are skipped. A non-zero exit code is logged as a warning and the
// results parsed before the failure are returned; only a launch failure is an
// error.
func (o *ScriptOracle) Match(ctx context.Context, referencePath string, candidatePaths []string) ([]RawResult, error) {
	if referencePath == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "oracle", "match", "reference image path required", nil)
	}
	if len(candidatePaths) == 0 {
		return nil, nil
	}

	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(candidatePaths)+2)
	args = append(args, o.script, referencePath)
	args = append(args, candidatePaths...)

	var results []RawResult
	err := o.exec.Run(runCtx, o.python, args, func(line string) {
		result, ok := parseResultLine(line)
		if !ok {
			if looksLikeResultLine(line) {
				o.logger.Warn("skipping unparseable oracle line", logging.String("line", line))
			}
			return
		}
		results = append(results, result)
	})
	if err != nil {
		var exitErr *ExitCodeError
		if errors.As(err, &exitErr) {
			// The script may emit every result before an unrelated trailing
			// failure; partial output stays usable.
			o.logger.Warn("matcher script exited non-zero",
				logging.Int("exit_code", exitErr.Code),
				logging.Int("parsed_results", len(results)))
			return results, nil
		}
		return nil, services.Wrap(services.ErrExternalTool, "oracle", "match", "run matcher script", err)
	}

	o.logger.Debug("matcher script completed",
		logging.Int("candidates", len(candidatePaths)),
		logging.Int("parsed_results", len(results)))
	return results, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error

	wg.Add(1)
	go func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			} else {
				fmt.Fprintln(os.Stderr, scanner.Text())
			}
		}
		scanErr = scanner.Err()
	}(stdout)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		var execExit *exec.ExitError
		if errors.As(err, &execExit) && execExit.ExitCode() >= 0 {
			return &ExitCodeError{Code: execExit.ExitCode()}
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
