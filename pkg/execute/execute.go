// pkg/execute/execute.go

// Package execute runs external commands with structured logging. Shell
// execution is not supported; callers pass argv directly.
package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/connectorops/noticesync/pkg/clierr"
	"github.com/connectorops/noticesync/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Minute

// Options describes a single external command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// Run executes a command and returns its combined output. The command's
// exit status stays reachable through the error chain so callers can
// propagate it.
func Run(ctx context.Context, opts Options) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runCtx, span := telemetry.Start(runCtx, "execute.Run",
		attribute.String("command", opts.Command),
		attribute.String("args", strings.Join(opts.Args, " ")),
	)
	defer span.End()

	log := otelzap.Ctx(ctx)
	cmdStr := buildCommandString(opts.Command, opts.Args...)
	log.Debug("Starting execution", zap.String("command", cmdStr))

	cmd := exec.CommandContext(runCtx, opts.Command, opts.Args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := buf.String()

	if err != nil {
		summary := clierr.ExtractSummary(output, 2)
		span.RecordError(err)
		log.Error("Execution failed",
			zap.String("command", cmdStr),
			zap.String("summary", summary),
			zap.Error(err))
		return output, cerr.Wrapf(err, "command %q failed", cmdStr)
	}

	log.Debug("Execution succeeded", zap.String("command", cmdStr))
	return output, nil
}

func buildCommandString(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
