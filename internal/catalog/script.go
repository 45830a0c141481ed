// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

const (
	// EnvArgPrefix prefixes the environment variable of every bound argument.
	EnvArgPrefix = "JACI_ARG_"
	// EnvCommand holds the path of the running command.
	EnvCommand = "JACI_COMMAND"
)

// ErrScriptFailed is the sentinel error wrapped by ExitError.
var ErrScriptFailed = errors.New("script failed")

type (
	// ExitError is returned when a script exits with a non-zero status.
	ExitError struct {
		Code int
	}

	// script is a parsed command script bound to the directory it runs in.
	script struct {
		prog   *syntax.File
		dir    string
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns ErrScriptFailed for errors.Is() compatibility.
func (e *ExitError) Unwrap() error { return ErrScriptFailed }

func parseScript(src, name string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("script syntax error: %w", err)
	}
	return prog, nil
}

// run executes the script with the call's arguments: positional
// parameters in declaration order and one JACI_ARG_<NAME> variable each.
func (s *script) run(ctx context.Context, call *hierarchy.Call) error {
	params := call.Command.Params()
	positional := make([]string, 0, len(params)+1)
	// "--" ends option parsing so values like "-v" stay positional.
	positional = append(positional, "--")
	env := os.Environ()
	for _, p := range params {
		v := formatArg(call.Args[p.Name()])
		positional = append(positional, v)
		env = append(env, ArgEnvName(p.Name())+"="+v)
	}
	env = append(env, EnvCommand+"="+call.Command.Path())

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, call.Stdout, call.Stderr),
		interp.Params(positional...),
	}
	if s.dir != "" {
		opts = append(opts, interp.Dir(s.dir))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	s.logger.Debug("running script", "command", call.Command.Path(), "dir", s.dir)
	if err := runner.Run(ctx, s.prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Code: int(status)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

// ArgEnvName returns the environment variable name of a parameter:
// JACI_ARG_ followed by the upper-cased name with every character outside
// [A-Z0-9_] replaced by '_'.
func ArgEnvName(name string) string {
	var sb strings.Builder
	sb.WriteString(EnvArgPrefix)
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func formatArg(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case hierarchy.Entry:
		return v.Path()
	default:
		return fmt.Sprint(v)
	}
}
