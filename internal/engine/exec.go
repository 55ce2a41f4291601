package engine

import (
	"errors"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/identity"
)

// ExecEngine runs commands through the host shell. It is the node-agent
// engine; a proxy deployment plugs its own Submitter instead.
type ExecEngine struct {
	log   zerolog.Logger
	shell string
}

func NewExecEngine(log zerolog.Logger) *ExecEngine {
	return &ExecEngine{log: log, shell: "/bin/sh"}
}

// Submit fires the command on its own goroutine and settles the future with
// the exit status. The executing identity is exposed to the command via
// environment variables.
func (e *ExecEngine) Submit(as identity.Executor, command string) *Future {
	fut := NewFuture()
	go func() {
		cmd := exec.Command(e.shell, "-c", command)
		cmd.Env = append(os.Environ(),
			"CROSSFWD_EXECUTOR_NAME="+as.DisplayName(),
			"CROSSFWD_EXECUTOR_CONSOLE="+strconv.FormatBool(as.Kind == identity.KindConsole),
		)
		if as.Kind == identity.KindPlayer {
			cmd.Env = append(cmd.Env, "CROSSFWD_EXECUTOR_UUID="+as.Player.ID.String())
		}

		out, err := cmd.CombinedOutput()
		if len(out) > 0 {
			e.log.Debug().Str("command", command).Bytes("output", out).Msg("command output")
		}
		if err == nil {
			fut.Complete(true)
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fut.Complete(false)
			return
		}
		fut.Fail(err)
	}()
	return fut
}
