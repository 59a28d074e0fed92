package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/juju/loggo"

	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

var logger = loggo.GetLogger("uc.subprocess")

// execCommandContext is a test seam for starting the worker.
var execCommandContext = exec.CommandContext

// DefaultStderrTail is how many bytes of worker stderr a crash report keeps.
const DefaultStderrTail = 4096

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the worker was killed.
const waitDelay = 2 * time.Second

// Runner starts one worker process per operation. The worker receives a
// request frame on stdin and must answer with one response frame on stdout.
type Runner struct {
	Executable string
	Args       []string
	// Env is the worker environment. Nil inherits the parent's.
	Env     []string
	Dir     string
	Timeout time.Duration
	// Stderr receives the worker's stderr as it is written.
	Stderr     io.Writer
	StderrTail int
}

// Run executes op in a fresh worker and returns its decoded result.
func (r *Runner) Run(ctx context.Context, op Operation, args map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req := codec.Request{ID: codec.NewRequestID(), Command: string(op), Arguments: args}
	var stdin bytes.Buffer
	if err := codec.WriteRequest(&stdin, req); err != nil {
		return nil, fmt.Errorf(messages.SubprocessEncodeRequestFmt, op, err)
	}

	var stdout bytes.Buffer
	tail := newTailBuffer(r.tailSize())
	cmd := execCommandContext(ctx, r.Executable, r.Args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = tail
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(tail, r.Stderr)
	}
	cmd.Env = r.Env
	cmd.Dir = r.Dir
	cmd.WaitDelay = waitDelay

	logger.Debugf("starting worker %s for %s (request %s)", r.Executable, op, req.ID)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Executable: r.Executable, Err: err}
	}
	waitErr := cmd.Wait()
	logger.Debugf("worker for %s finished in %s", op, time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &ChildCrashedError{
			Operation: op,
			ExitCode:  exitCode(cmd),
			Stderr:    tail.String(),
			TimedOut:  errors.Is(ctxErr, context.DeadlineExceeded) && r.Timeout > 0,
			Timeout:   r.Timeout,
			Canceled:  errors.Is(ctxErr, context.Canceled),
			Err:       ctxErr,
		}
	}

	resp, decodeErr := decodeResponse(&stdout, req.ID)
	if waitErr != nil {
		if decodeErr != nil {
			return nil, &ChildCrashedError{
				Operation: op,
				ExitCode:  exitCode(cmd),
				Stderr:    tail.String(),
				Err:       waitErr,
			}
		}
		logger.Warningf(messages.SubprocessLateResponseFmt, op, waitErr)
	}
	if decodeErr != nil {
		return nil, &ProtocolError{Operation: op, Err: decodeErr}
	}
	if resp.Error != nil {
		return nil, &RemoteError{Operation: op, Remote: resp.Error}
	}
	return resp.Result, nil
}

func (r *Runner) tailSize() int {
	if r.StderrTail > 0 {
		return r.StderrTail
	}
	return DefaultStderrTail
}

func decodeResponse(stdout *bytes.Buffer, id string) (codec.Response, error) {
	resp, err := codec.ReadResponse(stdout)
	if err != nil {
		return codec.Response{}, err
	}
	if resp.ID != id {
		return codec.Response{}, fmt.Errorf(messages.SubprocessIDMismatchFmt, resp.ID, id)
	}
	if stdout.Len() > 0 {
		return codec.Response{}, fmt.Errorf(messages.SubprocessTrailingOutputFmt, stdout.Len())
	}
	return resp, nil
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.limit {
		t.buf = append(t.buf[:0], p[len(p)-t.limit:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(bytes.TrimRight(t.buf, "\n"))
}
