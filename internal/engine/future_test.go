package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/testutil/testlog"
)

func waitResult(t *testing.T, fut *Future) Result {
	t.Helper()
	select {
	case res := <-fut.Done():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("future never settled")
		return Result{}
	}
}

func TestFutureSettlesOnce(t *testing.T) {
	fut := NewFuture()
	fut.Complete(true)
	fut.Complete(false)
	fut.Fail(errors.New("late"))

	res := waitResult(t, fut)
	if !res.OK || res.Err != nil {
		t.Fatalf("expected first completion to win: %+v", res)
	}
}

func TestFailedFutureCarriesError(t *testing.T) {
	sentinel := errors.New("engine down")
	res := waitResult(t, Failed(sentinel))
	if !errors.Is(res.Err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %+v", res)
	}
}

func TestExecEngineExitStatusMapping(t *testing.T) {
	eng := NewExecEngine(testlog.New(t))

	cases := []struct {
		name    string
		command string
		wantOK  bool
	}{
		{name: "zero exit", command: "true", wantOK: true},
		{name: "nonzero exit", command: "false", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := waitResult(t, eng.Submit(identity.Console(), tc.command))
			if res.Err != nil {
				t.Fatalf("unexpected engine error: %v", res.Err)
			}
			if res.OK != tc.wantOK {
				t.Fatalf("exit mapping: got ok=%v want ok=%v", res.OK, tc.wantOK)
			}
		})
	}
}
