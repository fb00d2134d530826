package window

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/aslpavel/sweep-go/sweep/candidate"
)

// RunPreview shells out to cmd (spec §3 SUPPLEMENT's --preview), substituting
// the literal "{}" in any argument with text, and returns its combined
// stdout as a Preview payload. Grounded on the teacher's cmd_renderer
// (kittens/choose_files/cmd_preview.go): run to completion, capture stdout,
// report the command's own stderr as the error on failure.
func RunPreview(cmd []string, text string) (*candidate.Preview, error) {
	if len(cmd) == 0 {
		return nil, nil
	}
	args := make([]string, len(cmd))
	for i, a := range cmd {
		args[i] = strings.ReplaceAll(a, "{}", text)
	}
	c := exec.Command(args[0], args[1:]...)
	c.Stdin = nil
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return nil, &previewError{cmd: args[0], stderr: stderr.String(), err: err}
	}
	return &candidate.Preview{Data: stdout.String()}, nil
}

type previewError struct {
	cmd    string
	stderr string
	err    error
}

func (e *previewError) Error() string {
	msg := e.cmd + ": " + e.err.Error()
	if e.stderr != "" {
		msg += ": " + e.stderr
	}
	return msg
}

func (e *previewError) Unwrap() error { return e.err }
