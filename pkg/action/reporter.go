package action

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// OutputFileEnv names the file the runner reads step outputs from.
const OutputFileEnv = "GITHUB_OUTPUT"

// Reporter is how the action talks back to the CI runner.
type Reporter interface {
	// Info emits an informational line in the job log.
	Info(msg string)

	// SetOutput publishes a step output.
	SetOutput(name, value string) error

	// SetFailed marks the step as failed with msg.
	SetFailed(msg string)
}

// Workflow is a Reporter speaking the GitHub Actions workflow command protocol.
type Workflow struct {
	Out        io.Writer // Out is the job log, usually stdout.
	OutputFile string    // OutputFile is $GITHUB_OUTPUT; outputs go to Out as ::set-output when empty.

	delimiter func() string
	failed    bool
	mutex     sync.Mutex
}

// NewWorkflow returns a Workflow writing to stdout and to the file named by $GITHUB_OUTPUT.
func NewWorkflow() *Workflow {
	return &Workflow{
		Out:        os.Stdout,
		OutputFile: os.Getenv(OutputFileEnv),
	}
}

// Info implements Reporter.
func (w *Workflow) Info(msg string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	_, _ = fmt.Fprintln(w.Out, msg)
}

// SetOutput implements Reporter.
func (w *Workflow) SetOutput(name, value string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	log.WithFields(log.Fields{
		"output-name":  name,
		"output-value": value,
	}).Debug("setting step output")

	if w.OutputFile == "" {
		_, err := fmt.Fprintf(w.Out, "::set-output name=%s::%s\n", escapeProperty(name), escapeData(value))
		return err
	}

	f, err := os.OpenFile(w.OutputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "opening step output file")
	}
	defer f.Close()

	d := w.newDelimiter()
	if strings.Contains(name, d) || strings.Contains(value, d) {
		return fmt.Errorf("unexpected input: name or value contains delimiter %s", d)
	}

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, d, value, d); err != nil {
		return errors.Wrap(err, "writing step output file")
	}

	return nil
}

// SetFailed implements Reporter.
func (w *Workflow) SetFailed(msg string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.failed = true
	_, _ = fmt.Fprintf(w.Out, "::error::%s\n", escapeData(msg))
}

// Failed reports whether SetFailed was called.
func (w *Workflow) Failed() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.failed
}

func (w *Workflow) newDelimiter() string {
	if w.delimiter != nil {
		return w.delimiter()
	}

	return "ghadelimiter_" + uuid.NewString()
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
