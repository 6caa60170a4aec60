package progress

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

type stepState int

const (
	stepPending stepState = iota
	stepActive
	stepDone
	stepFailed
)

func (s stepState) String() string {
	return [...]string{"pending", "active", "done", "failed"}[s]
}

type pipelineStep struct {
	stage   string
	title   string
	state   stepState
	started time.Time
	took    time.Duration
}

// DeploySpinner draws the deployment pipeline as a single spinner line:
// every step is listed up front and ticks over as events arrive.
type DeploySpinner struct {
	spinner *spinner.Spinner
	out     io.Writer
	steps   []pipelineStep
	current int
	now     func() time.Time
}

// NewDeploySpinner creates a spinner writing to stderr
func NewDeploySpinner() *DeploySpinner {
	return newDeploySpinner(os.Stderr)
}

func newDeploySpinner(out io.Writer) *DeploySpinner {
	s := spinner.New(spinner.CharSets[11], 120*time.Millisecond, spinner.WithWriter(out))
	return &DeploySpinner{
		spinner: s,
		out:     out,
		current: -1,
		now:     time.Now,
		steps: []pipelineStep{
			{stage: usecase.StageUploading, title: "upload"},
			{stage: usecase.StageResolving, title: "code hash"},
			{stage: usecase.StageInstantiating, title: "instantiate"},
			{stage: usecase.StageSaving, title: "save"},
		},
	}
}

func (d *DeploySpinner) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == usecase.StageComplete {
		d.advance(len(d.steps))
		d.halt()
		return
	}
	if idx := d.indexOf(event.Stage); idx >= 0 && idx != d.current {
		d.advance(idx)
	}

	if !event.Spinner {
		d.halt()
		return
	}
	d.spinner.Suffix = " " + d.line(event.Message)
	if !d.spinner.Active() {
		d.spinner.Start()
	}
}

func (d *DeploySpinner) Info(message string) {
	d.printAround(color.New(color.FgCyan), message)
}

// Error marks the active step failed before printing
func (d *DeploySpinner) Error(message string) {
	if d.current >= 0 && d.current < len(d.steps) {
		d.steps[d.current].state = stepFailed
	}
	d.printAround(color.New(color.FgRed), message)
}

// Stop halts the spinner
func (d *DeploySpinner) Stop() {
	d.halt()
}

func (d *DeploySpinner) halt() {
	if d.spinner.Active() {
		d.spinner.Stop()
	}
}

func (d *DeploySpinner) printAround(c *color.Color, message string) {
	running := d.spinner.Active()
	d.halt()
	c.Fprintln(d.out, message)
	if running {
		d.spinner.Start()
	}
}

func (d *DeploySpinner) indexOf(stage string) int {
	for i, step := range d.steps {
		if step.stage == stage {
			return i
		}
	}
	return -1
}

// advance finishes every step before idx and activates idx. A resumed
// deploy skips the upload, so skipped steps are finished without a time.
func (d *DeploySpinner) advance(idx int) {
	t := d.now()
	for i := range d.steps {
		step := &d.steps[i]
		switch {
		case i < idx && step.state == stepActive:
			step.state = stepDone
			step.took = t.Sub(step.started)
		case i < idx && step.state == stepPending:
			step.state = stepDone
		case i == idx && step.state == stepPending:
			step.state = stepActive
			step.started = t
		}
	}
	d.current = idx
}

func (d *DeploySpinner) line(message string) string {
	parts := make([]string, 0, len(d.steps))
	for _, step := range d.steps {
		parts = append(parts, renderStep(step))
	}
	out := strings.Join(parts, color.New(color.Faint).Sprint(" · "))
	if message == "" {
		return out
	}
	return out + "  " + color.New(color.Faint).Sprint(message)
}

func renderStep(step pipelineStep) string {
	switch step.state {
	case stepActive:
		return color.New(color.FgYellow, color.Bold).Sprint("▸ " + step.title)
	case stepDone:
		if step.took > 0 {
			return color.GreenString("✔ %s %s", step.title, step.took.Round(time.Millisecond))
		}
		return color.GreenString("✔ %s", step.title)
	case stepFailed:
		return color.RedString("✘ %s", step.title)
	default:
		return color.New(color.Faint).Sprint("· " + step.title)
	}
}

var _ usecase.ProgressSink = (*DeploySpinner)(nil)
