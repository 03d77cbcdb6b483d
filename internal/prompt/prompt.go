// Package prompt asks the user for values on the terminal. A survey-backed
// prompter is used when stdin is a TTY; otherwise a plain line reader is
// used so that answers can be piped in.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the user aborts a prompt (Ctrl+C).
var ErrInterrupted = errors.New("prompt interrupted")

// InputConfig configures a text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// Prompter asks for a single line of text.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
}

// New picks the survey prompter for terminals and the line prompter for
// anything else.
func New(in *os.File, out *os.File) Prompter {
	if isTerminal(in) {
		return NewSurvey(in, out, out)
	}
	return NewLine(in, out)
}

// Required rejects blank answers.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

type surveyPrompter struct {
	stdio survey.AskOpt
}

// NewSurvey returns a Prompter that renders with survey on the given streams.
func NewSurvey(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) Prompter {
	return &surveyPrompter{stdio: survey.WithStdio(in, out, errOut)}
}

func (p *surveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	q := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	opts := []survey.AskOpt{p.stdio}
	if cfg.Validator != nil {
		validate := cfg.Validator
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(q, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LinePrompter reads answers one line at a time. Invalid answers are
// reported and asked again until the input is exhausted.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLine returns a LinePrompter over r and w.
func NewLine(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if cfg.Default != "" {
			fmt.Fprintf(p.w, "%s [%s]: ", cfg.Message, cfg.Default)
		} else {
			fmt.Fprintf(p.w, "%s: ", cfg.Message)
		}

		line, err := p.r.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (err != io.EOF || answer == "") {
			if err == io.EOF {
				return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
			}
			return "", fmt.Errorf("reading answer: %w", err)
		}
		if answer == "" {
			answer = cfg.Default
		}

		if cfg.Validator != nil {
			if vErr := cfg.Validator(answer); vErr != nil {
				fmt.Fprintf(p.w, "  %v\n", vErr)
				if err == io.EOF {
					return "", vErr
				}
				continue
			}
		}
		return answer, nil
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
