// Package prompt asks the operator questions.
package prompt

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned by every prompt the operator aborts with Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

// Prompter is what the setup flow needs from the terminal.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(message string, options []string, def string) (int, error)

	// MultiSelect returns the indexes of the chosen options, in option order.
	MultiSelect(message string, options []string, defaults []string) ([]int, error)

	// Input reads a line. suggest and validate may be nil.
	Input(message, def string, suggest func(string) []string, validate func(string) error) (string, error)

	Password(message string) (string, error)

	Confirm(message string, def bool) (bool, error)
}

// Survey prompts on the terminal.
type Survey struct {
	PageSize int

	askOne func(p survey.Prompt, response any, opts ...survey.AskOpt) error
}

// NewSurvey returns a terminal prompter.
func NewSurvey() *Survey {
	return &Survey{PageSize: 15, askOne: survey.AskOne}
}

func (s *Survey) ask(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	askOne := s.askOne
	if askOne == nil {
		askOne = survey.AskOne
	}

	opts = append(opts, survey.WithPageSize(s.PageSize))
	if err := askOne(p, response, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrInterrupted
		}
		return err
	}
	return nil
}

func (s *Survey) Select(message string, options []string, def string) (int, error) {
	p := &survey.Select{Message: message, Options: options}
	if def != "" {
		p.Default = def
	}

	var index int
	if err := s.ask(p, &index); err != nil {
		return 0, err
	}
	return index, nil
}

func (s *Survey) MultiSelect(message string, options []string, defaults []string) ([]int, error) {
	p := &survey.MultiSelect{Message: message, Options: options}
	if len(defaults) > 0 {
		p.Default = defaults
	}

	var indexes []int
	if err := s.ask(p, &indexes, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, err
	}
	return indexes, nil
}

func (s *Survey) Input(message, def string, suggest func(string) []string, validate func(string) error) (string, error) {
	p := &survey.Input{Message: message, Default: def, Suggest: suggest}

	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			return validate(ans.(string))
		}))
	}

	var answer string
	if err := s.ask(p, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (s *Survey) Password(message string) (string, error) {
	var answer string
	if err := s.ask(&survey.Password{Message: message}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (s *Survey) Confirm(message string, def bool) (bool, error) {
	var answer bool
	if err := s.ask(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}
