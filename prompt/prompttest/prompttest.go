// Package prompttest replays scripted answers in place of a terminal.
package prompttest

import (
	"fmt"

	"github.com/lnget-cli/lnget/prompt"
)

// Answer is one scripted reply. Err, when set, is returned instead.
type Answer struct {
	Index   int
	Indexes []int
	Text    string
	Yes     bool
	Err     error
}

// Prompter pops one answer per question and records the messages asked.
type Prompter struct {
	Answers []Answer
	Asked   []string
}

var _ prompt.Prompter = (*Prompter)(nil)

// New returns a prompter replaying answers in order.
func New(answers ...Answer) *Prompter {
	return &Prompter{Answers: answers}
}

func (p *Prompter) next(message string) (Answer, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected prompt: %q", message)
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, a.Err
}

func (p *Prompter) Select(message string, options []string, _ string) (int, error) {
	a, err := p.next(message)
	if err != nil {
		return 0, err
	}
	if a.Index < 0 || a.Index >= len(options) {
		return 0, fmt.Errorf("scripted index %d out of %d options for %q", a.Index, len(options), message)
	}
	return a.Index, nil
}

func (p *Prompter) MultiSelect(message string, options []string, _ []string) ([]int, error) {
	a, err := p.next(message)
	if err != nil {
		return nil, err
	}
	for _, i := range a.Indexes {
		if i < 0 || i >= len(options) {
			return nil, fmt.Errorf("scripted index %d out of %d options for %q", i, len(options), message)
		}
	}
	return a.Indexes, nil
}

// Input returns the scripted text, or def when it is empty. validate is applied.
func (p *Prompter) Input(message, def string, _ func(string) []string, validate func(string) error) (string, error) {
	a, err := p.next(message)
	if err != nil {
		return "", err
	}
	text := a.Text
	if text == "" {
		text = def
	}
	if validate != nil {
		if err := validate(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (p *Prompter) Password(message string) (string, error) {
	a, err := p.next(message)
	return a.Text, err
}

func (p *Prompter) Confirm(message string, _ bool) (bool, error) {
	a, err := p.next(message)
	return a.Yes, err
}

// Pick answers a Select.
func Pick(i int) Answer { return Answer{Index: i} }

// PickMany answers a MultiSelect.
func PickMany(i ...int) Answer { return Answer{Indexes: i} }

// Type answers an Input or Password.
func Type(s string) Answer { return Answer{Text: s} }

// Yes and No answer a Confirm.
var (
	Yes = Answer{Yes: true}
	No  = Answer{Yes: false}
)

// Interrupt aborts the prompt as Ctrl+C would.
var Interrupt = Answer{Err: prompt.ErrInterrupted}

// Remaining reports how many scripted answers were not consumed.
func (p *Prompter) Remaining() int {
	return len(p.Answers)
}
