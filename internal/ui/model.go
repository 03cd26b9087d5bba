// Package ui renders the download progress bar.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/style"
)

type (
	doneMsg struct {
		chapter *source.Chapter
		err     error
	}
	clearNotificationMsg struct{}
	finishMsg            struct{}
)

// Model is the bubbletea model of a running download.
type Model struct {
	title        string
	total        int
	done         int
	failed       int
	current      string
	notification string
	bar          progress.Model
}

func newModel(title string, total int) Model {
	return Model{
		title: title,
		total: total,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func clearNotification() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done++
		m.current = msg.chapter.String()
		if msg.err != nil {
			m.failed++
			m.notification = fmt.Sprintf("%s failed", msg.chapter)
			return m, tea.Batch(m.bar.SetPercent(m.percent()), clearNotification())
		}
		return m, m.bar.SetPercent(m.percent())
	case clearNotificationMsg:
		m.notification = ""
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-20, 20), 60)
		return m, nil
	case finishMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(style.Bold(m.title) + "\n")
	b.WriteString(m.bar.View() + fmt.Sprintf(" %d/%d\n", m.done, m.total))

	if m.current != "" {
		b.WriteString(style.Faint(m.current))
	}
	if m.notification != "" {
		b.WriteString("  " + style.Fg(color.Yellow)(m.notification))
	}
	return b.String() + "\n"
}

// Progress shows a progress bar while chapters download.
// Its methods match download.Observer.
type Progress struct {
	Title  string
	Output io.Writer

	program *tea.Program
	wg      sync.WaitGroup
}

func (p *Progress) Start(total int) {
	out := p.Output
	if out == nil {
		out = os.Stdout
	}
	p.program = tea.NewProgram(newModel(p.Title, total), tea.WithOutput(out), tea.WithInput(nil))
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_, _ = p.program.Run()
	}()
}

func (p *Progress) Done(chapter *source.Chapter, err error) {
	p.program.Send(doneMsg{chapter: chapter, err: err})
}

func (p *Progress) Finish() {
	p.program.Send(finishMsg{})
	p.wg.Wait()
}
