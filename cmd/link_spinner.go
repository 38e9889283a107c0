package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediloop/chatline/internal/broadcast"
)

type linkDoneMsg struct {
	err error
}

type linkEventMsg struct {
	event broadcast.Event
	ok    bool
}

type linkSpinnerModel struct {
	spinner     spinner.Model
	events      <-chan broadcast.Event
	await       tea.Cmd
	label       string
	pairingCode string
	codeStyle   lipgloss.Style
	err         error
	done        bool
}

func newLinkSpinnerModel(events <-chan broadcast.Event, await tea.Cmd) linkSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return linkSpinnerModel{
		spinner:   s,
		events:    events,
		await:     await,
		label:     "Connecting to messaging gateway...",
		codeStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
	}
}

func waitForLinkEvent(events <-chan broadcast.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return linkEventMsg{event: event, ok: ok}
	}
}

func (m linkSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForLinkEvent(m.events), m.await)
}

func (m linkSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case linkEventMsg:
		if !msg.ok {
			return m, nil
		}
		switch msg.event.Kind {
		case broadcast.EventPairingIssued:
			m.pairingCode = msg.event.PairingCode
			m.label = "Waiting for the code to be entered on the clinic handset..."
		case broadcast.EventClosed:
			m.label = "Connection dropped, reconnecting..."
		}
		return m, waitForLinkEvent(m.events)
	case linkDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m linkSpinnerModel) View() string {
	if m.done {
		if m.pairingCode != "" {
			return fmt.Sprintf("Pairing code: %s\n", m.codeStyle.Render(m.pairingCode))
		}
		return ""
	}

	view := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	if m.pairingCode != "" {
		view = fmt.Sprintf("Pairing code: %s\n%s", m.codeStyle.Render(m.pairingCode), view)
	}

	return view
}

func runLinkSpinner(ctx context.Context, output io.Writer, events <-chan broadcast.Event, await func(context.Context) error) error {
	awaitCmd := func() tea.Msg {
		return linkDoneMsg{err: await(ctx)}
	}

	p := tea.NewProgram(
		newLinkSpinnerModel(events, awaitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(linkSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
