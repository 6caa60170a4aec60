package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/trebuchet-org/raffle-cli/internal/cli/render"
	"github.com/trebuchet-org/raffle-cli/internal/domain"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

var (
	titleStyle = color.New(color.FgCyan, color.Bold)
	faintStyle = color.New(color.Faint)
	errorStyle = color.New(color.FgRed, color.Bold)
	busyStyle  = color.New(color.FgYellow)
	keyStyle   = color.New(color.FgCyan)
)

// Connector is the part of the session lifecycle the screen drives
type Connector interface {
	Connect(ctx context.Context) error
	State() domain.ConnectionState
	Signer() *usecase.SignerIdentity
	Subscribe() (<-chan domain.ConnectionState, func())
}

// SessionOpener binds the current signer to the latest deployment
type SessionOpener func(ctx context.Context) (*usecase.ContractSession, error)

type (
	sessionMsg struct {
		session *usecase.ContractSession
		err     error
	}
	connectMsg struct {
		err error
	}
	executeMsg struct {
		action  domain.Action
		outcome *usecase.ExecuteOutcome
		err     error
	}
	refreshMsg struct {
		err error
	}
	stateMsg struct {
		state domain.ConnectionState
	}
	guardMsg struct {
		ch     <-chan domain.OperationStatus
		status domain.OperationStatus
	}
)

// Model is the bubbletea model of the raffle screen. Execute keys are
// gated on the session guard; connect and refresh use loading.
type Model struct {
	ctx       context.Context
	connector Connector
	open      SessionOpener

	states     <-chan domain.ConnectionState
	stopStates func()

	session  *usecase.ContractSession
	statuses <-chan domain.OperationStatus
	unwatch  func()

	sending domain.ActionKind
	opening bool
	loading bool
	status  string
	err     error
	done    bool
}

// NewModel creates the screen model and subscribes to connection changes
func NewModel(ctx context.Context, connector Connector, open SessionOpener) Model {
	states, stop := connector.Subscribe()
	return Model{
		ctx:        ctx,
		connector:  connector,
		open:       open,
		states:     states,
		stopStates: stop,
		opening:    true,
	}
}

// Init opens the session; its maps are queried once it is ready
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.openSession(), waitState(m.states))
}

// Close drops the screen's subscriptions
func (m Model) Close() {
	if m.unwatch != nil {
		m.unwatch()
	}
	if m.stopStates != nil {
		m.stopStates()
	}
}

func waitState(ch <-chan domain.ConnectionState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{state: state}
	}
}

func waitGuard(ch <-chan domain.OperationStatus) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return guardMsg{ch: ch, status: status}
	}
}

// busy reports whether the session guard or the screen has work in flight
func (m Model) busy() bool {
	if m.loading || m.sending != "" {
		return true
	}
	return m.session != nil && m.session.Guard().Busy()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		// a connection made or dropped elsewhere rebinds the session
		if m.session != nil && !m.opening && !m.loading &&
			(msg.state == domain.Connected) != m.session.Connected() &&
			msg.state != domain.Connecting {
			m.opening = true
			return m, tea.Batch(m.openSession(), waitState(m.states))
		}
		return m, waitState(m.states)

	case guardMsg:
		if msg.ch != m.statuses {
			return m, nil
		}
		return m, waitGuard(m.statuses)

	case sessionMsg:
		m.opening = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		if m.unwatch != nil {
			m.unwatch()
		}
		m.session = msg.session
		m.statuses, m.unwatch = m.session.Guard().Subscribe()
		next, refresh := m.refresh()
		return next, tea.Batch(refresh, waitGuard(m.statuses))

	case connectMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "Wallet connected"
		m.opening = true
		return m, m.openSession()

	case executeMsg:
		m.sending = ""
		switch {
		case msg.err != nil:
			// the guard keeps the error, View renders it
			m.status = fmt.Sprintf("%s failed", render.Title(string(msg.action.Kind())))
		case msg.outcome.Skipped:
			m.status = "No wallet connected, nothing was sent"
		case msg.outcome.QueryErr != nil:
			m.err = fmt.Errorf("%s succeeded but refresh failed: %w", msg.action.Kind(), msg.outcome.QueryErr)
		default:
			m.status = fmt.Sprintf("%s succeeded", render.Title(string(msg.action.Kind())))
		}
		return m, nil

	case refreshMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.done = true
		return m, tea.Quit
	}

	if m.session == nil || m.busy() {
		return m, nil
	}

	state := m.connector.State()
	connected := state == domain.Connected
	switch msg.String() {
	case "c":
		if state == domain.Disconnected {
			return m.connect()
		}
	case "g":
		if connected {
			return m.execute(domain.Generate{})
		}
	case "i":
		if connected {
			return m.execute(domain.Increment{})
		}
	case "x":
		if connected {
			return m.execute(domain.Clear{})
		}
	case "r":
		if connected {
			return m.refresh()
		}
	}
	return m, nil
}

func (m Model) openSession() tea.Cmd {
	ctx, open := m.ctx, m.open
	return func() tea.Msg {
		session, err := open(ctx)
		return sessionMsg{session: session, err: err}
	}
}

func (m Model) connect() (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.status = "Connecting wallet"
	ctx, connector := m.ctx, m.connector
	return m, func() tea.Msg {
		return connectMsg{err: connector.Connect(ctx)}
	}
}

func (m Model) execute(action domain.Action) (tea.Model, tea.Cmd) {
	m.sending = action.Kind()
	m.err = nil
	m.status = fmt.Sprintf("Sending %s", action.Kind())
	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		outcome, err := session.ExecuteWith(ctx, action, usecase.ExecuteOptions{WithQuery: true})
		return executeMsg{action: action, outcome: outcome, err: err}
	}
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if !m.session.Connected() {
		return m, nil
	}
	m.loading = true
	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		if _, err := session.QueryMaps(ctx); err != nil {
			return refreshMsg{err: err}
		}
		_, err := session.QueryCount(ctx)
		return refreshMsg{err: err}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Sprint("Secret Raffle"))
	b.WriteString("\n\n")

	connected := m.connector.State() == domain.Connected
	if signer := m.connector.Signer(); connected && signer != nil {
		b.WriteString(fmt.Sprintf("Wallet: %s\n", signer.Address))
	} else {
		b.WriteString(fmt.Sprintf("Wallet: %s\n", render.Title(string(m.connector.State()))))
	}

	if m.session != nil {
		record := m.session.Record()
		b.WriteString(faintStyle.Sprintf("Contract: %s\n", record.ContractAddress))

		state := m.session.State()
		if count, ok := state.Count(); ok {
			b.WriteString(fmt.Sprintf("Count: %d\n", count))
		}
		b.WriteString("\n")

		maps := state.Maps()
		if len(maps) == 0 && connected {
			b.WriteString(faintStyle.Sprint("No maps generated yet\n"))
		}
		for i, mp := range maps {
			b.WriteString(fmt.Sprintf("%3d  %s\n", i, render.ColorizeMap(mp)))
		}
	}

	b.WriteString("\n")
	if m.busy() {
		b.WriteString(busyStyle.Sprintf("… %s\n", m.status))
	} else if m.status != "" {
		b.WriteString(faintStyle.Sprintf("%s\n", m.status))
	}
	if m.session != nil && m.session.Guard().Status() == domain.StatusFailed {
		if err := m.session.Guard().LastErr(); err != nil {
			b.WriteString(errorStyle.Sprintf("%s\n", errorText(err)))
		}
	}
	if m.err != nil {
		b.WriteString(errorStyle.Sprintf("%s\n", errorText(m.err)))
	}

	b.WriteString("\n")
	if connected {
		b.WriteString(keyStyle.Sprint("g: generate  i: increment  x: clear  r: refresh  q: quit\n"))
	} else {
		b.WriteString(keyStyle.Sprint("c: connect wallet  q: quit\n"))
	}

	return b.String()
}

func errorText(err error) string {
	var alert *domain.AlertError
	if errors.As(err, &alert) {
		return alert.Message
	}
	return err.Error()
}

// Run shows the screen until the user quits
func Run(ctx context.Context, connector Connector, open SessionOpener) error {
	model := NewModel(ctx, connector, open)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if m, ok := final.(Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}
	return nil
}
