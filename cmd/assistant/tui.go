package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/profile"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
	"github.com/Ranojay1/LocalAssistant/pkg/wake"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 0, 0, 0)
	wakeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type turnsMsg []domain.Turn
type turnLogUpdateMsg struct{}
type wakeFlashExpiredMsg struct{}

type uiModel struct {
	hotkey  string
	wake    *wake.Queue
	profile *profile.Store
	turns   store.TurnLog
	updates <-chan string

	viewport viewport.Model
	recent   []domain.Turn
	lastWake time.Time
}

func initialModel(hotkey string, q *wake.Queue, prof *profile.Store, turns store.TurnLog) uiModel {
	vp := viewport.New(80, 16)
	vp.SetContent("Sin conversaciones todavía.")
	return uiModel{
		hotkey:   hotkey,
		wake:     q,
		profile:  prof,
		turns:    turns,
		updates:  turns.Subscribe(),
		viewport: vp,
	}
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(loadTurns(m.turns), waitForUpdate(m.updates))
}

func loadTurns(turns store.TurnLog) tea.Cmd {
	return func() tea.Msg {
		recent, err := turns.RecentTurns(context.Background(), 20)
		if err != nil {
			return turnsMsg(nil)
		}
		return turnsMsg(recent)
	}
}

func waitForUpdate(updates <-chan string) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return turnLogUpdateMsg{}
	}
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 7
		m.viewport.SetContent(m.renderTurns())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case m.hotkey:
			m.wake.Trigger("hotkey")
			m.lastWake = time.Now()
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return wakeFlashExpiredMsg{}
			})
		}

	case turnLogUpdateMsg:
		return m, tea.Batch(loadTurns(m.turns), waitForUpdate(m.updates))

	case turnsMsg:
		m.recent = msg
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil

	case wakeFlashExpiredMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m uiModel) renderTurns() string {
	if len(m.recent) == 0 {
		return "Sin conversaciones todavía."
	}
	var b strings.Builder
	for _, turn := range m.recent {
		b.WriteString(userStyle.Render("Tú: "))
		b.WriteString(strings.ReplaceAll(turn.UserText, "\n", " "))
		b.WriteString("\n")
		if turn.AssistantText != "" {
			b.WriteString(assistantStyle.Render("Asistente: "))
			b.WriteString(strings.ReplaceAll(turn.AssistantText, "\n", " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m uiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Asistente"))
	b.WriteString("\n")

	snap := m.profile.Snapshot()
	status := fmt.Sprintf("Interacciones: %d", snap.InteractionCount)
	if snap.Name != "" {
		status = fmt.Sprintf("Usuario: %s · %s", snap.Name, status)
	}
	if time.Since(m.lastWake) < 2*time.Second {
		status += " · " + wakeStyle.Render("Escuchando...")
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s: hablar · q: salir", m.hotkey)))
	return b.String()
}
