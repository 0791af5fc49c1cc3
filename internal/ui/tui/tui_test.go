// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

// =============================================================================
// FAKES AND HELPERS
// =============================================================================

type echoSender struct{}

func (echoSender) SendMessage(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}

// recordingSender remembers every message it was asked to send.
type recordingSender struct {
	mu    sync.Mutex
	calls []string
}

func (s *recordingSender) SendMessage(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	return "ok", nil
}

func (s *recordingSender) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type blockingSender struct {
	entered chan struct{}
}

func (s *blockingSender) SendMessage(ctx context.Context, _ string) (string, error) {
	close(s.entered)
	<-ctx.Done()
	return "", ctx.Err()
}

type failingPinger struct{}

func (failingPinger) CheckConnectivity(context.Context) (map[string]any, error) {
	return nil, errors.New("connection refused")
}

func newTestModel(t *testing.T, sender chat.Sender) Model {
	t.Helper()
	m, err := New(context.Background(), Options{
		Sender:      sender,
		Theme:       styles.NewThemeNamed("dark"),
		ScrollDelay: time.Millisecond,
	})
	require.NoError(t, err)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// runCmd executes cmd and any batched commands, returning their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findSubmitDone(t *testing.T, msgs []tea.Msg) submitDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(submitDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no submitDoneMsg among %d messages", len(msgs))
	return submitDoneMsg{}
}

func raws(m Model) []string {
	var out []string
	for _, e := range m.Thread().Elements() {
		out = append(out, e.Raw)
	}
	return out
}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_RequiresSender(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestNew_RejectsUnknownFormatter(t *testing.T) {
	_, err := New(context.Background(), Options{Sender: echoSender{}, Formatter: "bbcode"})
	assert.Error(t, err)
}

func TestNew_ShowsGreeting(t *testing.T) {
	m := newTestModel(t, echoSender{})

	elems := m.Thread().Elements()
	require.Len(t, elems, 1)
	assert.Equal(t, model.RoleAssistant, elems[0].Role)
	assert.Equal(t, chat.DefaultGreeting, elems[0].Raw)
	assert.Equal(t, FocusInput, m.Focused())
}

func TestSubmit_ChordSendsMessage(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m = typeText(t, m, "hello")
	assert.Equal(t, "hello", m.Field().Value())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	done := findSubmitDone(t, runCmd(cmd))
	require.NoError(t, done.err)
	m, _ = update(t, m, done)

	assert.Equal(t, []string{chat.DefaultGreeting, "hello", "echo: hello"}, raws(m))
	assert.Empty(t, m.InputValue())
	assert.Equal(t, view.MinInputHeight, m.InputHeight())
	assert.True(t, m.Field().Enabled())
	assert.True(t, m.SendButton().Enabled())
	assert.Equal(t, chat.StateIdle, m.Controller().State())
}

func TestSubmit_RepeatedChordSendsOnce(t *testing.T) {
	sender := &recordingSender{}
	m := newTestModel(t, sender)
	m = typeText(t, m, "hello")

	m, first := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, first)
	assert.False(t, m.Field().Enabled())
	assert.False(t, m.SendButton().Enabled())

	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, second)

	done := findSubmitDone(t, runCmd(first))
	require.NoError(t, done.err)
	m, _ = update(t, m, done)

	assert.Equal(t, []string{"hello"}, sender.Calls())
	assert.Equal(t, []string{chat.DefaultGreeting, "hello", "ok"}, raws(m))
	assert.True(t, m.Field().Enabled())
	assert.True(t, m.SendButton().Enabled())
}

func TestSubmit_BlankInputDoesNothing(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m = typeText(t, m, "   ")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Len(t, m.Thread().Elements(), 1)
}

func TestEnter_InsertsNewlineAndGrowsInput(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m = typeText(t, m, "first")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "second")

	assert.Equal(t, "first\nsecond", m.InputValue())
	assert.Equal(t, 2, m.InputHeight())
	assert.Equal(t, 2, m.Field().Height())
	assert.Len(t, m.Thread().Elements(), 1)
}

func TestEnter_OnSendButtonSubmits(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m = typeText(t, m, "via button")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusSend, m.Focused())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	done := findSubmitDone(t, runCmd(cmd))
	require.NoError(t, done.err)
	m, _ = update(t, m, done)

	assert.Equal(t, []string{chat.DefaultGreeting, "via button", "echo: via button"}, raws(m))
	assert.Equal(t, FocusInput, m.Focused())
}

func TestClear_RestoresGreeting(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m = typeText(t, m, "hi")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, findSubmitDone(t, runCmd(cmd)))
	require.Len(t, m.Thread().Elements(), 3)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, []string{chat.DefaultGreeting}, raws(m))
}

func TestEsc_AbortsInFlightRequest(t *testing.T) {
	sender := &blockingSender{entered: make(chan struct{})}
	m := newTestModel(t, sender)
	m = typeText(t, m, "slow")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	results := make(chan []tea.Msg, 1)
	go func() { results <- runCmd(cmd) }()

	select {
	case <-sender.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("request never started")
	}
	assert.True(t, m.Controller().Busy())
	assert.False(t, m.Field().Enabled())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	var msgs []tea.Msg
	select {
	case msgs = <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("abort did not finish the request")
	}
	done := findSubmitDone(t, msgs)
	assert.ErrorIs(t, done.err, context.Canceled)
	m, _ = update(t, m, done)

	assert.Equal(t, []string{chat.DefaultGreeting, "slow"}, raws(m))
	assert.True(t, m.Field().Enabled())

	toasts := m.Toasts().Toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, view.LevelError, toasts[0].Level)
	assert.True(t, strings.HasPrefix(toasts[0].Message, "Sorry, there was an error: "))
}

func TestConnectivityFailure_ShowsWarning(t *testing.T) {
	m, err := New(context.Background(), Options{Sender: echoSender{}, Pinger: failingPinger{}})
	require.NoError(t, err)

	msg := m.checkConnectivity()()
	m, _ = update(t, m, msg)

	toasts := m.Toasts().Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, view.LevelWarning, toasts[0].Level)
	assert.Equal(t, chat.ConnectivityWarning, toasts[0].Message)
}

func TestView_RendersChrome(t *testing.T) {
	m := newTestModel(t, echoSender{})
	out := m.View()

	assert.Contains(t, out, "Nova AI")
	assert.Contains(t, out, "Send")
	assert.Contains(t, out, "idle")
}

func TestQuit_DetachesThread(t *testing.T) {
	m := newTestModel(t, echoSender{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Thread().Attached())
	assert.Empty(t, m.View())
}
