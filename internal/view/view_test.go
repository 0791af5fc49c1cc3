// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nova-tui/internal/model"
)

func kinds(elems []Element) []Kind {
	out := make([]Kind, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Kind)
	}
	return out
}

func TestThread_AppendRemoveOrder(t *testing.T) {
	th := NewThread(nil)

	a := ElementFor(model.NewMessage(model.RoleUser, "a"), "U", "a")
	typing := NewTypingElement("N")
	b := ElementFor(model.NewMessage(model.RoleAssistant, "b"), "N", "b")

	th.Append(a)
	th.Append(typing)
	require.True(t, th.Remove(typing.ID))
	assert.False(t, th.Remove(typing.ID), "second remove is a no-op")
	th.Append(b)

	got := th.Elements()
	if diff := cmp.Diff([]Element{a, b}, got); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Kind{KindMessage, KindMessage}, kinds(got))
}

func TestThread_ElementsIsCopy(t *testing.T) {
	th := NewThread(nil)
	th.Append(ElementFor(model.NewMessage(model.RoleUser, "x"), "U", "x"))

	got := th.Elements()
	got[0].Body = "changed"

	assert.Equal(t, "x", th.Elements()[0].Body)
}

func TestThread_Clear(t *testing.T) {
	th := NewThread(nil)
	th.Append(ElementFor(model.NewMessage(model.RoleUser, "x"), "U", "x"))
	th.Append(NewTypingElement("N"))

	th.Clear()
	assert.Empty(t, th.Elements())
}

func TestThread_ScrollIgnoredWhenDetached(t *testing.T) {
	th := NewThread(nil)

	th.ScrollToBottom()
	assert.Equal(t, uint64(1), th.ScrollRevision())
	assert.True(t, th.Attached())

	th.Detach()
	th.ScrollToBottom()
	assert.Equal(t, uint64(1), th.ScrollRevision())
	assert.False(t, th.Attached())
}

func TestThread_Observe(t *testing.T) {
	th := NewThread(nil)

	var ops []Op
	th.Observe(func(c Change) { ops = append(ops, c.Op) })

	e := ElementFor(model.NewMessage(model.RoleUser, "x"), "U", "x")
	th.Append(e)
	th.Remove(e.ID)
	th.ScrollToBottom()
	th.Clear()

	assert.Equal(t, []Op{OpAppend, OpRemove, OpScroll, OpClear}, ops)
}

func TestThread_ConcurrentAppend(t *testing.T) {
	th := NewThread(NewSignal())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			th.Append(ElementFor(model.NewMessage(model.RoleUser, "x"), "U", "x"))
		}()
	}
	wg.Wait()

	assert.Len(t, th.Elements(), 50)
}

func TestSignal_Coalesces(t *testing.T) {
	sig := NewSignal()
	sig.Poke()
	sig.Poke()
	sig.Poke()

	<-sig.C()
	select {
	case <-sig.C():
		t.Fatal("expected pokes to coalesce into one wake-up")
	default:
	}

	var nilSig *Signal
	assert.NotPanics(t, nilSig.Poke)
}

func TestField_Revisions(t *testing.T) {
	f := NewField(nil)
	assert.True(t, f.Enabled())
	assert.Equal(t, MinInputHeight, f.Height())

	start := f.Revision()
	f.Edit("typed", 2)
	assert.Equal(t, start, f.Revision(), "user edits do not bump the revision")
	assert.Equal(t, "typed", f.Value())
	assert.Equal(t, 2, f.Height())

	f.SetValue("")
	f.SetHeight(0)
	f.SetEnabled(false)
	f.Focus()
	assert.Equal(t, start+4, f.Revision())
	assert.Equal(t, MinInputHeight, f.Height())
	assert.False(t, f.Enabled())
	assert.True(t, f.Focused())
}

func TestAutoHeight(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		maxLines int
		want     int
	}{
		{"empty", "", 20, 6, 1},
		{"single line", "hello", 20, 6, 1},
		{"explicit newlines", "a\nb\nc", 20, 6, 3},
		{"wraps", "0123456789", 4, 6, 3},
		{"capped", "1\n2\n3\n4\n5\n6\n7\n8", 20, 6, 6},
		{"wide runes", "日本語日本語", 4, 6, 3},
		{"no width", "0123456789", 0, 6, 1},
		{"no cap", "1\n2\n3\n4\n5\n6\n7\n8", 20, 0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoHeight(tt.text, tt.width, tt.maxLines))
		})
	}
}

func TestButton(t *testing.T) {
	sig := NewSignal()
	b := NewButton(sig)
	assert.True(t, b.Enabled())

	b.SetEnabled(false)
	assert.False(t, b.Enabled())
	select {
	case <-sig.C():
	default:
		t.Fatal("SetEnabled did not signal")
	}
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	n := NotifierFunc(func(level Level, message string) {
		got = append(got, level.String()+": "+message)
	})
	n.Notify(LevelWarning, "careful")
	assert.Equal(t, []string{LevelWarning.String() + ": careful"}, got)
}

func TestContext_Valid(t *testing.T) {
	assert.False(t, Context{}.Valid())

	ctx := Context{
		Conversation: NewThread(nil),
		Input:        NewField(nil),
		Submit:       NewButton(nil),
		Notifier:     NotifierFunc(func(Level, string) {}),
	}
	assert.True(t, ctx.Valid())
}

func TestElementFor_SharesMessageIdentity(t *testing.T) {
	msg := model.NewAssistantMessage("**hi**")
	e := ElementFor(msg, "N", "<strong>hi</strong>")

	assert.Equal(t, msg.ID, e.ID)
	assert.Equal(t, msg.CreatedAt, e.CreatedAt)
	assert.Equal(t, KindMessage, e.Kind)
	assert.Equal(t, model.RoleAssistant, e.Role)
	assert.Equal(t, "**hi**", e.Raw)
	assert.Equal(t, "<strong>hi</strong>", e.Body)
	assert.False(t, e.IsTyping())
}
