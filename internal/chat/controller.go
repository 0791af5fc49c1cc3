// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/transport"
	"github.com/jeranaias/nova-tui/internal/view"
)

// State is the phase of the submission cycle.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateSending
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sender delivers a message to the backend and returns the reply.
type Sender interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// Controller runs submission cycles against a view.
type Controller struct {
	view     view.Context
	renderer *Renderer
	sender   Sender
	logger   *zap.Logger
	onState  func(State)

	inFlight atomic.Bool
	state    atomic.Int32

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateHook registers fn to observe every state transition. fn runs on
// the submitting goroutine.
func WithStateHook(fn func(State)) ControllerOption {
	return func(c *Controller) { c.onState = fn }
}

// NewController creates a controller. vc must be fully populated.
func NewController(vc view.Context, r *Renderer, s Sender, opts ...ControllerOption) *Controller {
	c := &Controller{
		view:     vc,
		renderer: r,
		sender:   s,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize trims surrounding whitespace and converts text to NFC.
func Normalize(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

// State returns the current phase.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.inFlight.Load()
}

// Abort cancels the in-flight request, if any. It reports whether there was
// one to cancel.
func (c *Controller) Abort() bool {
	c.cancelMu.Lock()
	defer c.cancelMu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// Submit runs one submission cycle for raw. Blank input is ignored and
// returns nil. A call made while another is in flight returns ErrBusy and
// touches nothing. Failures are shown through the view's notifier and also
// returned. Whatever happens, the input and submit control are re-enabled
// and the input is focused before Submit returns.
func (c *Controller) Submit(ctx context.Context, raw string) (err error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.inFlight.Store(false)

	c.setState(StateValidating)
	text := Normalize(raw)
	if text == "" {
		c.setState(StateIdle)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	c.setCancel(cancel)
	defer func() {
		c.setCancel(nil)
		cancel()
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			c.logger.Error("submission panicked", zap.Any("panic", r))
			c.fail(err)
		}
		c.view.Input.SetEnabled(true)
		c.view.Submit.SetEnabled(true)
		c.view.Input.Focus()
		c.setState(StateIdle)
	}()

	c.setState(StateSending)
	c.view.Input.SetEnabled(false)
	c.view.Submit.SetEnabled(false)

	c.renderer.RenderMessage(model.RoleUser, text)
	c.view.Input.SetValue("")
	c.view.Input.SetHeight(view.MinInputHeight)
	c.renderer.ShowTyping()

	c.logger.Info("sending message", zap.Int("len", len(text)))
	reply, err := c.sender.SendMessage(ctx, text)
	c.renderer.RemoveTyping()
	if err == nil && reply == "" {
		err = transport.ErrNoResponse
	}
	if err != nil {
		c.fail(err)
		return err
	}

	c.setState(StateSucceeded)
	c.renderer.RenderMessage(model.RoleAssistant, reply)
	c.logger.Info("reply received", zap.Int("len", len(reply)))
	return nil
}

func (c *Controller) fail(err error) {
	c.setState(StateFailed)
	c.renderer.RemoveTyping()
	c.view.Notifier.Notify(view.LevelError, ErrorNotice(err))
	c.logger.Warn("submission failed", zap.Error(err))
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
	if c.onState != nil {
		c.onState(s)
	}
}

func (c *Controller) setCancel(cancel context.CancelFunc) {
	c.cancelMu.Lock()
	c.cancel = cancel
	c.cancelMu.Unlock()
}
