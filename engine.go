package main

import (
	"context"

	"github.com/chase3718/lispboard/internal/board"
	"github.com/chase3718/lispboard/internal/lisp"
	"github.com/chase3718/lispboard/internal/view"
)

const eventQueueSize = 256

// Engine owns the controller state and the register machine. Events are
// queued from any goroutine and handled one at a time by Run: each turn
// applies the event, recomputes the projection and hands it to every sink
// before the next event is taken.
type Engine struct {
	store   *board.Store
	machine *lisp.Machine
	layout  view.Layout
	sinks   []Sink
	events  chan board.Event
	seq     uint64
}

func NewEngine(layout view.Layout, sinks ...Sink) *Engine {
	e := &Engine{
		store:   board.NewStore(),
		machine: lisp.NewMachine(),
		layout:  layout,
		events:  make(chan board.Event, eventQueueSize),
	}
	for _, s := range sinks {
		if s != nil {
			e.sinks = append(e.sinks, s)
		}
	}
	return e
}

// Submit queues an event for the next turn. It blocks while the queue is full
// and gives up when ctx is done.
func (e *Engine) Submit(ctx context.Context, ev board.Event) bool {
	select {
	case e.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run renders the initial state, then handles queued events until ctx is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.render(e.project())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.events:
			e.Handle(ev)
		}
	}
}

// Handle runs one full turn for ev and returns the projection it rendered.
// A rejected event still re-renders the unchanged state.
func (e *Engine) Handle(ev board.Event) view.Projection {
	if err := e.store.Apply(ev); err != nil {
		logger.Warn("engine: event rejected", "event", ev.String(), "err", err)
	} else {
		logger.Debug("engine: event applied", "event", ev.String())
		if ev.Kind == board.BankSave {
			logger.Info("engine: saved to bank", "bank", ev.Index)
		}
	}
	p := e.project()
	e.render(p)
	return p
}

// Reset clears the controller state and renders it.
func (e *Engine) Reset() view.Projection {
	e.store.Reset()
	p := e.project()
	e.render(p)
	return p
}

func (e *Engine) project() view.Projection {
	e.seq++
	p := view.Compute(e.store, e.machine, e.layout)
	p.Seq = e.seq
	if r, ok := p.Row(view.MainRow); ok && !r.OK() {
		logger.Debug("engine: main failed to evaluate", "err", r.Err)
	}
	return p
}

// render delivers p to every sink. A failing sink is skipped for this turn.
func (e *Engine) render(p view.Projection) {
	for _, s := range e.sinks {
		if err := s.Render(p); err != nil {
			logger.Warn("engine: sink update skipped", "sink", s.Name(), "err", err)
		}
	}
}
