// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package workflow dispatches membership request events to the step
// pipeline for the configured policy.
package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/steps"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithStepWrapper wraps every step before it runs, e.g. to report progress.
func WithStepWrapper(wrap func(pipeline.Step) pipeline.Step) Option {
	return func(w *Workflow) {
		w.wrap = wrap
	}
}

// Workflow is the membership request workflow for one organization.
type Workflow struct {
	cfg      *config.Config
	org      string
	deps     *pipeline.Dependencies
	registry *pipeline.Registry
	wrap     func(pipeline.Step) pipeline.Step
}

// New creates a workflow that invites members to org.
func New(cfg *config.Config, org string, deps *pipeline.Dependencies, opts ...Option) *Workflow {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	w := &Workflow{
		cfg:      cfg,
		org:      org,
		deps:     deps,
		registry: registry,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// StepNames returns the steps run for an event kind under the configured policy.
func (w *Workflow) StepNames(kind pipeline.EventKind) []string {
	names, _ := pipeline.ResolveSteps(w.cfg.Policy, kind)
	return names
}

// Handle dispatches an event by kind. Failures other than the ones the
// workflow answers with a comment are logged and returned.
func (w *Workflow) Handle(ctx context.Context, event *pipeline.Event) (result *pipeline.Result, err error) {
	if event == nil {
		log.Printf("[workflow] Error processing event: no event")
		return nil, &pipeline.PayloadError{Field: "event"}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling %s event: %v", event.Name, r)
		}
		if err != nil {
			log.Printf("[workflow] Error processing %s event for #%d: %v", event.Name, event.Issue.Number, err)
		}
	}()

	switch event.Kind {
	case pipeline.EventIssueOpened:
		return w.OnIssueOpened(ctx, event)
	case pipeline.EventCommentCreated:
		return w.OnCommentCreated(ctx, event)
	}

	pCtx := pipeline.NewContext(ctx, event, w.cfg, w.org)
	log.Printf("[workflow] Ignoring %s/%s event", event.Name, event.Action)
	pCtx.Skip(fmt.Sprintf("unhandled action %q", event.Action))
	return pCtx.Result, nil
}

// OnIssueOpened validates and processes a newly opened membership request.
func (w *Workflow) OnIssueOpened(ctx context.Context, event *pipeline.Event) (*pipeline.Result, error) {
	return w.run(ctx, event, pipeline.EventIssueOpened)
}

// OnCommentCreated handles an approval comment. It does nothing under the
// immediate policy.
func (w *Workflow) OnCommentCreated(ctx context.Context, event *pipeline.Event) (*pipeline.Result, error) {
	return w.run(ctx, event, pipeline.EventCommentCreated)
}

func (w *Workflow) run(ctx context.Context, event *pipeline.Event, kind pipeline.EventKind) (*pipeline.Result, error) {
	pCtx := pipeline.NewContext(ctx, event, w.cfg, w.org)
	pCtx.Result.EventKind = kind

	names, ok := pipeline.ResolveSteps(w.cfg.Policy, kind)
	if !ok {
		return pCtx.Result, fmt.Errorf("no workflow for policy %q and event %q", w.cfg.Policy, kind)
	}
	if len(names) == 0 {
		log.Printf("[workflow] Policy %q does not handle %s events", w.cfg.Policy, kind)
		pCtx.Skip(fmt.Sprintf("%s events are not handled by the %s policy", kind, w.cfg.Policy))
		return pCtx.Result, nil
	}

	p, err := w.registry.BuildFromNames(names, w.deps)
	if err != nil {
		return pCtx.Result, err
	}
	if w.wrap != nil {
		wrapped := pipeline.New()
		for _, step := range p.Steps() {
			wrapped.AddStep(w.wrap(step))
		}
		p = wrapped
	}

	log.Printf("[workflow] Run %s: %s policy, %s on #%d", pCtx.Result.RunID, w.cfg.Policy, kind, event.Issue.Number)
	if err := p.Run(pCtx); err != nil {
		return pCtx.Result, err
	}

	log.Printf("[workflow] Run %s finished: outcome=%s", pCtx.Result.RunID, pCtx.Result.Outcome)
	return pCtx.Result, nil
}
