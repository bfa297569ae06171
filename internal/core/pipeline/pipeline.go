// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package pipeline provides the step engine the membership workflow runs on.
// It defines the Step interface and the Context passed through every step.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/membership"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., not a membership
// request, validation comment already posted).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Outcome is the terminal state a run leaves the request in.
type Outcome string

const (
	OutcomeIgnored              Outcome = "ignored"
	OutcomeAwaitingResubmission Outcome = "awaiting-resubmission"
	OutcomePendingApproval      Outcome = "pending-approval"
	OutcomeDenied               Outcome = "denied"
	OutcomeAlreadyApproved      Outcome = "already-approved"
	OutcomeApproved             Outcome = "approved"
	OutcomeInvitationFailed     Outcome = "invitation-failed"
)

// Result holds the accumulated results from pipeline execution.
type Result struct {
	RunID         string                  `json:"run_id"`
	EventKind     EventKind               `json:"event_kind"`
	IssueNumber   int                     `json:"issue_number"`
	Outcome       Outcome                 `json:"outcome"`
	Skipped       bool                    `json:"skipped"`
	SkipReason    string                  `json:"skip_reason,omitempty"`
	Application   *membership.Application `json:"application,omitempty"`
	Comments      int                     `json:"comments_posted"`
	LabelsAdded   []string                `json:"labels_added,omitempty"`
	LabelsRemoved []string                `json:"labels_removed,omitempty"`
	Invited       bool                    `json:"invited"`
	Closed        bool                    `json:"closed"`
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Event is the decoded triggering event.
	Event *Event

	// Config is the loaded configuration.
	Config *config.Config

	// Org is the organization members are invited to.
	Org string

	// Application is set once the request body has been parsed.
	Application *membership.Application

	// Result accumulates the processing results.
	Result *Result
}

// NewContext creates a new pipeline context for an event.
func NewContext(ctx context.Context, event *Event, cfg *config.Config, org string) *Context {
	return &Context{
		Ctx:    ctx,
		Event:  event,
		Config: cfg,
		Org:    org,
		Result: &Result{
			RunID:       uuid.NewString(),
			EventKind:   event.Kind,
			IssueNumber: event.Issue.Number,
			Outcome:     OutcomeIgnored,
		},
	}
}

// Skip marks the run as skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
