// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/membership"
)

// Acknowledger posts the application summary for a request awaiting approval.
type Acknowledger struct {
	gh pipeline.PlatformClient
}

// NewAcknowledger creates a new acknowledger step.
func NewAcknowledger(deps *pipeline.Dependencies) *Acknowledger {
	return &Acknowledger{gh: deps.GitHub}
}

// Name returns the step name.
func (s *Acknowledger) Name() string {
	return "acknowledger"
}

// Run posts the summary comment.
func (s *Acknowledger) Run(ctx *pipeline.Context) error {
	if ctx.Application == nil {
		return fmt.Errorf("no parsed application to acknowledge")
	}

	issue := ctx.Event.Issue
	body := membership.SummaryComment(issue.Author.Login, ctx.Application)
	if err := s.gh.CreateComment(ctx.Ctx, ctx.Event.Owner, ctx.Event.Repo, issue.Number, body); err != nil {
		return fmt.Errorf("failed to post summary: %w", err)
	}
	ctx.Result.Comments++

	log.Printf("[acknowledger] Posted application summary on #%d", issue.Number)
	return nil
}
