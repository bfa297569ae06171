// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"errors"
	"fmt"
	"log"

	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/membership"
)

// ApplicationParser extracts the request fields from the issue body and asks
// the author to complete the template when any are missing.
type ApplicationParser struct {
	gh pipeline.PlatformClient
}

// NewApplicationParser creates a new application parser step.
func NewApplicationParser(deps *pipeline.Dependencies) *ApplicationParser {
	return &ApplicationParser{gh: deps.GitHub}
}

// Name returns the step name.
func (s *ApplicationParser) Name() string {
	return "application_parser"
}

// Run parses the body into ctx.Application.
func (s *ApplicationParser) Run(ctx *pipeline.Context) error {
	issue := ctx.Event.Issue

	app, err := membership.ParseApplication(issue.Body)
	if err == nil {
		ctx.Application = app
		ctx.Result.Application = app
		log.Printf("[application_parser] #%d: application from %s for %q", issue.Number, issue.Author.Login, app.RequestedUsername)
		return nil
	}

	var missing *membership.MissingFieldsError
	if !errors.As(err, &missing) {
		return err
	}

	log.Printf("[application_parser] #%d: %v", issue.Number, missing)
	if err := s.gh.CreateComment(ctx.Ctx, ctx.Event.Owner, ctx.Event.Repo, issue.Number,
		membership.MissingFieldsComment(issue.Author.Login)); err != nil {
		return fmt.Errorf("failed to request missing fields: %w", err)
	}
	ctx.Result.Comments++
	ctx.Result.Outcome = pipeline.OutcomeAwaitingResubmission

	return ctx.Skip(missing.Error())
}
