// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package steps contains the pipeline steps of the membership workflow.
// Each step implements the pipeline.Step interface.
package steps

import (
	"log"
	"strings"

	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// Gatekeeper drops events that are not about a membership request.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run checks the event against the request title and ignores pull requests
// and bot comments. It makes no API calls.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	ev := ctx.Event
	log.Printf("[gatekeeper] Issue #%d, Event=%q, Action=%q, Repo=%s/%s",
		ev.Issue.Number, ev.Name, ev.Action, ev.Owner, ev.Repo)

	if ev.Issue.IsPullRequest {
		log.Printf("[gatekeeper] #%d is a pull request, skipping", ev.Issue.Number)
		return ctx.Skip("pull request")
	}

	if ev.Comment != nil && isBotAuthor(ev.Comment.Author.Login, ctx.Config.BotUsers) {
		log.Printf("[gatekeeper] Skipping comment from bot author %q", ev.Comment.Author.Login)
		return ctx.Skip("event triggered by bot")
	}

	if ev.Issue.Title != ctx.Config.RequestTitle {
		// A request retitled after it was opened still carries the request label.
		if ev.Comment != nil && ev.Issue.HasLabel(ctx.Config.Labels.Request) {
			log.Printf("[gatekeeper] #%d title changed to %q, accepting by %q label", ev.Issue.Number, ev.Issue.Title, ctx.Config.Labels.Request)
			return nil
		}
		log.Printf("[gatekeeper] #%d title %q is not %q, skipping", ev.Issue.Number, ev.Issue.Title, ctx.Config.RequestTitle)
		return ctx.Skip("not a membership request")
	}

	return nil
}

// isBotAuthor returns true if the given username matches a known bot pattern
// or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	if strings.HasSuffix(author, "[bot]") {
		return true
	}
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}
