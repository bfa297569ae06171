// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/membership"
)

// Authorizer checks that the commenter is an organization owner. A failed
// membership lookup is treated the same as a non-owner.
type Authorizer struct {
	gh pipeline.PlatformClient
}

// NewAuthorizer creates a new authorizer step.
func NewAuthorizer(deps *pipeline.Dependencies) *Authorizer {
	return &Authorizer{gh: deps.GitHub}
}

// Name returns the step name.
func (s *Authorizer) Name() string {
	return "authorizer"
}

// Run denies the approval unless the commenter holds the admin role.
func (s *Authorizer) Run(ctx *pipeline.Context) error {
	if err := requireOrg(ctx); err != nil {
		return err
	}

	commenter := ctx.Event.Comment.Author.Login

	m, err := s.gh.GetOrgMembership(ctx.Ctx, ctx.Org, commenter)
	switch {
	case err != nil:
		log.Printf("[authorizer] Error checking membership of %s: %v", commenter, err)
	case !strings.EqualFold(m.Role, ctx.Config.AdminRole):
		log.Printf("[authorizer] %s has role %q in %s", commenter, m.Role, ctx.Org)
	case m.State == "pending":
		log.Printf("[authorizer] %s has not accepted their %s membership", commenter, ctx.Org)
	default:
		log.Printf("[authorizer] %s is an owner of %s", commenter, ctx.Org)
		return nil
	}

	ev := ctx.Event
	if err := s.gh.CreateComment(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number, membership.DeniedComment(commenter)); err != nil {
		return fmt.Errorf("failed to post denial: %w", err)
	}
	ctx.Result.Comments++
	ctx.Result.Outcome = pipeline.OutcomeDenied

	return ctx.Skip("commenter is not an organization owner")
}
