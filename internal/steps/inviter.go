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

// Inviter invites the author of a validated request straight away, then
// welcomes them and closes the issue.
type Inviter struct {
	gh pipeline.PlatformClient
}

// NewInviter creates a new inviter step.
func NewInviter(deps *pipeline.Dependencies) *Inviter {
	return &Inviter{gh: deps.GitHub}
}

// Name returns the step name.
func (s *Inviter) Name() string {
	return "inviter"
}

// Run sends the invitation. A failed invitation gets an apology comment and
// leaves the request label in place.
func (s *Inviter) Run(ctx *pipeline.Context) error {
	if err := requireOrg(ctx); err != nil {
		return err
	}

	ev := ctx.Event
	author := ev.Issue.Author

	if err := s.gh.CreateOrgInvitation(ctx.Ctx, ctx.Org, author.ID, ctx.Config.InviteRole); err != nil {
		log.Printf("[inviter] Error inviting %s to %s: %v", author.Login, ctx.Org, err)
		if err := s.gh.CreateComment(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number,
			membership.InvitationFailedComment(author.Login)); err != nil {
			return fmt.Errorf("failed to post invitation failure: %w", err)
		}
		ctx.Result.Comments++
		ctx.Result.Outcome = pipeline.OutcomeInvitationFailed
		return nil
	}
	ctx.Result.Invited = true
	log.Printf("[inviter] Invited %s (id %d) to %s", author.Login, author.ID, ctx.Org)

	approved := ctx.Config.Labels.Approved
	if err := s.gh.AddLabels(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number, []string{approved}); err != nil {
		return fmt.Errorf("failed to label approved request: %w", err)
	}
	ctx.Result.LabelsAdded = append(ctx.Result.LabelsAdded, approved)

	if err := s.gh.CreateComment(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number,
		membership.WelcomeComment(author.Login, ctx.Org)); err != nil {
		return fmt.Errorf("failed to post welcome: %w", err)
	}
	ctx.Result.Comments++

	if err := s.gh.CloseIssue(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number); err != nil {
		return fmt.Errorf("failed to close request: %w", err)
	}
	ctx.Result.Closed = true
	ctx.Result.Outcome = pipeline.OutcomeApproved

	return nil
}

// requireOrg fails the run when no target organization is configured.
func requireOrg(ctx *pipeline.Context) error {
	if ctx.Org == "" {
		return fmt.Errorf("organization name is required (set ORG_NAME or 'org' in the config)")
	}
	return nil
}
