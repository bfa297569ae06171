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

// Approver invites the author of an approved request and moves the issue
// from pending to approved.
type Approver struct {
	gh pipeline.PlatformClient
}

// NewApprover creates a new approver step.
func NewApprover(deps *pipeline.Dependencies) *Approver {
	return &Approver{gh: deps.GitHub}
}

// Name returns the step name.
func (s *Approver) Name() string {
	return "approver"
}

// Run invites the issue author, not the commenter.
func (s *Approver) Run(ctx *pipeline.Context) error {
	if err := requireOrg(ctx); err != nil {
		return err
	}

	ev := ctx.Event
	author := ev.Issue.Author
	labels := ctx.Config.Labels

	approved, err := s.alreadyApproved(ctx)
	if err != nil {
		return err
	}
	if approved {
		log.Printf("[approver] #%d already carries %q, not inviting %s again", ev.Issue.Number, labels.Approved, author.Login)
		ctx.Result.Outcome = pipeline.OutcomeAlreadyApproved
		return ctx.Skip("request already approved")
	}

	if err := s.gh.CreateOrgInvitation(ctx.Ctx, ctx.Org, author.ID, ctx.Config.InviteRole); err != nil {
		log.Printf("[approver] Error inviting %s to %s: %v", author.Login, ctx.Org, err)
		if err := s.gh.CreateComment(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number,
			membership.InvitationFailedComment(author.Login)); err != nil {
			return fmt.Errorf("failed to post invitation failure: %w", err)
		}
		ctx.Result.Comments++
		ctx.Result.Outcome = pipeline.OutcomeInvitationFailed
		return nil
	}
	ctx.Result.Invited = true
	log.Printf("[approver] Invited %s (id %d) to %s", author.Login, author.ID, ctx.Org)

	if err := s.gh.RemoveLabel(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number, labels.Pending); err != nil {
		return fmt.Errorf("failed to clear pending label: %w", err)
	}
	ctx.Result.LabelsRemoved = append(ctx.Result.LabelsRemoved, labels.Pending)

	if err := s.gh.AddLabels(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number, []string{labels.Approved}); err != nil {
		return fmt.Errorf("failed to label approved request: %w", err)
	}
	ctx.Result.LabelsAdded = append(ctx.Result.LabelsAdded, labels.Approved)

	if err := s.gh.CreateComment(ctx.Ctx, ev.Owner, ev.Repo, ev.Issue.Number,
		membership.ApprovedComment(author.Login, ctx.Org)); err != nil {
		return fmt.Errorf("failed to post welcome: %w", err)
	}
	ctx.Result.Comments++
	ctx.Result.Outcome = pipeline.OutcomeApproved

	return nil
}

// alreadyApproved checks the payload labels first and then the labels the
// issue carries now, since another run may have approved it since.
func (s *Approver) alreadyApproved(ctx *pipeline.Context) (bool, error) {
	name := ctx.Config.Labels.Approved
	if ctx.Event.Issue.HasLabel(name) {
		return true, nil
	}

	current, err := s.gh.ListLabels(ctx.Ctx, ctx.Event.Owner, ctx.Event.Repo, ctx.Event.Issue.Number)
	if err != nil {
		return false, fmt.Errorf("failed to check current labels: %w", err)
	}
	for _, l := range current {
		if strings.EqualFold(l, name) {
			return true, nil
		}
	}
	return false, nil
}
