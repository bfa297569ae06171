// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// Labeler marks a validated request. Under the two-phase policy it also marks
// the request as pending approval.
type Labeler struct {
	gh pipeline.PlatformClient
}

// NewLabeler creates a new labeler step.
func NewLabeler(deps *pipeline.Dependencies) *Labeler {
	return &Labeler{gh: deps.GitHub}
}

// Name returns the step name.
func (s *Labeler) Name() string {
	return "labeler"
}

// Run applies the request labels.
func (s *Labeler) Run(ctx *pipeline.Context) error {
	labels := []string{ctx.Config.Labels.Request}
	twoPhase := ctx.Config.Policy == config.PolicyTwoPhase
	if twoPhase {
		labels = append(labels, ctx.Config.Labels.Pending)
	}

	issue := ctx.Event.Issue
	if err := s.gh.AddLabels(ctx.Ctx, ctx.Event.Owner, ctx.Event.Repo, issue.Number, labels); err != nil {
		return fmt.Errorf("failed to label request: %w", err)
	}
	ctx.Result.LabelsAdded = append(ctx.Result.LabelsAdded, labels...)

	if twoPhase {
		ctx.Result.Outcome = pipeline.OutcomePendingApproval
	}

	log.Printf("[labeler] Added [%s] to #%d", strings.Join(labels, ", "), issue.Number)
	return nil
}
