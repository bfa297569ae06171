// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/core/pipeline/pipelinetest"
	"github.com/similigh/membership-bot/internal/membership"
)

const validBody = "GitHub username: alice\nWhy I want to join: love the project\nWhat I can contribute: docs"

func openedEvent(title, body string) *pipeline.Event {
	return &pipeline.Event{
		Name:   "issues",
		Action: "opened",
		Kind:   pipeline.EventIssueOpened,
		Owner:  "acme",
		Repo:   "community",
		Issue: pipeline.Issue{
			Number: 42,
			Title:  title,
			Body:   body,
			Author: pipeline.User{Login: "alice", ID: 1001},
		},
	}
}

func commentEvent(commenter, body string, labels ...string) *pipeline.Event {
	ev := openedEvent(config.DefaultRequestTitle, validBody)
	ev.Name, ev.Action, ev.Kind = "issue_comment", "created", pipeline.EventCommentCreated
	ev.Issue.Labels = labels
	ev.Comment = &pipeline.Comment{ID: 9, Body: body, Author: pipeline.User{Login: commenter, ID: 5}}
	return ev
}

func newContext(ev *pipeline.Event, policy config.Policy) *pipeline.Context {
	cfg := config.Default()
	cfg.Policy = policy
	return pipeline.NewContext(context.Background(), ev, cfg, "acme")
}

func TestGatekeeper(t *testing.T) {
	tests := []struct {
		name     string
		event    *pipeline.Event
		botUsers []string
		skip     bool
	}{
		{"membership request", openedEvent(config.DefaultRequestTitle, validBody), nil, false},
		{"other title", openedEvent("Bug: it broke", validBody), nil, true},
		{"title differs in case", openedEvent("request to join organization", validBody), nil, true},
		{"title with trailing text", openedEvent("Request to join organization please", validBody), nil, true},
		{"comment by owner", commentEvent("owner", "/approve"), nil, false},
		{"comment by app bot", commentEvent("github-actions[bot]", "/approve"), nil, true},
		{"comment by configured bot", commentEvent("Release-Bot", "/approve"), []string{"release-bot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(tt.event, config.PolicyTwoPhase)
			ctx.Config.BotUsers = tt.botUsers

			err := NewGatekeeper(&pipeline.Dependencies{}).Run(ctx)
			if tt.skip {
				assert.ErrorIs(t, err, pipeline.ErrSkipPipeline)
				assert.True(t, ctx.Result.Skipped)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	retitled := commentEvent("owner", "/approve", "membership-request", "pending-approval")
	retitled.Issue.Title = "Request to join: alice"
	ctx := newContext(retitled, config.PolicyTwoPhase)
	assert.NoError(t, NewGatekeeper(nil).Run(ctx), "retitled request keeps its label")

	unlabeled := commentEvent("owner", "/approve")
	unlabeled.Issue.Title = "Request to join: alice"
	ctx = newContext(unlabeled, config.PolicyTwoPhase)
	assert.ErrorIs(t, NewGatekeeper(nil).Run(ctx), pipeline.ErrSkipPipeline)

	labeledIssue := openedEvent("Bug: it broke", validBody)
	labeledIssue.Issue.Labels = []string{"membership-request"}
	ctx = newContext(labeledIssue, config.PolicyTwoPhase)
	assert.ErrorIs(t, NewGatekeeper(nil).Run(ctx), pipeline.ErrSkipPipeline, "label alone does not admit new issues")

	pr := openedEvent(config.DefaultRequestTitle, validBody)
	pr.Issue.IsPullRequest = true
	ctx = newContext(pr, config.PolicyTwoPhase)
	assert.ErrorIs(t, NewGatekeeper(nil).Run(ctx), pipeline.ErrSkipPipeline)
}

func TestApplicationParserValid(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), config.PolicyTwoPhase)

	require.NoError(t, NewApplicationParser(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	require.NotNil(t, ctx.Application)
	assert.Equal(t, membership.Application{
		RequestedUsername: "alice",
		WhyJoin:           "love the project",
		Contribution:      "docs",
	}, *ctx.Application)
	assert.Equal(t, ctx.Application, ctx.Result.Application)
	assert.Empty(t, fake.Calls)
}

func TestApplicationParserMissingFields(t *testing.T) {
	bodies := map[string]string{
		"no username":     "Why I want to join: love the project\nWhat I can contribute: docs",
		"no why":          "GitHub username: alice\nWhat I can contribute: docs",
		"no contribution": "GitHub username: alice\nWhy I want to join: love the project",
		"empty":           "",
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			fake := pipelinetest.NewFakeClient()
			ctx := newContext(openedEvent(config.DefaultRequestTitle, body), config.PolicyTwoPhase)

			err := NewApplicationParser(&pipeline.Dependencies{GitHub: fake}).Run(ctx)
			require.ErrorIs(t, err, pipeline.ErrSkipPipeline)

			assert.Equal(t, []string{"CreateComment"}, fake.Methods())
			comment := fake.Comments()[0]
			assert.Contains(t, comment, "@alice")
			for _, field := range membership.RequiredFields {
				assert.Contains(t, comment, field)
			}
			assert.Equal(t, pipeline.OutcomeAwaitingResubmission, ctx.Result.Outcome)
			assert.Nil(t, ctx.Application)
		})
	}
}

func TestApplicationParserCommentFailure(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	fake.Errors["CreateComment"] = errors.New("502 Bad Gateway")
	ctx := newContext(openedEvent(config.DefaultRequestTitle, ""), config.PolicyTwoPhase)

	err := NewApplicationParser(&pipeline.Dependencies{GitHub: fake}).Run(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pipeline.ErrSkipPipeline)
}

func TestAcknowledger(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), config.PolicyTwoPhase)
	ctx.Application = &membership.Application{RequestedUsername: "alice", WhyJoin: "love the project", Contribution: "docs"}

	require.NoError(t, NewAcknowledger(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	comments := fake.Comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "@alice Thank you for your application!")
	assert.Contains(t, comments[0], "- GitHub Username: alice")
	assert.Contains(t, comments[0], "- Motivation: love the project")
	assert.Contains(t, comments[0], "- Contribution: docs")
}

func TestLabeler(t *testing.T) {
	tests := []struct {
		policy  config.Policy
		labels  []string
		outcome pipeline.Outcome
	}{
		{config.PolicyTwoPhase, []string{"membership-request", "pending-approval"}, pipeline.OutcomePendingApproval},
		{config.PolicyImmediate, []string{"membership-request"}, pipeline.OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			fake := pipelinetest.NewFakeClient()
			ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), tt.policy)

			require.NoError(t, NewLabeler(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

			calls := fake.CallsTo("AddLabels")
			require.Len(t, calls, 1)
			assert.Equal(t, tt.labels, calls[0].Labels)
			assert.Equal(t, tt.outcome, ctx.Result.Outcome)
		})
	}
}

func TestInviterSuccess(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), config.PolicyImmediate)

	require.NoError(t, NewInviter(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	assert.Equal(t, []string{"CreateOrgInvitation", "AddLabels", "CreateComment", "CloseIssue"}, fake.Methods())
	invite := fake.CallsTo("CreateOrgInvitation")[0]
	assert.Equal(t, "acme", invite.Org)
	assert.Equal(t, int64(1001), invite.ID)
	assert.Equal(t, []string{"approved"}, fake.CallsTo("AddLabels")[0].Labels)
	assert.Contains(t, fake.Comments()[0], membership.InvitationURL("acme"))
	assert.True(t, ctx.Result.Invited)
	assert.True(t, ctx.Result.Closed)
	assert.Equal(t, pipeline.OutcomeApproved, ctx.Result.Outcome)
}

func TestInviterFailure(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	fake.Errors["CreateOrgInvitation"] = errors.New("422 Validation Failed")
	ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), config.PolicyImmediate)

	require.NoError(t, NewInviter(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	assert.Equal(t, []string{"CreateOrgInvitation", "CreateComment"}, fake.Methods())
	assert.Contains(t, fake.Comments()[0], "try again later or contact an administrator")
	assert.NotContains(t, fake.Comments()[0], "422")
	assert.False(t, ctx.Result.Closed)
	assert.Equal(t, pipeline.OutcomeInvitationFailed, ctx.Result.Outcome)
}

func TestInviterRequiresOrg(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	ctx := newContext(openedEvent(config.DefaultRequestTitle, validBody), config.PolicyImmediate)
	ctx.Org = ""

	require.Error(t, NewInviter(&pipeline.Dependencies{GitHub: fake}).Run(ctx))
	assert.Empty(t, fake.Calls)
}

func TestCommandHandler(t *testing.T) {
	tests := []struct {
		body string
		pass bool
	}{
		{"/approve", true},
		{"/approve ", true},
		{"  /approve\n", true},
		{"/approved", false},
		{"LGTM /approve", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			ctx := newContext(commentEvent("owner", tt.body), config.PolicyTwoPhase)
			err := NewCommandHandler(&pipeline.Dependencies{}).Run(ctx)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, pipeline.ErrSkipPipeline)
			}
		})
	}
}

func TestAuthorizer(t *testing.T) {
	tests := []struct {
		name       string
		membership *pipeline.Membership
		lookupErr  error
		allowed    bool
	}{
		{"active admin", &pipeline.Membership{Role: "admin", State: "active"}, nil, true},
		{"member", &pipeline.Membership{Role: "member", State: "active"}, nil, false},
		{"pending admin", &pipeline.Membership{Role: "admin", State: "pending"}, nil, false},
		{"not a member", nil, nil, false},
		{"lookup error", nil, errors.New("500 Internal Server Error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := pipelinetest.NewFakeClient()
			if tt.membership != nil {
				fake.Memberships["owner"] = tt.membership
			}
			if tt.lookupErr != nil {
				fake.Errors["GetOrgMembership"] = tt.lookupErr
			}
			ctx := newContext(commentEvent("owner", "/approve"), config.PolicyTwoPhase)

			err := NewAuthorizer(&pipeline.Dependencies{GitHub: fake}).Run(ctx)

			lookup := fake.CallsTo("GetOrgMembership")
			require.Len(t, lookup, 1)
			assert.Equal(t, "acme", lookup[0].Org)
			assert.Equal(t, "owner", lookup[0].User)

			if tt.allowed {
				assert.NoError(t, err)
				assert.Empty(t, fake.Comments())
				return
			}
			assert.ErrorIs(t, err, pipeline.ErrSkipPipeline)
			require.Len(t, fake.Comments(), 1)
			assert.Equal(t, membership.DeniedComment("owner"), fake.Comments()[0])
			assert.Equal(t, pipeline.OutcomeDenied, ctx.Result.Outcome)
		})
	}
}

func TestApproverSuccess(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	fake.Labels = []string{"membership-request", "pending-approval"}
	ctx := newContext(commentEvent("owner", "/approve", "membership-request", "pending-approval"), config.PolicyTwoPhase)

	require.NoError(t, NewApprover(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	assert.Equal(t, []string{"ListLabels", "CreateOrgInvitation", "RemoveLabel", "AddLabels", "CreateComment"}, fake.Methods())
	assert.Equal(t, int64(1001), fake.CallsTo("CreateOrgInvitation")[0].ID)
	assert.Equal(t, []string{"pending-approval"}, fake.CallsTo("RemoveLabel")[0].Labels)
	assert.Equal(t, []string{"approved"}, fake.CallsTo("AddLabels")[0].Labels)
	comments := fake.Comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "@alice ")
	assert.NotContains(t, comments[0], "@owner")
	assert.Equal(t, pipeline.OutcomeApproved, ctx.Result.Outcome)
}

func TestApproverInvitationFailure(t *testing.T) {
	fake := pipelinetest.NewFakeClient()
	fake.Errors["CreateOrgInvitation"] = errors.New("422 already invited")
	ctx := newContext(commentEvent("owner", "/approve"), config.PolicyTwoPhase)

	require.NoError(t, NewApprover(&pipeline.Dependencies{GitHub: fake}).Run(ctx))

	assert.Equal(t, []string{"ListLabels", "CreateOrgInvitation", "CreateComment"}, fake.Methods())
	assert.Equal(t, membership.InvitationFailedComment("alice"), fake.Comments()[0])
	assert.Equal(t, pipeline.OutcomeInvitationFailed, ctx.Result.Outcome)
}

func TestApproverAlreadyApproved(t *testing.T) {
	t.Run("payload label", func(t *testing.T) {
		fake := pipelinetest.NewFakeClient()
		ctx := newContext(commentEvent("owner", "/approve", "membership-request", "approved"), config.PolicyTwoPhase)

		err := NewApprover(&pipeline.Dependencies{GitHub: fake}).Run(ctx)
		assert.ErrorIs(t, err, pipeline.ErrSkipPipeline)
		assert.Empty(t, fake.Calls)
		assert.Equal(t, pipeline.OutcomeAlreadyApproved, ctx.Result.Outcome)
	})

	t.Run("approved by a concurrent run", func(t *testing.T) {
		fake := pipelinetest.NewFakeClient()
		fake.Labels = []string{"membership-request", "approved"}
		ctx := newContext(commentEvent("owner", "/approve", "membership-request", "pending-approval"), config.PolicyTwoPhase)

		err := NewApprover(&pipeline.Dependencies{GitHub: fake}).Run(ctx)
		assert.ErrorIs(t, err, pipeline.ErrSkipPipeline)
		assert.Equal(t, []string{"ListLabels"}, fake.Methods())
	})

	t.Run("label lookup fails", func(t *testing.T) {
		fake := pipelinetest.NewFakeClient()
		fake.Errors["ListLabels"] = errors.New("timeout")
		ctx := newContext(commentEvent("owner", "/approve"), config.PolicyTwoPhase)

		err := NewApprover(&pipeline.Dependencies{GitHub: fake}).Run(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, pipeline.ErrSkipPipeline)
		assert.Empty(t, fake.CallsTo("CreateOrgInvitation"))
	})
}

func TestRegisterAllRequiresGitHub(t *testing.T) {
	r := pipeline.NewRegistry()
	RegisterAll(r)

	_, err := r.BuildFromNames([]string{"gatekeeper", "command_handler"}, &pipeline.Dependencies{})
	assert.NoError(t, err)

	for _, name := range []string{"application_parser", "acknowledger", "labeler", "inviter", "authorizer", "approver"} {
		_, err := r.BuildFromNames([]string{name}, &pipeline.Dependencies{})
		assert.Error(t, err, name)
	}
}
