// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

var _ pipeline.PlatformClient = (*Client)(nil)

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a label from an issue. Removing a label the issue does
// not carry is not an error.
func (c *Client) RemoveLabel(ctx context.Context, org, repo string, number int, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("label name cannot be empty")
	}

	resp, err := c.client.Issues.RemoveLabelForIssue(ctx, org, repo, number, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to remove label %q: %w", name, err)
	}
	return nil
}

// ListLabels returns the names of the labels currently on an issue.
func (c *Client) ListLabels(ctx context.Context, org, repo string, number int) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}

	var names []string
	for {
		labels, resp, err := c.client.Issues.ListLabelsByIssue(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}
		for _, l := range labels {
			names = append(names, l.GetName())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// UpdateIssueState sets an issue's state ("open" or "closed").
func (c *Client) UpdateIssueState(ctx context.Context, org, repo string, number int, state string) error {
	if state != "open" && state != "closed" {
		return fmt.Errorf("invalid issue state %q", state)
	}

	_, _, err := c.client.Issues.Edit(ctx, org, repo, number, &github.IssueRequest{
		State: github.String(state),
	})
	if err != nil {
		return fmt.Errorf("failed to update issue state: %w", err)
	}
	return nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, org, repo string, number int) error {
	return c.UpdateIssueState(ctx, org, repo, number, "closed")
}

// GetOrgMembership looks up a user's membership in an organization.
// GitHub answers 404 for non-members, which is returned as an error.
func (c *Client) GetOrgMembership(ctx context.Context, org, username string) (*pipeline.Membership, error) {
	if org == "" || username == "" {
		return nil, fmt.Errorf("org and username are required")
	}

	m, _, err := c.client.Organizations.GetOrgMembership(ctx, username, org)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership of %s in %s: %w", username, org, err)
	}

	return &pipeline.Membership{
		Role:  m.GetRole(),
		State: m.GetState(),
	}, nil
}

// CreateOrgInvitation invites a user, by account ID, to an organization.
func (c *Client) CreateOrgInvitation(ctx context.Context, org string, inviteeID int64, role string) error {
	if org == "" {
		return fmt.Errorf("org is required")
	}
	if inviteeID <= 0 {
		return fmt.Errorf("invalid invitee id %d", inviteeID)
	}

	opts := &github.CreateOrgInvitationOptions{
		InviteeID: github.Int64(inviteeID),
	}
	if role != "" {
		opts.Role = github.String(role)
	}

	_, _, err := c.client.Organizations.CreateOrgInvitation(ctx, org, opts)
	if err != nil {
		return fmt.Errorf("failed to invite user %d to %s: %w", inviteeID, org, err)
	}
	return nil
}

// GetFileContent fetches a file from a repository at the given ref.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s:%s: %w", org, repo, path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s/%s:%s is not a file", org, repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}
