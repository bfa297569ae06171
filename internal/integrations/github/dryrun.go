// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package github

import (
	"context"
	"log"
	"strings"

	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// DryRunClient performs reads against GitHub and only logs writes.
type DryRunClient struct {
	*Client
}

var _ pipeline.PlatformClient = (*DryRunClient)(nil)

// NewDryRunClient wraps c so no write reaches GitHub.
func NewDryRunClient(c *Client) *DryRunClient {
	return &DryRunClient{Client: c}
}

// CreateComment logs the comment instead of posting it.
func (d *DryRunClient) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	log.Printf("[github] DRY RUN: Would comment on %s/%s#%d:\n%s", org, repo, number, body)
	return nil
}

// AddLabels logs the labels instead of adding them.
func (d *DryRunClient) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	log.Printf("[github] DRY RUN: Would add labels [%s] to %s/%s#%d", strings.Join(labels, ", "), org, repo, number)
	return nil
}

// RemoveLabel logs the label instead of removing it.
func (d *DryRunClient) RemoveLabel(ctx context.Context, org, repo string, number int, name string) error {
	log.Printf("[github] DRY RUN: Would remove label %q from %s/%s#%d", name, org, repo, number)
	return nil
}

// UpdateIssueState logs the state change instead of applying it.
func (d *DryRunClient) UpdateIssueState(ctx context.Context, org, repo string, number int, state string) error {
	log.Printf("[github] DRY RUN: Would set %s/%s#%d state to %s", org, repo, number, state)
	return nil
}

// CloseIssue logs the close instead of performing it.
func (d *DryRunClient) CloseIssue(ctx context.Context, org, repo string, number int) error {
	return d.UpdateIssueState(ctx, org, repo, number, "closed")
}

// CreateOrgInvitation logs the invitation instead of sending it.
func (d *DryRunClient) CreateOrgInvitation(ctx context.Context, org string, inviteeID int64, role string) error {
	log.Printf("[github] DRY RUN: Would invite user %d to %s as %s", inviteeID, org, role)
	return nil
}
