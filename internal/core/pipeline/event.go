// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	githubapi "github.com/google/go-github/v60/github"
)

// EventKind identifies which handler an event is dispatched to.
type EventKind string

const (
	EventIssueOpened    EventKind = "issue-opened"
	EventCommentCreated EventKind = "comment-created"
)

// ErrUnsupportedEvent is returned for event types the workflow does not handle.
var ErrUnsupportedEvent = errors.New("unsupported event")

// PayloadError reports a required field missing from an event payload.
type PayloadError struct {
	Field string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid event payload: missing %s", e.Field)
}

// User is a GitHub account.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Issue is the issue an event refers to.
type Issue struct {
	Number        int      `json:"number"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	Author        User     `json:"author"`
	Labels        []string `json:"labels,omitempty"`
	State         string   `json:"state"`
	URL           string   `json:"url"`
	IsPullRequest bool     `json:"is_pull_request"`
}

// HasLabel reports whether the issue carried the label when the event fired.
func (i *Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// Comment is an issue comment.
type Comment struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	Author User   `json:"author"`
}

// Event is a triggering event decoded from the runner payload.
type Event struct {
	// Name is the GitHub event name (e.g. "issues").
	Name string `json:"name"`

	// Action is the payload action (e.g. "opened").
	Action string `json:"action"`

	// Kind is empty for actions the workflow does not react to.
	Kind EventKind `json:"kind,omitempty"`

	// Owner and Repo locate the repository the issue lives in.
	Owner string `json:"owner"`
	Repo  string `json:"repo"`

	Issue   Issue    `json:"issue"`
	Comment *Comment `json:"comment,omitempty"`
}

// DecodeEvent decodes a webhook payload into an Event. Required fields are
// checked here so later steps never see a half-populated event.
func DecodeEvent(name string, payload []byte) (*Event, error) {
	switch name {
	case "issues", "issue_comment":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, name)
	}

	parsed, err := githubapi.ParseWebHook(name, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", name, err)
	}

	switch e := parsed.(type) {
	case *githubapi.IssuesEvent:
		event := &Event{Name: name, Action: e.GetAction()}
		if event.Action == "opened" {
			event.Kind = EventIssueOpened
		}
		if err := event.fill(e.Issue, e.Repo); err != nil {
			return nil, err
		}
		return event, nil

	case *githubapi.IssueCommentEvent:
		event := &Event{Name: name, Action: e.GetAction()}
		if event.Action == "created" {
			event.Kind = EventCommentCreated
		}
		if err := event.fill(e.Issue, e.Repo); err != nil {
			return nil, err
		}
		c := e.GetComment()
		if c == nil {
			return nil, &PayloadError{Field: "comment"}
		}
		if c.GetUser().GetLogin() == "" {
			return nil, &PayloadError{Field: "comment.user.login"}
		}
		event.Comment = &Comment{
			ID:     c.GetID(),
			Body:   c.GetBody(),
			Author: User{Login: c.GetUser().GetLogin(), ID: c.GetUser().GetID()},
		}
		return event, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, name)
}

func (e *Event) fill(issue *githubapi.Issue, repo *githubapi.Repository) error {
	if issue == nil {
		return &PayloadError{Field: "issue"}
	}
	if issue.GetNumber() == 0 {
		return &PayloadError{Field: "issue.number"}
	}
	author := issue.GetUser()
	if author.GetLogin() == "" {
		return &PayloadError{Field: "issue.user.login"}
	}
	if author.GetID() == 0 {
		return &PayloadError{Field: "issue.user.id"}
	}

	e.Issue = Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		Author:        User{Login: author.GetLogin(), ID: author.GetID()},
		State:         issue.GetState(),
		URL:           issue.GetHTMLURL(),
		IsPullRequest: issue.IsPullRequest(),
	}
	for _, l := range issue.Labels {
		e.Issue.Labels = append(e.Issue.Labels, l.GetName())
	}

	if repo != nil {
		e.Owner = repo.GetOwner().GetLogin()
		e.Repo = repo.GetName()
	}
	return nil
}

// SetRepository fills the repository coordinates from an "owner/name" string
// when the payload did not carry them.
func (e *Event) SetRepository(fullName string) error {
	if e.Owner != "" && e.Repo != "" {
		return nil
	}
	parts := strings.SplitN(strings.TrimSpace(fullName), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return &PayloadError{Field: "repository"}
	}
	e.Owner, e.Repo = parts[0], parts[1]
	return nil
}
