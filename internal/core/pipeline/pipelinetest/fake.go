// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package pipelinetest provides a recording PlatformClient for tests.
package pipelinetest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// Call is one recorded platform call.
type Call struct {
	Method string
	Number int
	Body   string
	Labels []string
	Org    string
	User   string
	ID     int64
}

// FakeClient records every call and answers from its fields.
type FakeClient struct {
	mu    sync.Mutex
	Calls []Call

	// Memberships maps login to membership; missing logins fail the lookup.
	Memberships map[string]*pipeline.Membership

	// Labels is returned by ListLabels.
	Labels []string

	// Errors fails the named method with the given error.
	Errors map[string]error
}

var _ pipeline.PlatformClient = (*FakeClient)(nil)

// NewFakeClient returns an empty FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Memberships: make(map[string]*pipeline.Membership),
		Errors:      make(map[string]error),
	}
}

func (f *FakeClient) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
	return f.Errors[c.Method]
}

// Methods returns the recorded method names in call order.
func (f *FakeClient) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Method
	}
	return out
}

// CallsTo returns the recorded calls to one method.
func (f *FakeClient) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Comments returns the bodies of the posted comments.
func (f *FakeClient) Comments() []string {
	var out []string
	for _, c := range f.CallsTo("CreateComment") {
		out = append(out, c.Body)
	}
	return out
}

func (f *FakeClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	return f.record(Call{Method: "CreateComment", Number: number, Body: body})
}

func (f *FakeClient) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	return f.record(Call{Method: "AddLabels", Number: number, Labels: labels})
}

func (f *FakeClient) RemoveLabel(ctx context.Context, owner, repo string, number int, name string) error {
	return f.record(Call{Method: "RemoveLabel", Number: number, Labels: []string{name}})
}

func (f *FakeClient) ListLabels(ctx context.Context, owner, repo string, number int) ([]string, error) {
	if err := f.record(Call{Method: "ListLabels", Number: number}); err != nil {
		return nil, err
	}
	return f.Labels, nil
}

func (f *FakeClient) UpdateIssueState(ctx context.Context, owner, repo string, number int, state string) error {
	return f.record(Call{Method: "UpdateIssueState", Number: number, Body: state})
}

func (f *FakeClient) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	return f.record(Call{Method: "CloseIssue", Number: number})
}

func (f *FakeClient) GetOrgMembership(ctx context.Context, org, username string) (*pipeline.Membership, error) {
	if err := f.record(Call{Method: "GetOrgMembership", Org: org, User: username}); err != nil {
		return nil, err
	}
	m, ok := f.Memberships[strings.ToLower(username)]
	if !ok {
		return nil, fmt.Errorf("404 Not Found: %s is not a member of %s", username, org)
	}
	return m, nil
}

func (f *FakeClient) CreateOrgInvitation(ctx context.Context, org string, inviteeID int64, role string) error {
	return f.record(Call{Method: "CreateOrgInvitation", Org: org, ID: inviteeID, Body: role})
}
