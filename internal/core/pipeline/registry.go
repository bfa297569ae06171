// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/similigh/membership-bot/internal/core/config"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// Membership is a user's membership in an organization.
type Membership struct {
	Role  string
	State string
}

// PlatformClient is the slice of the GitHub API the workflow calls.
type PlatformClient interface {
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int, name string) error
	ListLabels(ctx context.Context, owner, repo string, number int) ([]string, error)
	UpdateIssueState(ctx context.Context, owner, repo string, number int, state string) error
	CloseIssue(ctx context.Context, owner, repo string, number int) error
	GetOrgMembership(ctx context.Context, org, username string) (*Membership, error)
	CreateOrgInvitation(ctx context.Context, org string, inviteeID int64, role string) error
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub PlatformClient
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets maps "<policy>/<event kind>" to the steps run for it.
var Presets = map[string][]string{
	// Two-phase: acknowledge and label, invite on /approve.
	PresetName(config.PolicyTwoPhase, EventIssueOpened): {
		"gatekeeper",
		"application_parser",
		"acknowledger",
		"labeler",
	},
	PresetName(config.PolicyTwoPhase, EventCommentCreated): {
		"gatekeeper",
		"command_handler",
		"authorizer",
		"approver",
	},

	// Immediate: invite as soon as the request validates.
	PresetName(config.PolicyImmediate, EventIssueOpened): {
		"gatekeeper",
		"application_parser",
		"labeler",
		"inviter",
	},
	PresetName(config.PolicyImmediate, EventCommentCreated): {},
}

// PresetName builds the preset key for a policy and event kind.
func PresetName(policy config.Policy, kind EventKind) string {
	return string(policy) + "/" + string(kind)
}

// ResolveSteps returns the steps for a policy and event kind. An empty slice
// with ok=true means the event is handled by doing nothing.
func ResolveSteps(policy config.Policy, kind EventKind) ([]string, bool) {
	steps, ok := Presets[PresetName(policy, kind)]
	return steps, ok
}
