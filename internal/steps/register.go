// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package steps

import (
	"fmt"

	"github.com/similigh/membership-bot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("command_handler", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewCommandHandler(deps), nil
	})

	r.Register("application_parser", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewApplicationParser(deps)
	}))

	r.Register("acknowledger", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewAcknowledger(deps)
	}))

	r.Register("labeler", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewLabeler(deps)
	}))

	r.Register("inviter", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewInviter(deps)
	}))

	r.Register("authorizer", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewAuthorizer(deps)
	}))

	r.Register("approver", withGitHub(func(deps *pipeline.Dependencies) pipeline.Step {
		return NewApprover(deps)
	}))
}

// withGitHub wraps a factory for a step that cannot run without a client.
func withGitHub(build func(deps *pipeline.Dependencies) pipeline.Step) pipeline.StepFactory {
	return func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		if deps == nil || deps.GitHub == nil {
			return nil, fmt.Errorf("GitHub client required")
		}
		return build(deps), nil
	}
}
