// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package config handles loading and merging membership-bot configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy selects how a valid membership request is handled.
type Policy string

const (
	// PolicyTwoPhase defers the invitation to an explicit /approve comment.
	PolicyTwoPhase Policy = "two-phase"

	// PolicyImmediate invites the requester as soon as the request validates.
	PolicyImmediate Policy = "immediate"
)

// DefaultRequestTitle is the issue title that marks a membership request.
const DefaultRequestTitle = "Request to join organization"

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Org is the organization members are invited to. ORG_NAME takes precedence.
	Org string `yaml:"org,omitempty"`

	// Policy is either "two-phase" or "immediate".
	Policy Policy `yaml:"policy,omitempty"`

	// RequestTitle is the exact issue title of a membership request.
	RequestTitle string `yaml:"request_title,omitempty"`

	// ApproveCommand is the comment that approves a pending request.
	ApproveCommand string `yaml:"approve_command,omitempty"`

	// AdminRole is the organization role allowed to approve requests.
	AdminRole string `yaml:"admin_role,omitempty"`

	// InviteRole is the role granted by the invitation.
	InviteRole string `yaml:"invite_role,omitempty"`

	// Labels names the workflow labels.
	Labels LabelsConfig `yaml:"labels"`

	// BotUsers lists additional accounts whose events are ignored.
	BotUsers []string `yaml:"bot_users,omitempty"`
}

// LabelsConfig holds the workflow label names.
type LabelsConfig struct {
	Request  string `yaml:"request"`
	Pending  string `yaml:"pending"`
	Approved string `yaml:"approved"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadWithInheritance loads a config and resolves the 'extends' reference.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	if cfg.Extends != "" {
		parentData, err := fetcher(cfg.Extends)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
		}

		parentCfg, err := parseRaw(parentData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent config: %w", err)
		}

		// Merge: child overrides parent
		cfg = mergeConfigs(parentCfg, cfg)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/membership.yaml",
		".github/membership.yml",
		".membership.yaml",
		".membership.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// Validate reports configuration values the workflow cannot run with.
func (c *Config) Validate() error {
	switch c.Policy {
	case PolicyTwoPhase, PolicyImmediate:
	default:
		return fmt.Errorf("invalid policy %q (expected %q or %q)", c.Policy, PolicyTwoPhase, PolicyImmediate)
	}
	return nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyTwoPhase
	}
	c.Policy = Policy(strings.ToLower(string(c.Policy)))
	if c.RequestTitle == "" {
		c.RequestTitle = DefaultRequestTitle
	}
	if c.ApproveCommand == "" {
		c.ApproveCommand = "/approve"
	}
	if c.AdminRole == "" {
		c.AdminRole = "admin"
	}
	if c.InviteRole == "" {
		c.InviteRole = "direct_member"
	}
	if c.Labels.Request == "" {
		c.Labels.Request = "membership-request"
	}
	if c.Labels.Pending == "" {
		c.Labels.Pending = "pending-approval"
	}
	if c.Labels.Approved == "" {
		c.Labels.Approved = "approved"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	if child.Org != "" {
		result.Org = child.Org
	}
	if child.Policy != "" {
		result.Policy = child.Policy
	}
	if child.RequestTitle != "" {
		result.RequestTitle = child.RequestTitle
	}
	if child.ApproveCommand != "" {
		result.ApproveCommand = child.ApproveCommand
	}
	if child.AdminRole != "" {
		result.AdminRole = child.AdminRole
	}
	if child.InviteRole != "" {
		result.InviteRole = child.InviteRole
	}

	if child.Labels.Request != "" {
		result.Labels.Request = child.Labels.Request
	}
	if child.Labels.Pending != "" {
		result.Labels.Pending = child.Labels.Pending
	}
	if child.Labels.Approved != "" {
		result.Labels.Approved = child.Labels.Approved
	}

	// BotUsers: child completely overrides if non-empty
	if len(child.BotUsers) > 0 {
		result.BotUsers = child.BotUsers
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 || orgRepo[0] == "" || orgRepo[1] == "" {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/membership.yaml"
	}

	return org, repo, branch, path, nil
}
