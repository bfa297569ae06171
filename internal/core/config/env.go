// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds the values supplied by the automation runner.
type Env struct {
	PlatformToken string `env:"PLATFORM_TOKEN"`
	GitHubToken   string `env:"GITHUB_TOKEN"`
	OrgName       string `env:"ORG_NAME"`
	EventName     string `env:"GITHUB_EVENT_NAME"`
	EventPath     string `env:"GITHUB_EVENT_PATH"`
	Repository    string `env:"GITHUB_REPOSITORY"`
	ConfigPath    string `env:"MEMBERSHIP_CONFIG"`
	// Not a bool: some runners set CI to values like "drone".
	CI            string `env:"CI"`
	GitHubActions string `env:"GITHUB_ACTIONS"`
}

// ParseEnv loads the runner environment.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

// Token returns PLATFORM_TOKEN, falling back to GITHUB_TOKEN.
func (e *Env) Token() string {
	if e.PlatformToken != "" {
		return e.PlatformToken
	}
	return e.GitHubToken
}

// NonInteractive reports whether the process runs under CI. Any CI value
// other than empty, "false" or "0" counts.
func (e *Env) NonInteractive() bool {
	switch strings.ToLower(strings.TrimSpace(e.CI)) {
	case "", "false", "0":
		return e.InActions()
	}
	return true
}

// InActions reports whether the process runs on a GitHub Actions runner.
func (e *Env) InActions() bool {
	return e.GitHubActions == "true"
}
