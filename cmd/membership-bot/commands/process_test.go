// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/integrations/github"
	"github.com/similigh/membership-bot/internal/membership"
)

const openedPayload = `{
  "action": "opened",
  "issue": {
    "number": 12,
    "title": "Request to join organization",
    "body": "GitHub username: alice\nWhy I want to join: love the project\nWhat I can contribute: docs",
    "state": "open",
    "user": {"login": "alice", "id": 314}
  },
  "repository": {"name": "community", "owner": {"login": "acme"}}
}`

func writePayload(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestLoadEventFromRunnerEnv(t *testing.T) {
	runEnv := &config.Env{EventName: "issues", EventPath: writePayload(t, openedPayload)}

	event, err := loadEvent("", "", "", runEnv)
	require.NoError(t, err)

	assert.Equal(t, pipeline.EventIssueOpened, event.Kind)
	assert.Equal(t, "acme", event.Owner)
	assert.Equal(t, "community", event.Repo)
	assert.Equal(t, 12, event.Issue.Number)
	assert.Equal(t, int64(314), event.Issue.Author.ID)
}

func TestLoadEventRepositoryFallback(t *testing.T) {
	payload := strings.Replace(openedPayload, `,
  "repository": {"name": "community", "owner": {"login": "acme"}}`, "", 1)
	path := writePayload(t, payload)

	event, err := loadEvent("issues", path, "", &config.Env{Repository: "acme/membership"})
	require.NoError(t, err)
	assert.Equal(t, "acme", event.Owner)
	assert.Equal(t, "membership", event.Repo)

	_, err = loadEvent("issues", path, "", &config.Env{})
	var payloadErr *pipeline.PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, "repository", payloadErr.Field)
}

func TestLoadEventErrors(t *testing.T) {
	_, err := loadEvent("", "", "", &config.Env{})
	assert.Error(t, err)

	_, err = loadEvent("issues", filepath.Join(t.TempDir(), "missing.json"), "", &config.Env{})
	assert.Error(t, err)

	_, err = loadEvent("pull_request", writePayload(t, openedPayload), "", &config.Env{})
	assert.True(t, errors.Is(err, pipeline.ErrUnsupportedEvent))
}

func TestResolveOrg(t *testing.T) {
	cfg := config.Default()
	cfg.Org = "from-config"

	assert.Equal(t, "from-flag", resolveOrg("from-flag", &config.Env{OrgName: "from-env"}, cfg))
	assert.Equal(t, "from-env", resolveOrg("", &config.Env{OrgName: "from-env"}, cfg))
	assert.Equal(t, "from-config", resolveOrg("", &config.Env{OrgName: "  "}, cfg))
	assert.Empty(t, resolveOrg("", &config.Env{}, config.Default()))
}

func TestApplyPolicy(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyPolicy(cfg, ""))
	assert.Equal(t, config.PolicyTwoPhase, cfg.Policy)

	require.NoError(t, applyPolicy(cfg, "Immediate"))
	assert.Equal(t, config.PolicyImmediate, cfg.Policy)

	assert.Error(t, applyPolicy(cfg, "whenever"))
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigRemoteNeedsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "membership.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extends: acme/.github@main\n"), 0o644))

	_, err := loadConfig(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLATFORM_TOKEN")
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "flag.yaml", configPath("flag.yaml", &config.Env{ConfigPath: "env.yaml"}))
	assert.Equal(t, "env.yaml", configPath("", &config.Env{ConfigPath: "env.yaml"}))
}

func TestNewPlatformClient(t *testing.T) {
	_, err := newPlatformClient(context.Background(), "", false)
	assert.Error(t, err)

	client, err := newPlatformClient(context.Background(), "token", false)
	require.NoError(t, err)
	assert.IsType(t, &github.Client{}, client)

	client, err = newPlatformClient(context.Background(), "token", true)
	require.NoError(t, err)
	assert.IsType(t, &github.DryRunClient{}, client)
}

func TestErrorAnnotation(t *testing.T) {
	err := errors.New("step 'inviter' failed: 100% broken\nsecond line")
	assert.Equal(t, "::error::step 'inviter' failed: 100%25 broken%0Asecond line", errorAnnotation(err))
}

func TestParseBody(t *testing.T) {
	var out bytes.Buffer
	err := parseBody(strings.NewReader("- GitHub username: alice\n- Why I want to join: love the project\n- What I can contribute: docs\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"requested_username": "alice"`)
	assert.Contains(t, out.String(), `"contribution": "docs"`)

	out.Reset()
	err = parseBody(strings.NewReader("GitHub username: alice"), &out)
	var missing *membership.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{membership.FieldWhyJoin, membership.FieldContribution}, missing.Fields)
	assert.Contains(t, out.String(), membership.FieldWhyJoin)
}
