package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/bitwarden/sdk-go"
)

const (
	bwsMaxLoginAttempts  = 5
	bwsInitialLoginDelay = 500 * time.Millisecond
)

// SecretSource resolves named secrets for a project ("estate-service-dev",
// "shared-dev", ...).
type SecretSource interface {
	GetSecrets(project string) (map[string]string, error)
	Close()
}

// NewSecretSource returns a Bitwarden-backed source when BWS_ACCESS_TOKEN is
// set, and an environment-variable source otherwise (local runs, CI).
func NewSecretSource() (SecretSource, error) {
	if strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN")) == "" {
		Logger.Warn("BWS_ACCESS_TOKEN not set; reading secrets from environment")
		return envSecretSource{}, nil
	}
	return NewBWSSecretsClient()
}

// ---------------------------------------------------------------------------
// Bitwarden Secrets Manager
// ---------------------------------------------------------------------------

type BWSSecretsClient struct {
	bw    sdk.BitwardenClientInterface
	orgID string
}

// NewBWSSecretsClient logs in with the access token from the environment.
// Login is retried with exponential backoff on HTTP 429 only.
func NewBWSSecretsClient() (*BWSSecretsClient, error) {
	accessToken := os.Getenv("BWS_ACCESS_TOKEN")
	orgID := os.Getenv("BWS_ORGANIZATION_ID")
	if orgID == "" {
		return nil, errors.New("BWS_ORGANIZATION_ID env var is missing")
	}

	bw, err := sdk.NewBitwardenClient(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("initialising Bitwarden SDK client: %w", err)
	}

	backoff := bwsInitialLoginDelay
	for attempt := 1; attempt <= bwsMaxLoginAttempts; attempt++ {
		err = bw.AccessTokenLogin(accessToken, nil)
		if err == nil {
			return &BWSSecretsClient{bw: bw, orgID: orgID}, nil
		}
		// sdk-go has no typed status errors.
		if !strings.Contains(err.Error(), "429") && !strings.Contains(err.Error(), "Too Many Requests") {
			bw.Close()
			return nil, fmt.Errorf("bitwarden access-token login failed: %w", err)
		}
		Logger.WithError(err).Warnf("Bitwarden login rate limited (attempt %d/%d)", attempt, bwsMaxLoginAttempts)
		time.Sleep(backoff)
		backoff *= 2
	}
	bw.Close()
	return nil, fmt.Errorf("bitwarden access-token login failed after %d attempts: %w", bwsMaxLoginAttempts, err)
}

func (c *BWSSecretsClient) Close() {
	if c != nil && c.bw != nil {
		c.bw.Close()
	}
}

// GetSecrets returns every key/value secret of the named Bitwarden project.
func (c *BWSSecretsClient) GetSecrets(project string) (map[string]string, error) {
	if strings.TrimSpace(project) == "" {
		return nil, errors.New("project must not be empty")
	}

	projects, err := c.bw.Projects().List(c.orgID)
	if err != nil {
		return nil, fmt.Errorf("listing Bitwarden projects: %w", err)
	}
	var projectID string
	for _, p := range projects.Data {
		if strings.EqualFold(p.Name, project) {
			projectID = p.ID
			break
		}
	}
	if projectID == "" {
		return nil, fmt.Errorf("project %q not found", project)
	}

	synced, err := c.bw.Secrets().Sync(c.orgID, nil)
	if err != nil {
		return nil, fmt.Errorf("syncing Bitwarden secrets: %w", err)
	}

	out := make(map[string]string)
	for _, s := range synced.Secrets {
		if s.ProjectID != nil && *s.ProjectID == projectID {
			out[s.Key] = s.Value
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no secrets found for project %q", project)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Environment fallback
// ---------------------------------------------------------------------------

type envSecretSource struct{}

// GetSecrets ignores the project name; every process env var is visible.
func (envSecretSource) GetSecrets(string) (map[string]string, error) {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out, nil
}

func (envSecretSource) Close() {}
