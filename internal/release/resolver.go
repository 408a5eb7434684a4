package release

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terminal-use/sb0-install/internal/fault"
	"github.com/terminal-use/sb0-install/internal/transport"
)

// DefaultAPIBase is the GitHub REST API base URL.
const DefaultAPIBase = "https://api.github.com"

// TokenHint is shown with network failures when no token is configured.
// A private repository cannot be told apart from other network failures
// at this layer, so the hint is shown for every unauthenticated failure.
const TokenHint = "if the repository is private, set GITHUB_TOKEN to a token with read access and retry"

// latestRelease is the subset of the release payload the resolver reads.
type latestRelease struct {
	TagName string `json:"tag_name"`
}

// Resolver turns a requested version, or none, into a validated release tag.
type Resolver struct {
	client  transport.Client
	apiBase string
	repo    string
	authed  bool
}

// NewResolver creates a resolver reading releases of repo ("owner/name")
// from apiBase. authed records whether a token is configured.
func NewResolver(client transport.Client, apiBase, repo string, authed bool) *Resolver {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Resolver{
		client:  client,
		apiBase: strings.TrimRight(apiBase, "/"),
		repo:    repo,
		authed:  authed,
	}
}

// LatestURL returns the release-listing endpoint for the latest release.
func (r *Resolver) LatestURL() string {
	return fmt.Sprintf("%s/repos/%s/releases/latest", r.apiBase, r.repo)
}

// Resolve returns the normalized tag for requested. An empty requested
// version resolves the latest release; an explicit one never touches the
// network.
func (r *Resolver) Resolve(ctx context.Context, requested string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		return ParseExplicit(requested)
	}
	return r.Latest(ctx)
}

// Latest fetches and validates the latest release tag.
func (r *Resolver) Latest(ctx context.Context) (string, error) {
	body, err := r.client.Fetch(ctx, r.LatestURL())
	if err != nil {
		return "", r.networkFault("failed to fetch latest release", err)
	}

	var release latestRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", r.networkFault("failed to parse latest release response", err)
	}
	if release.TagName == "" {
		return "", r.networkFault("latest release response has no tag_name", nil)
	}

	tag := strings.TrimSpace(release.TagName)
	if err := Validate(tag); err != nil {
		return "", err
	}
	return tag, nil
}

func (r *Resolver) networkFault(message string, cause error) error {
	f := fault.Wrap(fault.KindNetwork, "resolve version", message, cause)
	if !r.authed {
		f.WithHint(TokenHint)
	}
	return f
}
