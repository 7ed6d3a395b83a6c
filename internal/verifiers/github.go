package verifiers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// SourceTypeGitHub is the source-type tag for mirrored GitHub issues
// and pull requests.
const SourceTypeGitHub = "github_item"

// GitHubVerifier checks existence of mirrored GitHub items. The batch
// key is an origin id; the origin's remote_ref carries "owner/repo", so
// one client session covers the whole repository batch.
type GitHubVerifier struct {
	client  *github.Client
	origins secondary.OriginRepository
}

// NewGitHubVerifier creates a verifier backed by the GitHub API.
// An empty token yields an unauthenticated client (60 req/hour), which
// is enough for small mirrors.
func NewGitHubVerifier(token string, origins secondary.OriginRepository) *GitHubVerifier {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubVerifier{client: client, origins: origins}
}

// NewGitHubVerifierFromConfig creates a verifier from configuration
// values: an optional auth token and an optional enterprise base URL.
func NewGitHubVerifierFromConfig(token, baseURL string, origins secondary.OriginRepository) (*GitHubVerifier, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set github base URL: %w", err)
		}
	}
	return &GitHubVerifier{client: client, origins: origins}, nil
}

// NewGitHubVerifierWithClient creates a verifier with a custom HTTP
// client and base URL. This is primarily used for testing with httptest
// servers and for enterprise installs.
func NewGitHubVerifierWithClient(httpClient *http.Client, baseURL string, origins secondary.OriginRepository) (*GitHubVerifier, error) {
	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set github base URL: %w", err)
		}
	}
	return &GitHubVerifier{client: client, origins: origins}, nil
}

// SourceType implements secondary.Verifier.
func (v *GitHubVerifier) SourceType() string {
	return SourceTypeGitHub
}

// Verify checks each record's issue number against the owning
// repository. A 404 on the issue (or on the repository itself) is a
// confirmed absence; rate limits and other API failures are per-item
// errors that never count toward deletion.
func (v *GitHubVerifier) Verify(ctx context.Context, batchKey string, records []*secondary.RecordRow) ([]secondary.VerificationResult, error) {
	origin, err := v.origins.GetByID(ctx, batchKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve origin %s: %w", batchKey, err)
	}

	owner, repo, err := splitRepoRef(origin.RemoteRef)
	if err != nil {
		return nil, err
	}

	// Repository gone or inaccessible means every item in it is gone.
	// Probe once instead of burning one API call per record.
	_, resp, err := v.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			results := make([]secondary.VerificationResult, len(records))
			for i, r := range records {
				results[i] = secondary.VerificationResult{RecordID: r.ID, Exists: false}
			}
			return results, nil
		}
		return nil, fmt.Errorf("failed to check repository %s/%s: %w", owner, repo, err)
	}

	results := make([]secondary.VerificationResult, len(records))
	for i, r := range records {
		results[i] = v.verifyItem(ctx, owner, repo, r)
	}
	return results, nil
}

func (v *GitHubVerifier) verifyItem(ctx context.Context, owner, repo string, record *secondary.RecordRow) secondary.VerificationResult {
	number, err := strconv.Atoi(record.RemoteUID)
	if err != nil {
		return secondary.VerificationResult{
			RecordID: record.ID,
			Err:      fmt.Sprintf("malformed issue number %q", record.RemoteUID),
		}
	}

	_, resp, err := v.client.Issues.Get(ctx, owner, repo, number)
	if err == nil {
		return secondary.VerificationResult{RecordID: record.ID, Exists: true}
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return secondary.VerificationResult{RecordID: record.ID, Exists: false}
	}
	// Rate limits are transient; surface them as check errors so the
	// failure counter stays untouched.
	return secondary.VerificationResult{RecordID: record.ID, Err: err.Error()}
}

func splitRepoRef(ref string) (owner, repo string, err error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed repository ref %q, want owner/repo", ref)
	}
	return parts[0], parts[1], nil
}

// Ensure GitHubVerifier implements the interface
var _ secondary.Verifier = (*GitHubVerifier)(nil)
