package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

const defaultAPIBase = "https://api.github.com"

// Client is a thin wrapper around the GitHub REST v3 API. It provides the
// listing and content operations the summarization core consumes; it does
// no selection or budgeting of its own.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// GetRepoInfo fetches repository metadata plus the commit SHA of the
// default branch, which later tree and contents calls are pinned to.
func (c *Client) GetRepoInfo(ctx context.Context, owner, repo string) (models.RepoInfo, error) {
	var meta struct {
		DefaultBranch string   `json:"default_branch"`
		Description   *string  `json:"description"`
		Language      *string  `json:"language"`
		Topics        []string `json:"topics"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo), &meta); err != nil {
		return models.RepoInfo{}, err
	}

	var branch struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/branches/%s", c.apiBase, owner, repo, meta.DefaultBranch)
	if err := c.getJSON(ctx, url, &branch); err != nil {
		return models.RepoInfo{}, err
	}

	info := models.RepoInfo{
		Owner:         owner,
		Repo:          repo,
		DefaultBranch: meta.DefaultBranch,
		Ref:           branch.Commit.SHA,
		Topics:        meta.Topics,
	}
	if meta.Description != nil {
		info.Description = *meta.Description
	}
	if meta.Language != nil {
		info.Language = *meta.Language
	}
	return info, nil
}

// ListTree fetches the full recursive tree for a ref. GitHub truncates
// trees beyond ~100k entries; the truncated listing is used as-is.
func (c *Client) ListTree(ctx context.Context, owner, repo, ref string) ([]models.RepositoryEntry, error) {
	var tree struct {
		Truncated bool `json:"truncated"`
		Tree      []struct {
			Path string `json:"path"`
			Type string `json:"type"` // "blob" | "tree" | "commit"
			Size int    `json:"size"`
		} `json:"tree"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiBase, owner, repo, ref)
	if err := c.getJSON(ctx, url, &tree); err != nil {
		return nil, err
	}

	entries := make([]models.RepositoryEntry, 0, len(tree.Tree))
	for _, e := range tree.Tree {
		kind := models.KindFile
		if e.Type == "tree" {
			kind = models.KindDirectory
		} else if e.Type != "blob" {
			continue // submodule commits carry no content
		}
		entries = append(entries, models.RepositoryEntry{
			Path:      e.Path,
			Kind:      kind,
			SizeBytes: e.Size,
		})
	}
	return entries, nil
}

// FetchFile returns the decoded bytes of one file at a ref. Returns
// ErrNotText for symlinks, submodules, and empty or non-base64 blobs.
func (c *Client) FetchFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	var blob struct {
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.apiBase, owner, repo, path, ref)
	if err := c.getJSON(ctx, url, &blob); err != nil {
		return nil, err
	}
	if blob.Encoding != "base64" || blob.Content == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNotText)
	}
	decoded, err := base64.StdEncoding.DecodeString(blob.Content)
	if err != nil {
		// GitHub wraps base64 content with newlines
		decoded, err = base64.StdEncoding.DecodeString(stripNewlines(blob.Content))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	return decoded, nil
}

// --- internal ---

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contacting GitHub API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, c.token != ""); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}

// checkStatus translates GitHub's status-code conventions into the error
// taxonomy callers route on.
func checkStatus(resp *http.Response, authed bool) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: GitHub returned 401, check GITHUB_TOKEN", ErrForbidden)

	case resp.StatusCode == http.StatusForbidden:
		// 403 is either a rate limit or a permissions failure; the
		// X-RateLimit-Remaining and Retry-After headers disambiguate.
		remaining := resp.Header.Get("X-RateLimit-Remaining")
		retryAfter := resp.Header.Get("Retry-After")
		if remaining == "0" || retryAfter != "" {
			rle := &RateLimitError{}
			if secs, err := strconv.Atoi(retryAfter); err == nil {
				rle.RetryAfter = time.Duration(secs) * time.Second
			}
			if ts, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
				rle.ResetAt = time.Unix(ts, 0).UTC()
			}
			return rle
		}
		return fmt.Errorf("%w: repository may be private or token may lack 'repo' scope", ErrForbidden)

	case resp.StatusCode == http.StatusNotFound:
		if !authed {
			return fmt.Errorf("%w (if private, set GITHUB_TOKEN with 'repo' scope)", ErrNotFound)
		}
		return ErrNotFound

	case resp.StatusCode == http.StatusUnavailableForLegalReasons:
		return fmt.Errorf("%w: unavailable for legal reasons", ErrNotFound)

	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("GitHub could not process the request (422): the repository may be empty")

	default:
		return fmt.Errorf("unexpected GitHub API status %d", resp.StatusCode)
	}
}

func stripNewlines(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			b = append(b, s[i])
		}
	}
	return string(b)
}
