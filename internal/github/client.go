// Package github implements the small slice of the GitHub REST v3 API the
// keeper needs: listing repositories, workflows and workflow runs, enabling
// workflows and deleting runs. All listing calls follow Link-header
// pagination at the maximum page size of 100.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ghkeep/ghkeep/internal/config"
)

// Client is a rate-limited GitHub API client. It is safe for concurrent
// use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client authenticating with the given token.
func NewClient(cfg config.GitHubConfig, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:     log,
	}
}

// apiError is the JSON error body GitHub returns for failed requests.
type apiError struct {
	Message string `json:"message"`
}

// ListRepositories fetches the names of all repositories owned by owner.
func (c *Client) ListRepositories(ctx context.Context, owner string) ([]string, error) {
	var repositories []string
	url := fmt.Sprintf("%s/users/%s/repos?per_page=100", c.baseURL, owner)

	for url != "" {
		var page []struct {
			Name string `json:"name"`
		}
		next, err := c.getPage(ctx, url, &page)
		if err != nil {
			return nil, fmt.Errorf("reading repositories for user %s: %w", owner, err)
		}
		for _, repo := range page {
			repositories = append(repositories, repo.Name)
		}
		url = next
	}

	c.logger.Info("repositories listed",
		zap.String("owner", owner),
		zap.Int("count", len(repositories)),
	)
	return repositories, nil
}

// ListWorkflows fetches the workflow file basenames of a repository.
func (c *Client) ListWorkflows(ctx context.Context, owner, repository string) ([]string, error) {
	var workflows []string
	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows?per_page=100", c.baseURL, owner, repository)

	for url != "" {
		var page struct {
			Workflows []struct {
				Path string `json:"path"`
			} `json:"workflows"`
		}
		next, err := c.getPage(ctx, url, &page)
		if err != nil {
			return nil, fmt.Errorf("reading workflows for %s/%s: %w", owner, repository, err)
		}
		for _, wf := range page.Workflows {
			workflows = append(workflows, path.Base(wf.Path))
		}
		url = next
	}

	c.logger.Info("workflows listed",
		zap.String("owner", owner),
		zap.String("repository", repository),
		zap.Int("count", len(workflows)),
	)
	return workflows, nil
}

// ListWorkflowRuns fetches all workflow run IDs of a repository.
func (c *Client) ListWorkflowRuns(ctx context.Context, owner, repository string) ([]int64, error) {
	var runIDs []int64
	url := fmt.Sprintf("%s/repos/%s/%s/actions/runs?per_page=100", c.baseURL, owner, repository)

	for url != "" {
		var page struct {
			WorkflowRuns []struct {
				ID int64 `json:"id"`
			} `json:"workflow_runs"`
		}
		next, err := c.getPage(ctx, url, &page)
		if err != nil {
			return nil, fmt.Errorf("reading workflow runs for %s/%s: %w", owner, repository, err)
		}
		for _, run := range page.WorkflowRuns {
			runIDs = append(runIDs, run.ID)
		}
		url = next
	}

	return runIDs, nil
}

// EnableWorkflow enables a workflow by its file name.
func (c *Client) EnableWorkflow(ctx context.Context, owner, repository, workflowFile string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/enable", c.baseURL, owner, repository, workflowFile)

	resp, err := c.do(ctx, http.MethodPut, url)
	if err != nil {
		return fmt.Errorf("enabling %s/%s workflow %s: %w", owner, repository, workflowFile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("enabling %s/%s workflow %s: %s", owner, repository, workflowFile, decodeAPIError(resp))
	}
	return nil
}

// DeleteWorkflowRun deletes a single workflow run.
func (c *Client) DeleteWorkflowRun(ctx context.Context, owner, repository string, runID int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/runs/%d", c.baseURL, owner, repository, runID)

	resp, err := c.do(ctx, http.MethodDelete, url)
	if err != nil {
		return fmt.Errorf("deleting run %d in %s/%s: %w", runID, owner, repository, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode >= 300 {
		return fmt.Errorf("deleting run %d in %s/%s: %s", runID, owner, repository, decodeAPIError(resp))
	}

	c.logger.Info("workflow run deleted",
		zap.String("repository", repository),
		zap.Int64("run_id", runID),
	)
	return nil
}

// getPage performs a GET, decodes the body into out and returns the URL of
// the next page, if any.
func (c *Client) getPage(ctx context.Context, url string, out any) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s", decodeAPIError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return nextPageURL(resp.Header.Get("Link")), nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	return c.httpClient.Do(req)
}

// decodeAPIError extracts the "message" field GitHub puts in error bodies,
// falling back to the HTTP status.
func decodeAPIError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return resp.Status
}

// nextPageURL parses a Link header and returns the rel="next" target, or ""
// when on the last page.
func nextPageURL(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		url := strings.TrimSpace(section[0])
		url = strings.TrimPrefix(url, "<")
		url = strings.TrimSuffix(url, ">")
		return url
	}
	return ""
}
