package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Persisted query hashes registered with the catalog's GraphQL gateway. The
// gateway only answers these pre-registered operations.
const (
	opProgramEpisodes   = "getEpisode"
	hashProgramEpisodes = "f3f957a3a577be001eccf93a76cf2ae1b6d10c95e67305c56e4273279115bb93"
	opEpisodeDetails    = "getSerie"
	hashEpisodeDetails  = "afd9cf0c67f1ebed0a981b72ee127a5a152eb90f4adb2b3bd3e6c1ec185a2dd3"
)

// episodeDetailConcurrency bounds the parallel per-episode detail requests
// issued while assembling one program.
const episodeDetailConcurrency = 4

// Client queries the remote catalog service. Construct one per process run.
type Client struct {
	baseURL    string
	referer    string
	origin     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHeaders sets the referer and origin headers the gateway expects.
func WithHeaders(referer, origin string) Option {
	return func(c *Client) {
		c.referer = referer
		c.origin = origin
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a catalog client for the given GraphQL gateway base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchProgram returns the program with its full episode list, including
// each episode's stream manifest location. The episode list endpoint does
// not carry manifest URLs, so every episode requires one follow-up detail
// request; those run concurrently with a small bound.
func (c *Client) FetchProgram(ctx context.Context, programID string) (*Program, error) {
	program, err := c.fetchEpisodeList(ctx, programID)
	if err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(episodeDetailConcurrency)
	for i := range program.Episodes {
		i := i
		group.Go(func() error {
			detail, err := c.fetchEpisodeDetail(groupCtx, programID, program.Episodes[i].ID)
			if err != nil {
				return fmt.Errorf("episode %s: %w", program.Episodes[i].ID, err)
			}
			program.Episodes[i].ManifestURL = detail.ManifestURL
			program.Episodes[i].Subtitles = detail.Subtitles
			if detail.Duration > 0 {
				program.Episodes[i].Duration = detail.Duration
			}
			return nil
		})
	}
	// A failed detail fetch fails the whole program rather than returning
	// a partial episode list. Callers isolate errors per program, so the
	// operator sees the failure and can retry the program intact.
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return program, nil
}

func (c *Client) fetchEpisodeList(ctx context.Context, programID string) (*Program, error) {
	variables := map[string]any{"programID": programIDValue(programID)}
	body, err := c.get(ctx, opProgramEpisodes, variables, hashProgramEpisodes)
	if err != nil {
		return nil, err
	}
	return parseProgram(body, programID)
}

func (c *Client) fetchEpisodeDetail(ctx context.Context, programID, episodeID string) (*Episode, error) {
	variables := map[string]any{
		"programID": programIDValue(programID),
		"episodeID": []string{episodeID},
	}
	body, err := c.get(ctx, opEpisodeDetails, variables, hashEpisodeDetails)
	if err != nil {
		return nil, err
	}
	return parseEpisodeDetail(body, episodeID)
}

func (c *Client) get(ctx context.Context, operation string, variables map[string]any, hash string) ([]byte, error) {
	endpoint, err := c.buildURL(operation, variables, hash)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request %s: unexpected status %s", operation, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}

func (c *Client) buildURL(operation string, variables map[string]any, hash string) (string, error) {
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("encode variables: %w", err)
	}
	extensionsJSON, err := json.Marshal(map[string]any{
		"persistedQuery": map[string]any{
			"version":    1,
			"sha256Hash": hash,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode extensions: %w", err)
	}

	query := url.Values{}
	query.Set("operationName", operation)
	query.Set("variables", string(variablesJSON))
	query.Set("extensions", string(extensionsJSON))
	return c.baseURL + "?" + query.Encode(), nil
}

// programIDValue keeps numeric program ids numeric on the wire; the gateway
// rejects quoted numbers for the programID variable.
func programIDValue(id string) any {
	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
		return n
	}
	return id
}
