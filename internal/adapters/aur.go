package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
)

// DefaultAURRPCURL is the AUR RPC v5 info endpoint.
const DefaultAURRPCURL = "https://aur.archlinux.org/rpc/"

const defaultHTTPTimeout = 10 * time.Second
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 200 * time.Millisecond
const maxHTTPRetryDelay = 2 * time.Second

// AURAdapter resolves package metadata through the AUR RPC interface
// and clones package repositories with git.
type AURAdapter struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewAURAdapter() AURAdapter {
	return AURAdapter{
		BaseURL:    DefaultAURRPCURL,
		Timeout:    defaultHTTPTimeout,
		Retries:    defaultHTTPRetries,
		RetryDelay: defaultHTTPRetryDelay,
	}
}

type aurInfoResponse struct {
	ResultCount int `json:"resultcount"`
	Results     []struct {
		Name    string `json:"Name"`
		Version string `json:"Version"`
	} `json:"results"`
}

func (a AURAdapter) Info(ctx context.Context, name string) (ports.UpstreamInfo, error) {
	if strings.TrimSpace(name) == "" {
		return ports.UpstreamInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is empty")
	}
	query := url.Values{}
	query.Set("v", "5")
	query.Set("type", "info")
	query.Add("arg[]", name)
	requestURL := strings.TrimRight(a.BaseURL, "/") + "/?" + query.Encode()

	body, err := a.get(ctx, requestURL)
	if err != nil {
		return ports.UpstreamInfo{}, err
	}
	var parsed aurInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ports.UpstreamInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("AUR RPC response is invalid").
			WithCause(err)
	}
	if parsed.ResultCount == 0 || len(parsed.Results) == 0 {
		return ports.UpstreamInfo{Name: name}, nil
	}
	return ports.UpstreamInfo{
		Name:    parsed.Results[0].Name,
		Version: parsed.Results[0].Version,
		Known:   true,
	}, nil
}

// get fetches a URL with bounded retries and backoff. Transport
// errors are retried; HTTP error statuses are not.
func (a AURAdapter) get(ctx context.Context, requestURL string) ([]byte, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retries := a.Retries
	if retries <= 0 {
		retries = defaultHTTPRetries
	}
	client := &http.Client{Timeout: timeout}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if ctx.Err() != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(ctx.Err())
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < retries-1 {
				time.Sleep(a.retryDelay(attempt))
				continue
			}
			break
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("AUR RPC request failed").
				WithCause(shared.HTTPStatusError(resp.StatusCode, requestURL))
		}
		if readErr != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read AUR RPC response").
				WithCause(readErr)
		}
		return body, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("AUR RPC request failed").
		WithCause(lastErr)
}

func (a AURAdapter) retryDelay(attempt int) time.Duration {
	base := a.RetryDelay
	if base <= 0 {
		base = defaultHTTPRetryDelay
	}
	delay := base << attempt
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	return delay
}

// Clone checks out the package source, replacing a stale checkout so
// every attempt starts from a clean tree.
func (a AURAdapter) Clone(ctx context.Context, source string, destDir string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("clone source is empty")
	}
	if err := os.RemoveAll(destDir); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove stale checkout").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(destDir), 0o750); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create build root").
			WithCause(err)
	}
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", source, destDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("git clone failed for %s", source)).
			WithCause(shared.CommandError(output, err))
	}
	return destDir, nil
}

// CloneURL returns the AUR git URL for a package name.
func CloneURL(name string) string {
	return fmt.Sprintf("https://aur.archlinux.org/%s.git", name)
}

var _ ports.UpstreamPort = AURAdapter{}
