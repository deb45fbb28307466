package ioremote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/gncat/pkg/blob"
)

// github keeps the record list as a file of a GitHub repository using
// the contents API.
type github struct {
	client *http.Client
	api    string
	owner  string
	repo   string
	branch string
	path   string
	token  string
}

// NewGitHub creates a GitHub contents backend.
func NewGitHub(api, owner, repo, branch, path, token string, timeout time.Duration) blob.Backend {
	return &github{
		client: &http.Client{Timeout: timeout},
		api:    strings.TrimSuffix(api, "/"),
		owner:  owner,
		repo:   repo,
		branch: branch,
		path:   strings.TrimPrefix(path, "/"),
		token:  token,
	}
}

type contentResp struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putReq struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type putResp struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (g *github) Driver() blob.Driver { return blob.DriverGitHub }

func (g *github) HasCredential() bool { return g.token != "" }

func (g *github) repoURL() string {
	return fmt.Sprintf("%s/repos/%s/%s", g.api,
		url.PathEscape(g.owner), url.PathEscape(g.repo))
}

func (g *github) contentsURL() string {
	parts := strings.Split(g.path, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return g.repoURL() + "/contents/" + strings.Join(parts, "/")
}

func (g *github) newRequest(
	ctx context.Context,
	method, u string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "gncat")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Check reads repository metadata.
func (g *github) Check(ctx context.Context) error {
	op := "check repository"
	req, err := g.newRequest(ctx, http.MethodGet, g.repoURL(), nil)
	if err != nil {
		return RequestError(op, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return RequestError(op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return StatusError(op, resp.StatusCode)
	}
	return nil
}

// Get reads the file at the configured branch.
func (g *github) Get(ctx context.Context) (blob.Object, error) {
	op := "read file"
	u := g.contentsURL()
	if g.branch != "" {
		u += "?ref=" + url.QueryEscape(g.branch)
	}
	req, err := g.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return blob.Object{}, RequestError(op, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return blob.Object{}, RequestError(op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return blob.Object{}, blob.ErrNotExist
	default:
		return blob.Object{}, StatusError(op, resp.StatusCode)
	}

	var cr contentResp
	if err = json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return blob.Object{}, DecodeError(op, err)
	}
	content := strings.NewReplacer("\n", "", "\r", "").Replace(cr.Content)
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return blob.Object{}, DecodeError(op, err)
	}
	return blob.Object{Data: data, Version: cr.SHA}, nil
}

// Put commits new content of the file. The version is the file sha.
func (g *github) Put(
	ctx context.Context,
	data []byte,
	opts blob.PutOptions,
) (string, error) {
	op := "write file"
	body, err := json.Marshal(putReq{
		Message: opts.Message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  g.branch,
		SHA:     opts.Version,
	})
	if err != nil {
		return "", RequestError(op, err)
	}

	req, err := g.newRequest(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return "", RequestError(op, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", RequestError(op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, blob.ErrConflict)
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", StatusError(op, resp.StatusCode)
	}

	var pr putResp
	if err = json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", DecodeError(op, err)
	}
	return pr.Content.SHA, nil
}
