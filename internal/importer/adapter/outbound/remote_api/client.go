package remote_api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/gosdk/logger"
)

const (
	// maxErrorBody caps the response body kept on a RemoteStatusError.
	maxErrorBody = 512

	HeaderRequestID = "X-Request-ID"
)

var _ port.RecordStore = (*Client)(nil)

// Client talks to the record API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client rooted at baseURL. A nil httpClient gets a default with timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", payload, nil)
	if err != nil {
		return "", &domain.AuthError{Reason: "login request failed", Err: err}
	}

	token, shape, err := decodeLogin(body)
	if err != nil {
		return "", &domain.AuthError{Reason: "no token in login response", Err: err}
	}
	c.noteShape("login", shape)
	return token, nil
}

func (c *Client) CountRecords(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, &domain.AuthError{Reason: "missing token"}
	}

	body, err := c.do(ctx, "count", http.MethodGet, "/records?page=1&pageSize=1", token, nil, nil)
	if err != nil {
		return 0, err
	}

	total, shape, err := decodeCount(body)
	if err != nil {
		return 0, err
	}
	c.noteShape("count", shape)
	return total, nil
}

func (c *Client) SearchRecords(ctx context.Context, token, name, company string) ([]domain.RemoteRecord, error) {
	if token == "" {
		return nil, &domain.AuthError{Reason: "missing token"}
	}

	query := url.Values{}
	query.Set("q", name)
	query.Set("company", company)

	body, err := c.do(ctx, "search", http.MethodGet, "/records/search?"+query.Encode(), token, nil, nil)
	if err != nil {
		return nil, err
	}

	records, shape, err := decodeSearch(body)
	if err != nil {
		return nil, err
	}
	c.noteShape("search", shape)
	return records, nil
}

func (c *Client) ImportChunk(ctx context.Context, token string, req domain.ImportRequest) (domain.ImportReply, error) {
	if token == "" {
		return domain.ImportReply{}, &domain.AuthError{Reason: "missing token"}
	}

	payload, err := json.Marshal(map[string]string{"data": req.Data, "filename": req.Filename})
	if err != nil {
		return domain.ImportReply{}, err
	}

	var headers map[string]string
	if req.RequestID != "" {
		headers = map[string]string{HeaderRequestID: req.RequestID}
	}

	body, err := c.do(ctx, "import", http.MethodPost, "/records/import", token, payload, headers)
	if err != nil {
		return domain.ImportReply{}, err
	}

	reply, err := decodeImport(body)
	if err != nil {
		// The chunk was accepted; only the hint is lost.
		logger.Warnw("Import accepted with unreadable response body", "filename", req.Filename, "error", err.Error())
		return domain.ImportReply{Success: true}, nil
	}
	return reply, nil
}

// do sends one request and returns the body of a 2xx answer.
// Other statuses come back as *domain.RemoteStatusError.
func (c *Client) do(ctx context.Context, op, method, path, token string, payload []byte, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &domain.RemoteStatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) noteShape(op string, shape Shape) {
	if shape == ShapeLegacy {
		logger.Debugw("Remote answered with legacy response shape", "op", op)
	}
}
