package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/yildizm/DocSum/internal/common"
	"gopkg.in/resty.v1"
)

const (
	// UploadPath is the multipart upload and analyze endpoint
	UploadPath = "/upload-documents/"

	// LogsPath is the log listing endpoint
	LogsPath = "/logs/"

	// FilesField is the multipart field name shared by every uploaded part
	FilesField = "files"

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// Backend is the remote analysis service
type Backend interface {
	Analyze(ctx context.Context, files []common.PendingFile) (*common.AnalysisResult, error)
	ListLogs(ctx context.Context) ([]common.LogEntry, error)
}

// Config configures the HTTP client
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
}

// Client talks to the analysis backend over HTTP
type Client struct {
	baseURL string
	client  *resty.Client
}

// New creates a client for the backend at cfg.BaseURL
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", base)
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// #nosec G402 - opt-in for self-signed development backends
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	cl := http.Client{Transport: tr, Timeout: cfg.Timeout}

	rc := resty.NewWithClient(&cl)
	rc.SetLogger(io.Discard)
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		client:  rc,
	}, nil
}

// BaseURL returns the normalized backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze uploads every file as a "files" part and decodes the combined result
func (c *Client) Analyze(ctx context.Context, files []common.PendingFile) (*common.AnalysisResult, error) {
	if len(files) == 0 {
		return nil, common.ErrNoFiles
	}

	req := c.makeRequest(ctx)

	opened := make([]*os.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, pf := range files {
		// #nosec G304 - the user chose these paths
		f, err := os.Open(pf.Path)
		if err != nil {
			return nil, common.NewErrorWithCause(common.ErrKindValidation, common.OpAnalyze,
				fmt.Sprintf("cannot read file %s", pf.Name), err)
		}
		opened = append(opened, f)
		req.SetFileReader(FilesField, pf.Name, f)
	}

	resp, err := req.Post(c.endpoint(UploadPath))
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrKindTransport, common.OpAnalyze, "upload request failed", err)
	}
	if !isSuccess(resp) {
		return nil, common.NewServerError(common.OpAnalyze, resp.StatusCode(), string(resp.Body()))
	}

	var result common.AnalysisResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.NewErrorWithCause(common.ErrKindMalformed, common.OpAnalyze, "failed to decode analysis result", err)
	}
	return &result, nil
}

// ListLogs fetches the backend's request/response log in backend order
func (c *Client) ListLogs(ctx context.Context) ([]common.LogEntry, error) {
	resp, err := c.makeRequest(ctx).Get(c.endpoint(LogsPath))
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrKindTransport, common.OpFetchLogs, "log request failed", err)
	}
	if !isSuccess(resp) {
		return nil, common.NewServerError(common.OpFetchLogs, resp.StatusCode(), string(resp.Body()))
	}

	var entries []common.LogEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, common.NewErrorWithCause(common.ErrKindMalformed, common.OpFetchLogs, "failed to decode log entries", err)
	}
	if entries == nil {
		entries = []common.LogEntry{}
	}
	return entries, nil
}

func (c *Client) makeRequest(ctx context.Context) *resty.Request {
	req := c.client.R()
	req.SetContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		req.SetHeader(RequestIDHeader, id)
	}
	return req
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

func isSuccess(resp *resty.Response) bool {
	return resp.StatusCode() >= 200 && resp.StatusCode() < 300
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id sent as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation id, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
