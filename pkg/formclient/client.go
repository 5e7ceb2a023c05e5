// Package formclient là client Go cho luồng bulk ingestion của form
// engine: upload file submission và theo dõi tiến độ job qua stream
// JSON phân dòng.
package formclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// State là trạng thái của một phiên bulk upload phía client
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ErrProgressUnavailable báo stream tiến độ bị đứt. Đây KHÔNG phải job
// thất bại: job vẫn chạy trên server, chỉ là client không quan sát được
// nữa. Caller phân biệt lỗi này với JobError.
var ErrProgressUnavailable = errors.New("formclient: không theo dõi được tiến độ job")

// JobError là lỗi job do server báo qua event failed
type JobError struct {
	JobID   string
	Message string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("formclient: job %s thất bại: %s", e.JobID, e.Message)
}

// Client gọi API của form engine
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option tùy biến Client
type Option func(*Client)

// WithHTTPClient thay http.Client mặc định
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken đặt bearer token gửi kèm mọi request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New tạo Client mới trỏ tới baseURL (ví dụ "https://api.example.org")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Client mặc định không đặt Timeout tổng vì stream tiến độ giữ
		// kết nối mở lâu; request upload tự giới hạn qua context
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authorize gắn bearer token nếu có
func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// envelope là hình dạng response chuẩn của server
type envelope struct {
	Code    any            `json:"code"`
	Message string         `json:"message"`
	Status  string         `json:"status"`
	Data    map[string]any `json:"data"`
}
