package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/betbot/botdash/internal/snapshot"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "feed")

// ErrUnauthorized 数据源返回 401：需要重新登录，调用方不应重试
var ErrUnauthorized = errors.New("feed: unauthenticated (401)")

// StatusError 非 2xx、非 401 的响应
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("feed: http %d: %s", e.Code, body)
}

// Config 客户端参数
type Config struct {
	// URL 完整的数据接口地址，例如 http://localhost:5000/api/data
	URL     string
	Timeout time.Duration
	// Headers 额外请求头（例如会话 Cookie）
	Headers map[string]string
}

// Client 拉取看板快照
type Client struct {
	client *resty.Client
	url    string
}

// NewClient 创建客户端。不做自动重试：轮询定时器就是重试策略。
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "botdash/1.0")
	for k, v := range cfg.Headers {
		c.SetHeader(k, v)
	}
	return &Client{client: c, url: strings.TrimSpace(cfg.URL)}
}

// URL 数据接口地址
func (c *Client) URL() string { return c.url }

// Fetch 请求一次快照
func (c *Client) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqID := uuid.NewString()
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID).
		Get(c.url)

	entry := log.WithField("request_id", reqID)
	if err != nil {
		entry.Debugf("fetch transport error after %s: %v", time.Since(start), err)
		return nil, errors.Wrap(err, "feed: request failed")
	}

	entry.Debugf("fetch %s -> %d in %s", c.url, resp.StatusCode(), time.Since(start))

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case !resp.IsSuccess():
		return nil, &StatusError{
			Code:   resp.StatusCode(),
			Status: resp.Status(),
			Body:   errorBody(resp.Body()),
		}
	}

	snap, err := snapshot.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, errors.Wrap(err, "feed: malformed body")
	}
	return snap, nil
}

// errorBody 尽量把错误体压成一行 JSON，便于日志
func errorBody(b []byte) string {
	var body any
	if err := json.Unmarshal(b, &body); err == nil {
		if out, err := json.Marshal(body); err == nil {
			return string(out)
		}
	}
	return strings.TrimSpace(string(b))
}
