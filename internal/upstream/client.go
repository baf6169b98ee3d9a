package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// 上游错误分类。调用方只关心类别（决定日志文案），一律以空结果收场。
var (
	ErrBadJSON   = errors.New("upstream: invalid JSON response")
	ErrNoChoices = errors.New("upstream: response has no choices")
	ErrBadStatus = errors.New("upstream: non-success status")
)

// Client 负责一次 chat-completion 往返。
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Complete 发送请求并解析响应。ctx 承载 40 秒单次尝试硬超时与服务停止信号。
func (c *Client) Complete(ctx context.Context, req *ChatRequest, apiBase, apiKey string) (*ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	url := strings.TrimRight(apiBase, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// context 超时/取消由调用方通过 ctx.Err() 区分
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	if len(chatResp.Choices) == 0 {
		// usage 可能已经解析出来，连同错误一起交给调用方
		return &chatResp, ErrNoChoices
	}

	return &chatResp, nil
}
