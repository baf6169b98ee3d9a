package httpclient

import (
	"net"
	"net/http"
	"time"

	"xunity-llm-translate-server/internal/config"
)

// 上游 HTTP 客户端构造。transfer 超时整体限制一次请求（含响应体传输），
// 单次尝试的硬超时由调用方通过 context deadline 控制。

// New 按配置构建上游客户端；proxy_type 为空时直连。
func New(cfg config.Config, transferTimeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        16,
	}

	if cfg.ProxyType != "" {
		dialer, err := dialerFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		transport.DialContext = dialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   transferTimeout,
	}, nil
}
