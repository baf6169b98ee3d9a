package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"xunity-llm-translate-server/internal/config"
)

// 出站代理拨号，供上游 transport 使用。

type contextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

func dialerFromConfig(cfg config.Config) (contextDialer, error) {
	switch cfg.ProxyType {
	case "http":
		return newConnectDialer(cfg), nil
	case "socks5":
		return newSOCKS5Dialer(cfg)
	default:
		return nil, fmt.Errorf("unsupported proxy type %q", cfg.ProxyType)
	}
}

// connectDialer 经 HTTP 代理的 CONNECT 隧道建连。
// 认证头在构造时算好，拨号路径只拼请求行。
type connectDialer struct {
	proxyAddr string
	authz     string
	inner     net.Dialer
}

func newConnectDialer(cfg config.Config) *connectDialer {
	d := &connectDialer{
		proxyAddr: cfg.ProxyAddress,
		inner: net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		},
	}
	if cfg.ProxyUsername != "" {
		cred := cfg.ProxyUsername + ":" + cfg.ProxyPassword
		d.authz = "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
	}
	return d
}

func (d *connectDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	conn, err := d.inner.DialContext(ctx, "tcp", d.proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("dial proxy %s: %w", d.proxyAddr, err)
	}

	// 隧道握手也受 ctx 的 deadline 约束
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	var req bytes.Buffer
	fmt.Fprintf(&req, "CONNECT %s HTTP/1.1\r\nHost: %s\r\n", address, address)
	if d.authz != "" {
		fmt.Fprintf(&req, "Proxy-Authorization: %s\r\n", d.authz)
	}
	req.WriteString("\r\n")

	if _, err := conn.Write(req.Bytes()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write CONNECT to %s: %w", d.proxyAddr, err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), &http.Request{Method: http.MethodConnect})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read CONNECT response from %s: %w", d.proxyAddr, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxy %s refused CONNECT: %s", d.proxyAddr, resp.Status)
	}

	return conn, nil
}

// newSOCKS5Dialer 基于 x/net/proxy。返回的拨号器必须支持 context，
// 否则 40 秒尝试超时无法中断建连阶段。
func newSOCKS5Dialer(cfg config.Config) (contextDialer, error) {
	var auth *proxy.Auth
	if cfg.ProxyUsername != "" {
		auth = &proxy.Auth{User: cfg.ProxyUsername, Password: cfg.ProxyPassword}
	}

	d, err := proxy.SOCKS5("tcp", cfg.ProxyAddress, auth, &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy %s: %w", cfg.ProxyAddress, err)
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks5 dialer for %s does not support context", cfg.ProxyAddress)
	}
	return cd, nil
}
