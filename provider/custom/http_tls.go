package custom

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/internal/cache"
	utls "github.com/refraction-networking/utls"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

// Lua API of the http_tls module, for sites that reject Go's own TLS handshake:
//
//	http_tls.get(url [, headers]) -> body
//	http_tls.request{method=, url=, headers=, body=, cache=} -> {status=, body=}

const tlsTimeout = 30 * time.Second

func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(luaTLSGet))
	L.SetField(mod, "request", L.NewFunction(luaTLSRequest))
	L.SetGlobal("http_tls", mod)
}

type tlsResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func luaHeaders(v lua.LValue) map[string]string {
	headers := make(map[string]string)
	if t, ok := v.(*lua.LTable); ok {
		t.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}
	return headers
}

func luaTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	resp, err := fetchTLS(http.MethodGet, url, luaHeaders(L.Get(2)), "")
	if err != nil {
		L.RaiseError("http_tls.get %s: %s", url, err)
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

func luaTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := strings.ToUpper(getString(opts, "method"))
	if method == "" {
		method = http.MethodGet
	}
	url := getString(opts, "url")
	if url == "" {
		L.ArgError(1, "url is required")
		return 0
	}
	body := getString(opts, "body")
	useCache := lua.LVAsBool(opts.RawGetString("cache"))

	cacheKey := cache.Key(method+" "+url+"\n"+body, "http_tls")
	resp, cached := tlsResponse{}, false
	if useCache {
		resp, cached = cache.Read[tlsResponse](cacheKey)
	}

	if !cached {
		fetched, err := fetchTLS(method, url, luaHeaders(opts.RawGetString("headers")), body)
		if err != nil {
			L.RaiseError("http_tls.request %s: %s", url, err)
			return 0
		}
		resp = *fetched

		if useCache && resp.Status == http.StatusOK {
			_ = cache.Write(cacheKey, resp)
		}
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(resp.Status))
	L.SetField(result, "body", lua.LString(resp.Body))
	L.Push(result)
	return 1
}

var (
	h2Once      sync.Once
	h2Transport *http2.Transport
)

func transportH2() http.RoundTripper {
	h2Once.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

var transportH1 = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialChrome(ctx, network, addr, []string{"http/1.1"})
	},
}

// fetchTLS tries HTTP/2 first and retries over HTTP/1.1 when the server refuses it.
func fetchTLS(method, url string, headers map[string]string, body string) (*tlsResponse, error) {
	var lastErr error
	for _, transport := range []http.RoundTripper{transportH2(), transportH1} {
		req, err := http.NewRequest(method, url, strings.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", constant.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		client := &http.Client{Timeout: tlsTimeout, Transport: transport}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return &tlsResponse{Status: resp.StatusCode, Body: string(data)}, nil
	}

	return nil, lastErr
}

// dialChrome opens a TLS connection with a Chrome client hello.
// A nil protos keeps Chrome's own ALPN list.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: tlsTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tlsConn, nil
}
