package util

import (
	"net/http"
	"net/url"
	"testing"
)

func request(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Request{URL: u}
}

func TestNewProxyFunc_ExplicitProxies(t *testing.T) {
	proxyFn := NewProxyFunc("http://proxy:3128", "http://sproxy:3128")

	u, err := proxyFn(request(t, "https://gee-gw.internal/v1/stack/count"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "sproxy:3128" {
		t.Errorf("Expected the https proxy, got %v", u)
	}

	u, err = proxyFn(request(t, "http://gee-gw.internal/v1/stack/count"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "proxy:3128" {
		t.Errorf("Expected the http proxy, got %v", u)
	}
}

func TestNewProxyFunc_HTTPFallbackForHTTPS(t *testing.T) {
	proxyFn := NewProxyFunc("http://proxy:3128", "")

	u, err := proxyFn(request(t, "https://gee-gw.internal/v1/composite/reduce"))
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.Host != "proxy:3128" {
		t.Errorf("Expected fallback to the http proxy, got %v", u)
	}
}
