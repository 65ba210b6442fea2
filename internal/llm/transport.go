package llm

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// newHTTPClient returns a client whose proxy settings start from the
// environment and are overridden by any configured values.
func newHTTPClient(config Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(config)
	return &http.Client{Transport: transport}
}

func proxyFunc(config Config) func(*http.Request) (*url.URL, error) {
	pc := httpproxy.FromEnvironment()
	if config.HTTPProxy != "" {
		pc.HTTPProxy = config.HTTPProxy
	}
	if config.HTTPSProxy != "" {
		pc.HTTPSProxy = config.HTTPSProxy
	}
	if config.NoProxy != "" {
		pc.NoProxy = config.NoProxy
	}

	fn := pc.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}
