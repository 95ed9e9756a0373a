package sources

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a source response is read.
const maxResponseBytes = 4 << 20

// NewHTTPClient returns the client source adapters share. Timeout bounds the
// whole exchange; the Guard applies the same bound through the context.
// There is no retrying transport: a failed call advances the cascade.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// DoJSON sends req and decodes a 2xx JSON body into out. Failures come back
// as *ProviderError tagged with providerID.
func DoJSON(client *http.Client, providerID string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return NewProviderError(CategoryForTransport(err), providerID, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NewProviderError(CategoryForTransport(err), providerID, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewProviderError(CategoryForStatus(resp.StatusCode), providerID,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewProviderError(ErrorBadData, providerID, "decode response", err)
	}
	return nil
}
