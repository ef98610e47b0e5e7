package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// debugTransport wraps an HTTP transport and logs requests/responses
type debugTransport struct {
	transport http.RoundTripper
}

func (d *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Dump a clone so the token never reaches the log
	redacted := req.Clone(req.Context())
	if redacted.Header.Get("Authorization") != "" {
		redacted.Header.Set("Authorization", "REDACTED")
	}
	withBody := req.GetBody != nil
	if withBody {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to copy request body: %w", err)
		}
		redacted.Body = body
	}

	reqDump, err := httputil.DumpRequestOut(redacted, withBody)
	if err != nil {
		return nil, fmt.Errorf("failed to dump request: %w", err)
	}
	slog.Debug("graphql request", "dump", string(reqDump))

	resp, err := d.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	respDump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, fmt.Errorf("failed to dump response: %w", err)
	}
	slog.Debug("graphql response", "status", resp.StatusCode, "dump", string(respDump))

	return resp, nil
}
