package hyperliquid

import "fmt"

// UpstreamError reports a transport failure or a non-success status from the info API.
// Transport failures carry http.StatusBadGateway.
type UpstreamError struct {
	RequestType string
	StatusCode  int
	Body        string
	Err         error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hyperliquid %s: HTTP %d: %v", e.RequestType, e.StatusCode, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("hyperliquid %s: HTTP %d: %s", e.RequestType, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("hyperliquid %s: HTTP %d", e.RequestType, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
