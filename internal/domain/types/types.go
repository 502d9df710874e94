// Package types contains response shapes shared by the transport layer.
package types

// Envelope wraps every successful API response.
type Envelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

// ErrorBody is returned for failed requests.
type ErrorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Health is the /health payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// List wraps a collection and reports its length.
func List[T any](items []T) Envelope {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Envelope{Success: true, Count: &n, Data: items}
}

// Single wraps one value, which may be nil.
func Single(v any) Envelope {
	return Envelope{Success: true, Data: v}
}
