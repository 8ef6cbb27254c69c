package completion

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged instruction turn.
type Message struct {
	Role    string
	Content string
}

// Request carries one completion call. The response is raw text which is
// expected, but not guaranteed, to contain JSON.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Client is the boundary to the hosted completion service.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
