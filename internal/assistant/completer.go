package assistant

import "context"

// Message roles understood by every Completer.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of an outbound chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer turns a chat request into a single reply text.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}
