package memory

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Turn is one message of a conversation between the user and the assistant.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FormatConversation renders chat history into "ROLE: content" lines, the
// shape the episodic extraction prompt expects.
func FormatConversation(turns []Turn) string {
	lines := lo.Map(turns, func(t Turn, _ int) string {
		return fmt.Sprintf("%s: %s", strings.ToUpper(t.Role), t.Content)
	})
	return strings.Join(lines, "\n")
}
