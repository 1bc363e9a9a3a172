package assistant

import (
	"strings"
	"unicode/utf8"

	"wanderbot/internal/domain"
)

const (
	defaultMaxTokens    = 6000
	defaultTargetTokens = 3000
	recentTurns         = 6
	DefaultSummaryLen   = 800
)

// Memory is the rolling conversation history. It is JSON-serializable so
// sessions can be parked in a cache between requests.
type Memory struct {
	Messages     []domain.Message `json:"messages"`
	MaxTokens    int              `json:"max_tokens"`
	TargetTokens int              `json:"target_tokens"`
}

func NewMemory() *Memory {
	return &Memory{MaxTokens: defaultMaxTokens, TargetTokens: defaultTargetTokens}
}

// approxTokens uses the ~4 characters per token rule of thumb.
func approxTokens(s string) int {
	n := (utf8.RuneCountInString(s) + 3) / 4
	if n < 1 {
		return 1
	}
	return n
}

func (m *Memory) Tokens() int {
	total := 0
	for _, msg := range m.Messages {
		total += approxTokens(msg.Content)
	}
	return total
}

func (m *Memory) Add(role, content string) {
	m.Messages = append(m.Messages, domain.Message{Role: role, Content: content})
	m.shrink()
}

// shrink drops the oldest messages once the budget is exceeded, keeping the
// newest ones that fit in TargetTokens.
func (m *Memory) shrink() {
	if m.MaxTokens <= 0 {
		m.MaxTokens = defaultMaxTokens
	}
	if m.TargetTokens <= 0 {
		m.TargetTokens = defaultTargetTokens
	}
	if m.Tokens() <= m.MaxTokens {
		return
	}
	running := 0
	start := len(m.Messages)
	for i := len(m.Messages) - 1; i >= 0; i-- {
		t := approxTokens(m.Messages[i].Content)
		if running+t > m.TargetTokens {
			break
		}
		running += t
		start = i
	}
	m.Messages = append([]domain.Message(nil), m.Messages[start:]...)
}

// Summary keeps the last turns verbatim and compresses everything older into a
// truncated gist. It returns "" for an empty history.
func (m *Memory) Summary(maxLen int) string {
	if len(m.Messages) == 0 {
		return ""
	}
	cut := len(m.Messages) - recentTurns
	if cut < 0 {
		cut = 0
	}
	earlier, last := m.Messages[:cut], m.Messages[cut:]

	gist := ""
	if len(earlier) > 0 {
		parts := make([]string, len(earlier))
		for i, msg := range earlier {
			parts[i] = msg.Content
		}
		gist = truncateRunes(strings.Join(parts, " "), max(0, maxLen-40)) + "…"
	}
	lines := make([]string, len(last))
	for i, msg := range last {
		lines[i] = msg.Role + ": " + msg.Content
	}
	return "Earlier gist: " + gist + "\nRecent turns:\n" + strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
