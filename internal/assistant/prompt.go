package assistant

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"wanderbot/internal/domain"
)

//go:embed prompts.yaml
var promptsYAML []byte

type FewShot struct {
	User      string `yaml:"user"`
	Assistant string `yaml:"assistant"`
}

type ToolSpec struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Schema      map[string]string `yaml:"schema"`
}

// Catalog holds the prompt templates shipped with the binary.
type Catalog struct {
	System      string     `yaml:"system"`
	Guardrails  string     `yaml:"guardrails"`
	FewShots    []FewShot  `yaml:"few_shots"`
	Tools       []ToolSpec `yaml:"tools"`
	OfflineStub string     `yaml:"offline_stub"`

	system *template.Template
	stub   *template.Template
}

// LoadCatalog parses a catalog from YAML; nil data selects the embedded one.
func LoadCatalog(data []byte) (*Catalog, error) {
	if data == nil {
		data = promptsYAML
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	if strings.TrimSpace(c.System) == "" {
		return nil, fmt.Errorf("prompt catalog: empty system template")
	}
	var err error
	if c.system, err = template.New("system").Option("missingkey=error").Parse(c.System); err != nil {
		return nil, fmt.Errorf("system template: %w", err)
	}
	if c.stub, err = template.New("stub").Parse(c.OfflineStub); err != nil {
		return nil, fmt.Errorf("offline stub template: %w", err)
	}
	return &c, nil
}

// Turn is everything that varies between two renders of the same bot.
type Turn struct {
	BotName    string
	AppPurpose string
	Context    string
	Memory     string
	Message    string
	ToolResult string
}

// Render builds the system instruction and the ordered message list:
// few-shots, the assistant preamble, the user message, then any tool result.
func (c *Catalog) Render(t Turn) (string, []domain.Message, error) {
	var sys strings.Builder
	if err := c.system.Execute(&sys, t); err != nil {
		return "", nil, fmt.Errorf("render system prompt: %w", err)
	}

	msgs := make([]domain.Message, 0, 2*len(c.FewShots)+3)
	for _, fs := range c.FewShots {
		msgs = append(msgs,
			domain.Message{Role: "user", Content: strings.TrimSpace(fs.User)},
			domain.Message{Role: "assistant", Content: strings.TrimSpace(fs.Assistant)},
		)
	}

	mem := t.Memory
	if mem == "" {
		mem = "None"
	}
	preamble := fmt.Sprintf("[Context]\n%s\n[Memory]\n%s\n[Tools]\n%s\n[Guardrails]\n%s",
		t.Context, mem, c.toolsBlock(), strings.TrimSpace(c.Guardrails))
	msgs = append(msgs,
		domain.Message{Role: "assistant", Content: preamble},
		domain.Message{Role: "user", Content: t.Message},
	)
	if t.ToolResult != "" {
		msgs = append(msgs, domain.Message{Role: "user", Content: "Tool result: " + t.ToolResult})
	}
	return strings.TrimSpace(sys.String()), msgs, nil
}

func (c *Catalog) toolsBlock() string {
	if len(c.Tools) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(c.Tools))
	for _, tool := range c.Tools {
		keys := make([]string, 0, len(tool.Schema))
		for k := range tool.Schema {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		args := make([]string, len(keys))
		for i, k := range keys {
			args[i] = k + ": " + tool.Schema[k]
		}
		lines = append(lines, fmt.Sprintf("- %s: %s Args: {%s}", tool.Name, tool.Description, strings.Join(args, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (c *Catalog) offline(season string, cause error) string {
	var b strings.Builder
	data := struct{ Season, Error string }{season, cause.Error()}
	if err := c.stub.Execute(&b, data); err != nil {
		return "I can't reach the travel model right now. Please try again shortly."
	}
	return strings.TrimSpace(b.String())
}

// contextBlock renders time, season, profile and hints. Maps are marshalled
// with sorted keys so prompts are stable across turns.
func contextBlock(now string, season string, profile, hints map[string]any) string {
	return fmt.Sprintf("Time: %s | Season: %s\nUser profile: %s\nHints: %s",
		now, season, compactJSON(profile), compactJSON(hints))
}

func compactJSON(v map[string]any) string {
	if len(v) == 0 {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
