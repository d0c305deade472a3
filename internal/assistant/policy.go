package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.md
var defaultPolicyText string

// DefaultPolicyVersion identifies the embedded policy.
const DefaultPolicyVersion = "2025.2"

// Policy is the versioned system instruction sent with every request.
type Policy struct {
	Version string `yaml:"version"`
	Text    string `yaml:"text"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{Version: DefaultPolicyVersion, Text: strings.TrimSpace(defaultPolicyText)}
}

// LoadPolicy reads a YAML policy file with `version` and `text` keys.
// An empty path yields the default policy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy document.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return Policy{}, fmt.Errorf("policy text is empty")
	}
	if p.Version == "" {
		p.Version = "custom"
	}
	return p, nil
}
