package translate

import (
	"fmt"
	"os"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/override"
	"gopkg.in/yaml.v3"
)

// Request is one solve request as far as parameters are concerned.
type Request struct {
	Backend    backend.Kind      `yaml:"backend"`
	Parameters params.Common     `yaml:"parameters"`
	Override   override.Override `yaml:"override,omitempty"`
}

// LoadRequest reads a YAML request file. Environment variables in the file
// are expanded before parsing.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Request{}, fmt.Errorf("translate: load request: %w", err)
	}

	return ParseRequest(data)
}

// ParseRequest parses a YAML request document.
func ParseRequest(data []byte) (Request, error) {
	expanded := os.ExpandEnv(string(data))

	var req Request
	if err := yaml.Unmarshal([]byte(expanded), &req); err != nil {
		return Request{}, fmt.Errorf("translate: parse request: %w", err)
	}

	return req, nil
}

// Marshal encodes r as YAML. Unset parameters are omitted.
func (r Request) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("translate: marshal request: %w", err)
	}
	return data, nil
}
