package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/botbolt/internal/session"
)

// LoadRules reads session rules from a YAML file. Keys that are absent keep
// their session.DefaultRules value; an empty path returns the defaults.
// Durations are Go duration strings such as "750ms".
func LoadRules(path string) (session.Rules, error) {
	if path == "" {
		return session.DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Rules{}, fmt.Errorf("read rules: %w", err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return session.Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes YAML rule overrides on top of the defaults.
func ParseRules(data []byte) (session.Rules, error) {
	rules := session.DefaultRules()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return session.Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return session.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
