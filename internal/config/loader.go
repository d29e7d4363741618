package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Defaults returns the embedded default settings, before any difficulty is applied.
func Defaults() (Settings, error) {
	var s Settings
	if err := decode(defaultYAML, &s); err != nil {
		return Settings{}, fmt.Errorf("decode defaults: %w", err)
	}
	return s, nil
}

// Parse overlays a YAML document on the defaults. Keys present in data win;
// lists are replaced whole. The result is not yet resolved.
func Parse(data []byte) (Settings, error) {
	s, err := Defaults()
	if err != nil {
		return Settings{}, err
	}
	if err := decode(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// LoadFile reads the user settings file at path and overlays it on the
// defaults. An empty path or a missing file yields the defaults.
func LoadFile(path string) (Settings, error) {
	if path == "" {
		return Defaults()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults()
		}
		return Settings{}, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Resolve applies the difficulty preset and validates the result.
func Resolve(s Settings) (Settings, error) {
	s, err := ApplyDifficulty(s)
	if err != nil {
		return Settings{}, err
	}
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads path (see LoadFile), applies the CLAW_DIFFICULTY and CLAW_SEED
// overrides and resolves the result.
func Load(path string) (Settings, error) {
	s, err := LoadFile(path)
	if err != nil {
		return Settings{}, err
	}
	if d := GetEnv(EnvDifficulty, ""); d != "" {
		s.Difficulty = d
	}
	seed, err := GetEnvUint64(EnvSeed, s.Seed)
	if err != nil {
		return Settings{}, err
	}
	s.Seed = seed
	return Resolve(s)
}

func decode(data []byte, s *Settings) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
