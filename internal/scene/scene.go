// Package scene loads YAML scene files that describe an initial panel
// population for the simulator and the daemon.
package scene

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/x/ansi"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed scene.schema.json defaults/demo.yml
var embeddedFS embed.FS

// Scene is a validated scene document.
type Scene struct {
	Version       int     `yaml:"version"`
	MinAppVersion string  `yaml:"min_app_version"`
	Screen        Screen  `yaml:"screen"`
	Panels        []Panel `yaml:"panels"`
}

// Screen gives the simulated screen dimensions in pixels.
type Screen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Panel describes one panel to open. Creator names an earlier panel the
// new one opens next to.
type Panel struct {
	Title          string `yaml:"title"`
	Width          int    `yaml:"width"`
	TitlebarHeight int    `yaml:"titlebar_height"`
	ContentHeight  int    `yaml:"content_height"`
	Expanded       bool   `yaml:"expanded"`
	Focus          bool   `yaml:"focus"`
	Urgent         bool   `yaml:"urgent"`
	Creator        string `yaml:"creator"`
}

// LoadDefault loads the embedded demo scene.
func LoadDefault() (*Scene, error) {
	data, err := embeddedFS.ReadFile("defaults/demo.yml")
	if err != nil {
		return nil, fmt.Errorf("scene: read embedded demo: %w", err)
	}
	return Parse(data)
}

// LoadFile loads and validates a scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, validates them against the embedded schema,
// then applies the semantic checks the schema cannot express.
func Parse(data []byte) (*Scene, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("scene: document is empty")
	}
	s := &Scene{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("scene: parse yaml: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	s.sanitize()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks YAML bytes against the embedded JSON schema.
func Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("scene: document is empty")
	}
	schemaBytes, err := embeddedFS.ReadFile("scene.schema.json")
	if err != nil {
		return fmt.Errorf("scene: read embedded schema: %w", err)
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaBytes, &schemaDoc); err != nil {
		return fmt.Errorf("scene: parse schema json: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("scene.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("scene: load schema: %w", err)
	}
	schema, err := compiler.Compile("scene.schema.json")
	if err != nil {
		return fmt.Errorf("scene: compile schema: %w", err)
	}
	payload, err := yamlToJSON(data)
	if err != nil {
		return fmt.Errorf("scene: serialize document: %w", err)
	}
	var payloadDoc any
	if err := json.Unmarshal(payload, &payloadDoc); err != nil {
		return fmt.Errorf("scene: parse document json: %w", err)
	}
	if err := schema.Validate(payloadDoc); err != nil {
		return fmt.Errorf("scene: schema validation: %w", err)
	}
	return nil
}

// CheckAppVersion rejects scenes whose min_app_version is newer than the
// running binary. Development builds bypass the gate.
func (s *Scene) CheckAppVersion(running string) error {
	required := strings.TrimSpace(s.MinAppVersion)
	if required == "" {
		return nil
	}
	if isDevelopmentVersion(running) {
		return nil
	}
	minVer, err := parseSemver(required)
	if err != nil {
		return fmt.Errorf("scene: invalid min_app_version %q: %w", required, err)
	}
	runVer, err := parseSemver(running)
	if err != nil {
		return fmt.Errorf("scene: invalid app version %q: %w", running, err)
	}
	if runVer.LessThan(minVer) {
		return fmt.Errorf("scene: requires app >= %s, running %s", required, running)
	}
	return nil
}

// sanitize scrubs escape sequences and control characters out of titles
// so YAML strings can never reach the terminal raw. Creator references
// are scrubbed the same way so they keep resolving.
func (s *Scene) sanitize() {
	for i := range s.Panels {
		s.Panels[i].Title = sanitizeTitle(s.Panels[i].Title)
		s.Panels[i].Creator = sanitizeTitle(s.Panels[i].Creator)
	}
}

func sanitizeTitle(raw string) string {
	stripped := ansi.Strip(raw)
	stripped = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, stripped)
	return strings.TrimSpace(stripped)
}

// check applies the semantic rules the schema cannot express.
func (s *Scene) check() error {
	if s.Version != 1 {
		return fmt.Errorf("scene: unsupported version %d", s.Version)
	}
	if s.MinAppVersion != "" {
		if _, err := parseSemver(s.MinAppVersion); err != nil {
			return fmt.Errorf("scene: invalid min_app_version %q: %w", s.MinAppVersion, err)
		}
	}
	if s.Screen.Width < 640 || s.Screen.Height < 480 {
		return fmt.Errorf("scene: screen %dx%d is below the 640x480 minimum",
			s.Screen.Width, s.Screen.Height)
	}
	seen := make(map[string]struct{}, len(s.Panels))
	for i, p := range s.Panels {
		if p.Title == "" {
			return fmt.Errorf("scene: panel %d has an empty title after sanitizing", i)
		}
		if _, ok := seen[p.Title]; ok {
			return fmt.Errorf("scene: duplicate panel title %q", p.Title)
		}
		if p.Width <= 0 || p.TitlebarHeight <= 0 || p.ContentHeight <= 0 {
			return fmt.Errorf("scene: panel %q has a non-positive size", p.Title)
		}
		if p.Creator != "" {
			if _, ok := seen[p.Creator]; !ok {
				return fmt.Errorf("scene: panel %q creator %q is not defined earlier", p.Title, p.Creator)
			}
		}
		seen[p.Title] = struct{}{}
	}
	return nil
}

func parseSemver(raw string) (*semver.Version, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if normalized == "" {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(normalized)
}

func isDevelopmentVersion(raw string) bool {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", "dev", "devel", "unknown":
		return true
	}
	return strings.Contains(value, "dirty")
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	normalized, err := normalizeYAML(raw)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return payload, nil
}

func normalizeYAML(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			normalized, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[key] = normalized
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			strKey, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("invalid yaml map key: %T", key)
			}
			normalized, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[strKey] = normalized
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			normalized, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	default:
		return value, nil
	}
}
