// Package recipe models the package recipe manifest: identity metadata,
// pinned requirements and build options.
package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/rymut/recipetool/internal/semver"
)

// ManifestName is the fixed name of the recipe manifest.
const ManifestName = "recipe.yaml"

// Recipe is the decoded recipe manifest.
type Recipe struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	License     string        `json:"license,omitempty"`
	Author      string        `json:"author,omitempty"`
	Topics      []string      `json:"topics,omitempty"`
	Requires    []Requirement `json:"requires,omitempty"`
	Options     Options       `json:"options"`
}

// Requirement is a dependency pinned to an exact version, written in the
// manifest as "name/version" (e.g. "imgui/1.89.9").
type Requirement struct {
	Name    string
	Version string
}

// ParseRequirement parses a "name/version" pin. The version must be a strict
// semantic version.
func ParseRequirement(s string) (Requirement, error) {
	name, version, ok := strings.Cut(s, "/")
	if !ok || name == "" || version == "" {
		return Requirement{}, fmt.Errorf("requirement %q is not of the form name/version", s)
	}
	if !semver.Valid(version) {
		return Requirement{}, fmt.Errorf("requirement %q does not pin a semantic version", s)
	}
	return Requirement{Name: name, Version: version}, nil
}

func (r Requirement) String() string {
	return r.Name + "/" + r.Version
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRequirement(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Options are the build options the recipe declares. FPIC is a pointer
// because the option is removed entirely on Windows.
type Options struct {
	Shared bool  `json:"shared"`
	FPIC   *bool `json:"fPIC,omitempty"`
}

// DefaultOptions returns the recipe's declared defaults: a static,
// position-independent build.
func DefaultOptions() Options {
	fpic := true
	return Options{Shared: false, FPIC: &fpic}
}

// ConfigureFor adjusts the options for the target operating system: on
// Windows the fPIC option does not exist and is removed.
func (o *Options) ConfigureFor(goos string) {
	if strings.EqualFold(goos, "windows") {
		o.FPIC = nil
	}
}

// Load reads and decodes a recipe manifest. Options not set in the manifest
// keep their defaults.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe manifest failed: %w", err)
	}
	recipe := &Recipe{Options: DefaultOptions()}
	if err := yaml.UnmarshalStrict(data, recipe); err != nil {
		return nil, fmt.Errorf("decoding recipe manifest %q failed: %w", path, err)
	}
	if recipe.Name == "" {
		return nil, fmt.Errorf("recipe manifest %q does not set a name", path)
	}
	return recipe, nil
}

// LoadDir loads the manifest from its fixed name inside dir.
func LoadDir(dir string) (*Recipe, error) {
	return Load(filepath.Join(dir, ManifestName))
}
