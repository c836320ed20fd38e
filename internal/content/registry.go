package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Registry is the static, read-only portfolio content. It is loaded once at
// process start and never mutated afterwards.
type Registry struct {
	Profile        Profile                 `yaml:"profile" json:"profile"`
	Sections       map[Section]SectionMeta `yaml:"sections" json:"sections"`
	Projects       []Project               `yaml:"projects" json:"projects"`
	Skills         []Skill                 `yaml:"skills" json:"skills"`
	Volunteering   []VolunteerEntry        `yaml:"volunteering" json:"volunteering"`
	Certifications []Certification         `yaml:"certifications" json:"certifications"`
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultContent)
}

// Load reads a registry from a YAML file on disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return reg, nil
}

func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate reports static-configuration bugs: every section needs display
// metadata and every section key must be a known section.
func (r *Registry) Validate() error {
	for key := range r.Sections {
		if !key.Valid() {
			return fmt.Errorf("%w in section metadata: %q", ErrUnknownSection, key)
		}
	}
	for _, s := range allSections {
		meta, ok := r.Sections[s]
		if !ok {
			return fmt.Errorf("missing metadata for section %s", s)
		}
		if meta.Title == "" {
			return fmt.Errorf("section %s has no title", s)
		}
	}
	if r.Profile.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	for i, skill := range r.Skills {
		if skill.Category == "" {
			return fmt.Errorf("skill %d (%s) has no category", i, skill.Name)
		}
	}
	return nil
}

// Metadata looks up the display metadata of a section. Validate guarantees
// the entry exists for every known section.
func (r *Registry) Metadata(s Section) SectionMeta {
	return r.Sections[s]
}

func (r *Registry) SkillGroups() []SkillGroup {
	return GroupSkills(r.Skills)
}
