package content

import (
	"errors"
	"fmt"
	"strings"
)

// Section is one of the seven content views the page can display.
type Section string

const (
	Home         Section = "HOME"
	About        Section = "ABOUT"
	Projects     Section = "PROJECTS"
	Skills       Section = "SKILLS"
	Volunteering Section = "VOLUNTEERING"
	Certificates Section = "CERTIFICATES"
	Contact      Section = "CONTACT"
)

var ErrUnknownSection = errors.New("unknown section")

var allSections = []Section{Home, About, Projects, Skills, Volunteering, Certificates, Contact}

// AllSections returns every section in navigation bar order.
func AllSections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

func (s Section) Valid() bool {
	for _, known := range allSections {
		if s == known {
			return true
		}
	}
	return false
}

// Slug is the lower-case form used in templates and URLs.
func (s Section) Slug() string {
	return strings.ToLower(string(s))
}

func ParseSection(raw string) (Section, error) {
	s := Section(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return s, nil
}

type SectionMeta struct {
	Title string `yaml:"title" json:"title"`
	Color string `yaml:"color" json:"color"`
}

type Socials struct {
	GitHub   string `yaml:"github" json:"github"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	Twitter  string `yaml:"twitter" json:"twitter"`
}

type Profile struct {
	Name         string  `yaml:"name" json:"name"`
	Title        string  `yaml:"title" json:"title"`
	Tagline      string  `yaml:"tagline" json:"tagline"`
	ProfileImage string  `yaml:"profile_image" json:"profile_image"`
	Bio          string  `yaml:"bio" json:"bio"`
	Email        string  `yaml:"email" json:"email"`
	Socials      Socials `yaml:"socials" json:"socials"`
}

type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	TechStack   []string `yaml:"tech_stack" json:"tech_stack"`
	Image       string   `yaml:"image" json:"image"`
	Link        string   `yaml:"link" json:"link"`
}

type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Image    string `yaml:"image,omitempty" json:"image,omitempty"` // Logo URL, optional
}

type VolunteerEntry struct {
	ID           int    `yaml:"id" json:"id"`
	Role         string `yaml:"role" json:"role"`
	Organization string `yaml:"organization" json:"organization"`
	Period       string `yaml:"period" json:"period"`
	Description  string `yaml:"description" json:"description"`
}

type Certification struct {
	ID     int    `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Issuer string `yaml:"issuer" json:"issuer"`
	Date   string `yaml:"date" json:"date"`
	Link   string `yaml:"link,omitempty" json:"link,omitempty"`
}

// SkillGroup is one category of skills, in the order the skills were listed.
type SkillGroup struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

// GroupSkills aggregates a flat skill list by category. Categories appear in
// order of first occurrence and skills keep their relative order.
func GroupSkills(skills []Skill) []SkillGroup {
	index := make(map[string]int)
	var groups []SkillGroup
	for _, skill := range skills {
		i, ok := index[skill.Category]
		if !ok {
			i = len(groups)
			index[skill.Category] = i
			groups = append(groups, SkillGroup{Category: skill.Category})
		}
		groups[i].Skills = append(groups[i].Skills, skill)
	}
	return groups
}
