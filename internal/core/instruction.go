package core

import (
	"fmt"
	"strings"

	"github.com/nethmitharushika56/portfolio/internal/content"
)

// MaxAnswerWords is the answer length the assistant is asked to stay under.
const MaxAnswerWords = 50

// BuildSystemInstruction summarizes the portfolio for the assistant and sets
// its persona. It is built once per session from the static registry.
func BuildSystemInstruction(reg *content.Registry) string {
	name := reg.Profile.Name

	skills := make([]string, 0, len(reg.Skills))
	for _, s := range reg.Skills {
		skills = append(skills, fmt.Sprintf("%s (%s)", s.Name, s.Category))
	}
	projects := make([]string, 0, len(reg.Projects))
	for _, p := range reg.Projects {
		projects = append(projects, fmt.Sprintf("%s: %s", p.Title, p.Description))
	}
	volunteering := make([]string, 0, len(reg.Volunteering))
	for _, v := range reg.Volunteering {
		volunteering = append(volunteering, fmt.Sprintf("%s at %s", v.Role, v.Organization))
	}
	certs := make([]string, 0, len(reg.Certifications))
	for _, c := range reg.Certifications {
		certs = append(certs, fmt.Sprintf("%s from %s", c.Name, c.Issuer))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant for %s's portfolio website.\n", name)
	b.WriteString("Your persona is professional, slightly witty, and very knowledgeable about tech.\n\n")
	fmt.Fprintf(&b, "Here is the context about %s:\n", name)
	fmt.Fprintf(&b, "- Title: %s\n", reg.Profile.Title)
	fmt.Fprintf(&b, "- Tagline: %s\n", reg.Profile.Tagline)
	fmt.Fprintf(&b, "- Bio: %s\n", strings.Join(strings.Fields(reg.Profile.Bio), " "))
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "- Projects: %s\n", strings.Join(projects, "; "))
	fmt.Fprintf(&b, "- Volunteering: %s\n", strings.Join(volunteering, "; "))
	fmt.Fprintf(&b, "- Certifications: %s\n", strings.Join(certs, "; "))
	fmt.Fprintf(&b, "- Contact: %s\n\n", reg.Profile.Email)
	fmt.Fprintf(&b, "Your goal is to answer visitor questions about %s.\n", name)
	fmt.Fprintf(&b, "Keep answers concise (under %d words unless asked for detail).\n", MaxAnswerWords)
	fmt.Fprintf(&b, "If asked about something not in the context, politely say you only know about %s's professional life, or offer a creative guess based on their tech stack.\n", name)
	b.WriteString("Do not hallucinate fake contact info.\n")
	return b.String()
}
