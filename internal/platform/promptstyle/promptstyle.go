package promptstyle

import "strings"

const marker = "COURSEFORGE_HOUSE_STYLE_V1"

// ApplySystem prepends the shared authoring guidance to a system prompt.
// Applying it twice is a no-op.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou write course material for working adult learners.")
	b.WriteString("\nWrite in plain, direct language a subject expert would use with a colleague.")
	b.WriteString("\nNever tell the learner to like, subscribe, share, follow or click anything.")
	b.WriteString("\nDo not refer to earlier or later videos, readings or modules; each item must stand alone.")
	b.WriteString("\nDo not invent citations, statistics or URLs. Use only sources given in the input.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
