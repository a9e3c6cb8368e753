package gitlog

import (
	"regexp"
	"strings"
)

// aiToolsMarker matches an "AI tool(s): <list>" line, optionally wrapped in
// emphasis punctuation. The captured list runs to the end of the line,
// excluding any trailing emphasis characters.
var aiToolsMarker = regexp.MustCompile(`(?i)AI tools?:\s*([^\n*_]+)`)

// aiToolsSeparator splits the captured list on "and", "&", or comma.
var aiToolsSeparator = regexp.MustCompile(`(?i)\s+and\s+|&|,`)

// ExtractAITools locates an AI-tool marker in a commit body and returns the
// normalized, deduplicated tool list joined with ", ". No marker yields nil.
func ExtractAITools(body string) *string {
	match := aiToolsMarker.FindStringSubmatch(body)
	if match == nil {
		return nil
	}

	seen := make(map[string]bool)
	var tools []string
	for _, token := range aiToolsSeparator.Split(match[1], -1) {
		name := normalizeToolName(token)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tools = append(tools, name)
	}
	if len(tools) == 0 {
		return nil
	}

	joined := strings.Join(tools, ", ")
	return &joined
}

// normalizeToolName maps one raw token through the normalization table.
// Any token mentioning copilot collapses to a single canonical tag;
// "claude code" stays distinct from bare "claude".
func normalizeToolName(token string) string {
	name := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	switch {
	case name == "":
		return ""
	case strings.Contains(name, "COPILOT"):
		return "GITHUB COPILOT"
	case strings.Contains(name, "CHATGPT"):
		return "CHATGPT"
	case strings.Contains(name, "CURSOR"):
		return "CURSOR"
	default:
		return name
	}
}
