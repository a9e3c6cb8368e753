package categorize

import (
	"fmt"
	"strings"

	"github.com/marcomd/metricmind/schema"
)

// BuildPrompt constructs the categorization request for one commit. The
// approved vocabulary is embedded so the model prefers an existing category
// and only mints a new one when nothing fits.
func BuildPrompt(commit *schema.Commit, vocabulary []string, files []string) string {
	var b strings.Builder

	b.WriteString("You are classifying a software commit into a business-domain category.\n\n")
	fmt.Fprintf(&b, "Commit %s\n", commit.Hash)
	fmt.Fprintf(&b, "Subject: %s\n", commit.Subject)
	if len(files) > 0 {
		fmt.Fprintf(&b, "Files: %s\n", strings.Join(files, ", "))
	}

	if len(vocabulary) > 0 {
		fmt.Fprintf(&b, "\nApproved categories: %s\n", strings.Join(vocabulary, ", "))
		b.WriteString("Prefer one of the approved categories. Only propose a new category when none of them fits this commit.\n")
	} else {
		b.WriteString("\nThere are no approved categories yet; propose a suitable one.\n")
	}

	b.WriteString("A category is a short uppercase business-domain tag. ")
	b.WriteString("Never answer with a number, a version string, or an issue reference.\n\n")
	b.WriteString("Reply in exactly this format:\n")
	b.WriteString("CATEGORY: <tag>\n")
	b.WriteString("CONFIDENCE: <0-100>\n")
	b.WriteString("REASON: <one sentence>\n")

	return b.String()
}
