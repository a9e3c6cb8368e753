package categorize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marcomd/metricmind/schema"
)

// Fixed-format reply markers.
const (
	categoryMarker   = "CATEGORY:"
	confidenceMarker = "CONFIDENCE:"
	reasonMarker     = "REASON:"
)

// AIReply is the parsed categorization answer from the model.
type AIReply struct {
	Category   string
	Confidence int
	Reason     string
}

// ParseReply extracts the category, confidence and reason fields from a
// free-text model reply. A reply without the category marker is a parse
// error. A missing confidence defaults to 50; out-of-range values clamp.
func ParseReply(text string) (*AIReply, error) {
	reply := &AIReply{Confidence: schema.DefaultConfidence}

	category, ok := fieldAfterMarker(text, categoryMarker)
	if !ok || category == "" {
		return nil, fmt.Errorf("reply is missing the %s marker", categoryMarker)
	}
	reply.Category = strings.ToUpper(category)

	if raw, ok := fieldAfterMarker(text, confidenceMarker); ok {
		if value, err := strconv.Atoi(raw); err == nil {
			reply.Confidence = clampConfidence(value)
		}
	}

	if reason, ok := fieldAfterMarker(text, reasonMarker); ok {
		reply.Reason = reason
	}

	return reply, nil
}

// fieldAfterMarker returns the trimmed text between the marker and the end
// of its line.
func fieldAfterMarker(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), true
}

func clampConfidence(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
