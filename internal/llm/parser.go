package llm

import (
	"regexp"
	"strings"

	"github.com/actuallystonmai/travel-recommender/internal/domain"
)

// Parser turns model text into destination rows. Implementations are lossy:
// anything they cannot read is dropped, never reported as an error.
type Parser interface {
	Parse(text string) []domain.DestinationRow
}

// linePattern matches "1. Name – Description. Why: reason" with a hyphen or
// an en dash as separator.
var linePattern = regexp.MustCompile(`(?i)^\s*\d+\.\s*(?P<name>.+?)\s*[-–]\s*(?P<desc>.+?)\.\s*Why:\s*(?P<reason>.+)$`)

var (
	nameIdx   = linePattern.SubexpIndex("name")
	descIdx   = linePattern.SubexpIndex("desc")
	reasonIdx = linePattern.SubexpIndex("reason")
)

// LineParser reads one numbered destination per line.
type LineParser struct{}

func NewLineParser() LineParser {
	return LineParser{}
}

func (LineParser) Parse(text string) []domain.DestinationRow {
	rows := make([]domain.DestinationRow, 0, 3)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rows = append(rows, domain.DestinationRow{
			Name:        strings.TrimSpace(m[nameIdx]),
			Description: strings.TrimSpace(m[descIdx]),
			Reason:      strings.TrimSpace(m[reasonIdx]),
		})
	}
	return rows
}
