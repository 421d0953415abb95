package parser

import (
	"strconv"
	"strings"

	"github.com/crednx/statement-engine/internal/dialect"
	"github.com/crednx/statement-engine/internal/models"
)

// SplitPages splits raw multi-page text into ordered page sections using
// the dialect's page-start markers. Marker lines are retained, so
// concatenating all sections' lines reproduces the input line sequence.
//
// Content before the first recognized marker is merged into page 1 rather
// than discarded; some dialects emit transaction rows ahead of the first
// marker. With zero markers the whole input becomes a single implicit
// page.
func SplitPages(text string, d *dialect.Dialect) []models.PageSection {
	var sections []models.PageSection
	cur := models.PageSection{Number: 1}
	markerSeen := false

	flush := func() {
		if len(cur.Lines) > 0 {
			sections = append(sections, cur)
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := d.PageStart(line); m != nil {
			num := cur.Number + 1
			if len(m) > 1 {
				if n, err := strconv.Atoi(m[1]); err == nil {
					num = n
				}
			}
			if !markerSeen && num == cur.Number {
				// First marker confirms the implicit page;
				// pre-marker rows stay where they are.
				markerSeen = true
				cur.Lines = append(cur.Lines, line)
				continue
			}
			markerSeen = true
			flush()
			cur = models.PageSection{Number: num, Lines: []string{line}}
			continue
		}

		cur.Lines = append(cur.Lines, line)
	}
	flush()

	if len(sections) == 0 {
		// Entirely empty input still yields one empty page so callers
		// can treat the result uniformly.
		sections = append(sections, models.PageSection{Number: 1})
	}
	return sections
}

// SectionByNumber returns the section with the given page number, or nil.
func SectionByNumber(sections []models.PageSection, number int) *models.PageSection {
	for i := range sections {
		if sections[i].Number == number {
			return &sections[i]
		}
	}
	return nil
}
