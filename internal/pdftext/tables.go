package pdftext

import (
	"regexp"
	"strings"
)

// columnGapRe splits a layout-preserved line into cells at runs of two or
// more spaces.
var columnGapRe = regexp.MustCompile(`\s{2,}`)

// SplitColumns splits one layout-preserved line into trimmed cells.
func SplitColumns(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	return columnGapRe.Split(trimmed, -1)
}

// DetectTables finds the tables in a layout-preserved page text. A table is a
// run of two or more consecutive lines that each split into at least two
// cells; single columnar lines stay plain text.
func DetectTables(pageText string) [][][]string {
	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := SplitColumns(line)
		if len(cells) >= 2 {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}
