package services

import (
	"strings"
	"unicode/utf16"
)

// Character budgets estimating how much body text fits on an A4 page at the
// document font size. The first page also carries the letterhead, title and
// identity block.
const (
	FirstPageBudget = 1500
	NextPageBudget  = 2800
)

// Paginate splits the letter body into page-sized strings on paragraph
// boundaries. A budget only triggers a page break, it never splits a paragraph,
// so a page may exceed it. The newline separating two paragraphs that end up on
// different pages is dropped. An empty final page is not emitted, and the
// result always holds at least one page.
func Paginate(text string) []string {
	paragraphs := strings.Split(text, "\n")
	pages := make([]string, 0, 1)

	var current strings.Builder
	currentLength := 0
	limit := FirstPageBudget

	for i, paragraph := range paragraphs {
		paragraphLength := textLength(paragraph)

		chunkLength := paragraphLength
		if i > 0 {
			chunkLength++
		}

		if currentLength+chunkLength > limit {
			// Nothing has been placed yet: an oversized first paragraph still
			// belongs on page 1 and page 1 keeps its budget.
			if i == 0 {
				current.WriteString(paragraph)
				currentLength = paragraphLength
				continue
			}

			pages = append(pages, current.String())

			current.Reset()
			current.WriteString(paragraph)
			currentLength = paragraphLength
			limit = NextPageBudget
			continue
		}

		if i > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(paragraph)
		currentLength += chunkLength
	}

	if current.Len() > 0 {
		pages = append(pages, current.String())
	}
	if len(pages) == 0 {
		return []string{""}
	}

	return pages
}

// JoinPages rebuilds the body from its pages. The result equals the text given
// to Paginate unless that text ended in a blank paragraph which opened a new
// page, whose newline is lost.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

// textLength counts UTF-16 code units, the unit the browser editor counts in,
// so characters outside the BMP such as emoji count twice.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
