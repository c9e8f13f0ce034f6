// Package normalize turns raw bibliographic records into domain articles.
package normalize

// Record is one upstream article as reported by the source. A nil pointer means
// the element was absent; an empty string means it was present but empty.
type Record struct {
	PMID             *string
	Title            *string
	VernacularTitle  *string
	AbstractSegments []Segment
	Authors          []Author
	JournalTitle     *string
	PubYear          *string
	PubMonth         *string
	PubDay           *string
	DOI              *string
	PublicationTypes []string
}

// Segment is one AbstractText element, optionally labeled (BACKGROUND, METHODS...).
type Segment struct {
	Label *string
	Text  string
}

// Author is one entry of the author list.
type Author struct {
	LastName       *string
	Initials       *string
	CollectiveName *string
}

// Str returns a pointer to s; handy when building records by hand.
func Str(s string) *string {
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
