// Package vocabulary maps canonical journal and publication-type names to the
// tokens PubMed uses in queries and in record fields.
package vocabulary

import "strings"

// Canonical journal names.
const (
	JournalNEJM           = "The New England Journal of Medicine"
	JournalLancet         = "The Lancet"
	JournalJAMA           = "JAMA"
	JournalBMJ            = "The BMJ"
	JournalNatureMedicine = "Nature Medicine"
)

// Canonical publication-type names.
const (
	TypeClinicalTrial      = "Clinical Trial"
	TypeRandomizedTrial    = "Randomized Controlled Trial"
	TypeMetaAnalysis       = "Meta-Analysis"
	TypeSystematicReview   = "Systematic Review"
	TypeObservationalStudy = "Observational Study"
	TypeReview             = "Review"
	TypeCaseReports        = "Case Reports"
)

type entry struct {
	name  string
	token string
}

var journals = []entry{
	{JournalNEJM, `"N Engl J Med"[Journal]`},
	{JournalLancet, `"Lancet"[Journal]`},
	{JournalJAMA, `"JAMA"[Journal]`},
	{JournalBMJ, `"BMJ"[Journal]`},
	{JournalNatureMedicine, `"Nat Med"[Journal]`},
}

var publicationTypes = []entry{
	{TypeClinicalTrial, `"Clinical Trial"[Publication Type]`},
	{TypeRandomizedTrial, `"Randomized Controlled Trial"[Publication Type]`},
	{TypeMetaAnalysis, `"Meta-Analysis"[Publication Type]`},
	{TypeSystematicReview, `"Systematic Review"[Publication Type]`},
	{TypeObservationalStudy, `"Observational Study"[Publication Type]`},
	{TypeReview, `"Review"[Publication Type]`},
	{TypeCaseReports, `"Case Reports"[Publication Type]`},
}

type matchKind int

const (
	matchSubstring matchKind = iota
	matchExact
)

type journalPattern struct {
	kind      matchKind
	pattern   string
	canonical string
}

// Tested in order; the first match wins.
var journalPatterns = []journalPattern{
	{matchSubstring, "New England", JournalNEJM},
	{matchExact, "N Engl J Med", JournalNEJM},
	{matchExact, "Lancet", JournalLancet},
	{matchExact, "The Lancet", JournalLancet},
	{matchExact, "Lancet (London, England)", JournalLancet},
	{matchSubstring, "Journal of the American Medical Association", JournalJAMA},
	{matchExact, "JAMA", JournalJAMA},
	{matchSubstring, "British Medical Journal", JournalBMJ},
	{matchExact, "BMJ", JournalBMJ},
	{matchExact, "BMJ (Clinical research ed.)", JournalBMJ},
	{matchSubstring, "Nature Medicine", JournalNatureMedicine},
	{matchExact, "Nat Med", JournalNatureMedicine},
}

var trialKeywords = []string{
	"clinical trial",
	"randomized controlled trial",
	"meta-analysis",
	"systematic review",
}

// JournalNames returns every tracked journal in a fixed order.
func JournalNames() []string {
	return names(journals)
}

// JournalQueryToken returns the PubMed query token of a tracked journal.
func JournalQueryToken(name string) (string, bool) {
	return lookup(journals, name)
}

// PublicationTypeNames returns every supported publication type in a fixed order.
func PublicationTypeNames() []string {
	return names(publicationTypes)
}

// PublicationTypeQueryToken returns the PubMed query token of a publication type.
func PublicationTypeQueryToken(name string) (string, bool) {
	return lookup(publicationTypes, name)
}

// IsTrackedJournal reports whether name is one of the canonical journals.
func IsTrackedJournal(name string) bool {
	_, ok := lookup(journals, name)
	return ok
}

// ReconcileJournal maps a raw journal title to its canonical name. Titles that
// match no pattern are returned unchanged.
func ReconcileJournal(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, p := range journalPatterns {
		pattern := strings.ToLower(p.pattern)
		switch p.kind {
		case matchExact:
			if lower == pattern {
				return p.canonical
			}
		case matchSubstring:
			if strings.Contains(lower, pattern) {
				return p.canonical
			}
		}
	}
	return raw
}

// IsTrialPublicationType reports whether any token names a trial-grade study design.
func IsTrialPublicationType(tokens []string) bool {
	for _, token := range tokens {
		lower := strings.ToLower(token)
		for _, kw := range trialKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func names(entries []entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
	}
	return out
}

func lookup(entries []entry, name string) (string, bool) {
	for _, e := range entries {
		if e.name == name {
			return e.token, true
		}
	}
	return "", false
}
