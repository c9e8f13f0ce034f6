package pubmed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"LiteratureScanner/internal/normalize"
)

type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation *medlineCitation `xml:"MedlineCitation"`
	PubmedData      *pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID    *text    `xml:"PMID"`
	Article *article `xml:"Article"`
}

type article struct {
	Journal          *journal      `xml:"Journal"`
	ArticleTitle     *markup       `xml:"ArticleTitle"`
	VernacularTitle  *markup       `xml:"VernacularTitle"`
	ELocationIDs     []elocationID `xml:"ELocationID"`
	Abstract         *abstract     `xml:"Abstract"`
	AuthorList       *authorList   `xml:"AuthorList"`
	PublicationTypes []text        `xml:"PublicationTypeList>PublicationType"`
}

type journal struct {
	Title   *text    `xml:"Title"`
	PubDate *pubDate `xml:"JournalIssue>PubDate"`
}

type pubDate struct {
	Year        *text `xml:"Year"`
	Month       *text `xml:"Month"`
	Day         *text `xml:"Day"`
	MedlineDate *text `xml:"MedlineDate"`
}

type elocationID struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

type abstract struct {
	Texts []abstractText `xml:"AbstractText"`
}

type abstractText struct {
	Label *string `xml:"Label,attr"`
	Inner string  `xml:",innerxml"`
}

type authorList struct {
	Authors []author `xml:"Author"`
}

type author struct {
	LastName       *text `xml:"LastName"`
	Initials       *text `xml:"Initials"`
	CollectiveName *text `xml:"CollectiveName"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

type text struct {
	Value string `xml:",chardata"`
}

type markup struct {
	Inner string `xml:",innerxml"`
}

// DecodeRecords parses an efetch PubmedArticleSet document. Entries without a
// MedlineCitation/Article container are skipped and counted.
func DecodeRecords(payload []byte) ([]normalize.Record, int, error) {
	var set articleSet
	if err := xml.NewDecoder(bytes.NewReader(payload)).Decode(&set); err != nil {
		return nil, 0, fmt.Errorf("%w: decode article set: %v", ErrInvalidResponse, err)
	}

	records := make([]normalize.Record, 0, len(set.Articles))
	skipped := 0
	for _, entry := range set.Articles {
		rec, ok := toRecord(entry)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func toRecord(entry pubmedArticle) (normalize.Record, bool) {
	citation := entry.MedlineCitation
	if citation == nil || citation.Article == nil {
		return normalize.Record{}, false
	}
	art := citation.Article

	rec := normalize.Record{
		PMID:            textPtr(citation.PMID),
		Title:           markupPtr(art.ArticleTitle),
		VernacularTitle: markupPtr(art.VernacularTitle),
		DOI:             findDOI(entry.PubmedData, art.ELocationIDs),
	}

	if art.Abstract != nil {
		for _, seg := range art.Abstract.Texts {
			rec.AbstractSegments = append(rec.AbstractSegments, normalize.Segment{
				Label: seg.Label,
				Text:  plainText(seg.Inner),
			})
		}
	}

	if art.AuthorList != nil {
		for _, a := range art.AuthorList.Authors {
			rec.Authors = append(rec.Authors, normalize.Author{
				LastName:       textPtr(a.LastName),
				Initials:       textPtr(a.Initials),
				CollectiveName: textPtr(a.CollectiveName),
			})
		}
	}

	if j := art.Journal; j != nil {
		rec.JournalTitle = textPtr(j.Title)
		if d := j.PubDate; d != nil {
			rec.PubYear = textPtr(d.Year)
			if rec.PubYear == nil || *rec.PubYear == "" {
				rec.PubYear = medlineYear(d.MedlineDate)
			}
			rec.PubMonth = textPtr(d.Month)
			rec.PubDay = textPtr(d.Day)
		}
	}

	for _, pt := range art.PublicationTypes {
		if v := strings.TrimSpace(pt.Value); v != "" {
			rec.PublicationTypes = append(rec.PublicationTypes, v)
		}
	}

	return rec, true
}

func findDOI(data *pubmedData, locations []elocationID) *string {
	if data != nil {
		for _, id := range data.ArticleIDs {
			if strings.EqualFold(id.Type, "doi") && strings.TrimSpace(id.Value) != "" {
				return normalize.Str(strings.TrimSpace(id.Value))
			}
		}
	}
	for _, loc := range locations {
		if strings.EqualFold(loc.Type, "doi") && strings.TrimSpace(loc.Value) != "" {
			return normalize.Str(strings.TrimSpace(loc.Value))
		}
	}
	return nil
}

// medlineYear takes the leading year of a free-form MedlineDate such as
// "2024 Mar-Apr" or "1998 Dec-1999 Jan".
func medlineYear(t *text) *string {
	if t == nil {
		return nil
	}
	v := strings.TrimSpace(t.Value)
	if len(v) < 4 {
		return nil
	}
	for _, r := range v[:4] {
		if r < '0' || r > '9' {
			return nil
		}
	}
	return normalize.Str(v[:4])
}

func textPtr(t *text) *string {
	if t == nil {
		return nil
	}
	return normalize.Str(strings.TrimSpace(t.Value))
}

func markupPtr(m *markup) *string {
	if m == nil {
		return nil
	}
	return normalize.Str(plainText(m.Inner))
}

// plainText drops inline markup (<i>, <sup>, MathML...) and decodes entities.
func plainText(inner string) string {
	if !strings.ContainsAny(inner, "<&") {
		return strings.TrimSpace(inner)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(doc.Text())
}
