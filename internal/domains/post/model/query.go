package model

import (
	"strconv"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-sql/civil"
)

// ListPostsQuery is the raw query string of GET /posts/.
// Everything is bound as text so that malformed values surface as field errors.
type ListPostsQuery struct {
	Title             string `form:"title" json:"title"`
	AuthorName        string `form:"author_name" json:"author_name"`
	PublishedDate     string `form:"published_date" json:"published_date"`
	PublishedDateFrom string `form:"published_date_from" json:"published_date_from"`
	PublishedDateTo   string `form:"published_date_to" json:"published_date_to"`
	Search            string `form:"search" json:"search"`
	Ordering          string `form:"ordering" json:"ordering"`
	Page              string `form:"page" json:"page"`
}

func (q ListPostsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.PublishedDate, validation.By(dateRule)),
		validation.Field(&q.PublishedDateFrom, validation.By(dateRule)),
		validation.Field(&q.PublishedDateTo, validation.By(dateRule)),
		validation.Field(&q.Page, validation.By(pageRule)),
	)
}

func dateRule(v interface{}) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := civil.ParseDate(s); err != nil {
		return validation.NewError("validation_date", "Enter a valid date.")
	}
	return nil
}

func pageRule(v interface{}) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 1 {
		return validation.NewError("validation_page", "A valid page number is required.")
	}
	return nil
}

// SortField is one ORDER BY key.
type SortField struct {
	Field string
	Desc  bool
}

// Sortable maps the public ordering names.
var Sortable = map[string]bool{
	"published_date": true,
	"title":          true,
}

// DefaultOrdering is newest first.
var DefaultOrdering = []SortField{{Field: "published_date", Desc: true}}

// ListFilter is a validated ListPostsQuery. Zero values impose no restriction.
type ListFilter struct {
	Title         string
	AuthorName    string
	PublishedDate *civil.Date
	DateFrom      *civil.Date
	DateTo        *civil.Date
	SearchTerms   []string
	Ordering      []SortField
	Page          int
}

// Filter validates q and converts it. Errors are validation.Errors keyed by parameter name.
func (q ListPostsQuery) Filter() (ListFilter, error) {
	if err := q.Validate(); err != nil {
		return ListFilter{}, err
	}

	f := ListFilter{
		Title:         strings.TrimSpace(q.Title),
		AuthorName:    strings.TrimSpace(q.AuthorName),
		PublishedDate: parseDate(q.PublishedDate),
		DateFrom:      parseDate(q.PublishedDateFrom),
		DateTo:        parseDate(q.PublishedDateTo),
		SearchTerms:   SearchTerms(q.Search),
		Ordering:      ParseOrdering(q.Ordering),
		Page:          1,
	}
	if q.Page != "" {
		f.Page, _ = strconv.Atoi(q.Page)
	}
	return f, nil
}

func parseDate(s string) *civil.Date {
	if s == "" {
		return nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// SearchTerms splits a search string on whitespace and commas.
func SearchTerms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// ParseOrdering reads "title,-published_date" style input.
// Unknown and repeated fields are dropped; nothing usable yields DefaultOrdering.
func ParseOrdering(s string) []SortField {
	var out []SortField
	seen := make(map[string]bool)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if !Sortable[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, SortField{Field: name, Desc: desc})
	}

	if len(out) == 0 {
		return append([]SortField(nil), DefaultOrdering...)
	}
	return out
}
