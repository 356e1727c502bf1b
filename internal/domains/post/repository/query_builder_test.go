package repository

import (
	"testing"

	"github.com/golang-sql/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"blog-backend/internal/domains/post/model"
)

func date(s string) *civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestQueryBuilder(t *testing.T) {
	b := queryBuilder{timeZone: "UTC"}

	tests := []struct {
		name      string
		filter    model.ListFilter
		wantWhere string
		wantArgs  []any
		wantOrder string
	}{
		{
			name:      "no filters lists active posts newest first",
			filter:    model.ListFilter{},
			wantWhere: "p.active = TRUE",
			wantArgs:  nil,
			wantOrder: `p."published_date" DESC, p.id DESC`,
		},
		{
			name:      "title and author name are escaped substrings",
			filter:    model.ListFilter{Title: "50%_off", AuthorName: "Ada"},
			wantWhere: "p.active = TRUE AND p.title ILIKE $1 AND a.name ILIKE $2",
			wantArgs:  []any{`%50\%\_off%`, "%Ada%"},
			wantOrder: `p."published_date" DESC, p.id DESC`,
		},
		{
			name: "date range shares one time zone argument",
			filter: model.ListFilter{
				DateFrom: date("2024-01-01"),
				DateTo:   date("2024-01-31"),
			},
			wantWhere: "p.active = TRUE" +
				" AND (p.published_date AT TIME ZONE $1)::date >= $2::date" +
				" AND (p.published_date AT TIME ZONE $1)::date <= $3::date",
			wantArgs:  []any{"UTC", "2024-01-01", "2024-01-31"},
			wantOrder: `p."published_date" DESC, p.id DESC`,
		},
		{
			name:      "exact date",
			filter:    model.ListFilter{PublishedDate: date("2024-02-29")},
			wantWhere: "p.active = TRUE AND (p.published_date AT TIME ZONE $1)::date = $2::date",
			wantArgs:  []any{"UTC", "2024-02-29"},
			wantOrder: `p."published_date" DESC, p.id DESC`,
		},
		{
			name:   "every search term matches title or author",
			filter: model.ListFilter{SearchTerms: []string{"django", "rest"}},
			wantWhere: "p.active = TRUE" +
				" AND (p.title ILIKE $1 OR a.name ILIKE $1)" +
				" AND (p.title ILIKE $2 OR a.name ILIKE $2)",
			wantArgs:  []any{"%django%", "%rest%"},
			wantOrder: `p."published_date" DESC, p.id DESC`,
		},
		{
			name: "explicit ordering",
			filter: model.ListFilter{Ordering: []model.SortField{
				{Field: "title"},
				{Field: "published_date", Desc: true},
			}},
			wantWhere: "p.active = TRUE",
			wantArgs:  nil,
			wantOrder: `p."title" ASC, p."published_date" DESC, p.id DESC`,
		},
		{
			name:      "unknown sort fields never reach SQL",
			filter:    model.ListFilter{Ordering: []model.SortField{{Field: "id; DROP TABLE posts"}}},
			wantWhere: "p.active = TRUE",
			wantArgs:  nil,
			wantOrder: "p.id DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := b.build(tt.filter)

			assert.Equal(t, tt.wantWhere, q.where)
			assert.Equal(t, tt.wantOrder, q.orderBy)
			if diff := cmp.Diff(tt.wantArgs, q.args.Values()); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryBuilder_CombinedFiltersAreANDed(t *testing.T) {
	q := queryBuilder{timeZone: "Europe/Paris"}.build(model.ListFilter{
		Title:         "go",
		PublishedDate: date("2024-05-01"),
		SearchTerms:   []string{"tips"},
	})

	want := "p.active = TRUE" +
		" AND p.title ILIKE $1" +
		" AND (p.published_date AT TIME ZONE $2)::date = $3::date" +
		" AND (p.title ILIKE $4 OR a.name ILIKE $4)"
	assert.Equal(t, want, q.where)

	if diff := cmp.Diff([]any{"%go%", "Europe/Paris", "2024-05-01", "%tips%"}, q.args.Values()); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}
