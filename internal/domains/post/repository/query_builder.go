package repository

import (
	"fmt"
	"strings"

	"github.com/golang-sql/civil"
	"github.com/lib/pq"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/utils"
)

// listQuery is the WHERE and ORDER BY of a post listing with its positional arguments.
type listQuery struct {
	where   string
	orderBy string
	args    utils.Args
}

// queryBuilder composes list predicates. Dates are compared as calendar days in timeZone.
type queryBuilder struct {
	timeZone string
}

func (b queryBuilder) build(f model.ListFilter) *listQuery {
	q := &listQuery{}

	// Inactive posts are never listed, whoever asks.
	conditions := []string{"p.active = TRUE"}

	if f.Title != "" {
		conditions = append(conditions, "p.title ILIKE "+q.args.Add(utils.ContainsPattern(f.Title)))
	}
	if f.AuthorName != "" {
		conditions = append(conditions, "a.name ILIKE "+q.args.Add(utils.ContainsPattern(f.AuthorName)))
	}

	if f.PublishedDate != nil || f.DateFrom != nil || f.DateTo != nil {
		day := fmt.Sprintf("(p.published_date AT TIME ZONE %s)::date", q.args.Add(b.timeZone))
		addDate := func(op string, d *civil.Date) {
			if d != nil {
				conditions = append(conditions, fmt.Sprintf("%s %s %s::date", day, op, q.args.Add(d.String())))
			}
		}
		addDate("=", f.PublishedDate)
		addDate(">=", f.DateFrom)
		addDate("<=", f.DateTo)
	}

	// Each search term must hit the title or the author name.
	for _, term := range f.SearchTerms {
		pattern := q.args.Add(utils.ContainsPattern(term))
		conditions = append(conditions, "("+utils.JoinWithOr([]string{
			"p.title ILIKE " + pattern,
			"a.name ILIKE " + pattern,
		})+")")
	}

	q.where = utils.JoinWithAnd(conditions)
	q.orderBy = orderClause(f.Ordering)
	return q
}

func orderClause(fields []model.SortField) string {
	if len(fields) == 0 {
		fields = model.DefaultOrdering
	}

	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if !model.Sortable[f.Field] {
			continue
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, "p."+pq.QuoteIdentifier(f.Field)+" "+dir)
	}
	parts = append(parts, "p.id DESC")
	return strings.Join(parts, ", ")
}
