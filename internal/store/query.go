// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
)

// Native sort keys understood by QueryPosts.
const (
	OrderByID         = "ID"
	OrderByPostIn     = "post__in"
	OrderByPostName   = "post_name"
	OrderByPostNameIn = "post_name__in"
	OrderByMenuOrder  = "menu_order"
	OrderByDate       = "date"
	OrderByModified   = "modified"
	OrderByTitle      = "title"
	OrderByParent     = "parent"
	OrderByAuthor     = "author"
	OrderByRelevance  = "relevance"
)

const (
	defaultQueryLimit = 10
	maximumQueryLimit = 100
)

// QueryArgs filters, sorts and paginates a post query.
type QueryArgs struct {
	PostType      string
	Statuses      []string
	Search        string
	Include       []int64
	Exclude       []int64
	Slugs         []string
	Parents       []int64
	ParentExclude []int64
	MenuOrder     *int
	TermIDs       []int64
	OrderBy       string
	Order         string
	Limit         int
	Offset        int
}

// QueryPosts runs a filtered query and returns one page of posts together
// with the total number of matches.
func (q *Queries) QueryPosts(ctx context.Context, args QueryArgs) ([]Post, int64, error) {
	where, params := buildPostFilter(args)

	var total int64
	countSQL := `SELECT COUNT(*) FROM posts p` + where
	if err := q.db.QueryRowContext(ctx, countSQL, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting posts: %w", err)
	}

	orderSQL, orderParams := buildPostOrder(args)
	limit := args.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maximumQueryLimit {
		limit = maximumQueryLimit
	}

	query := `SELECT ` + prefixedPostColumns() + ` FROM posts p` + where + orderSQL + ` LIMIT ? OFFSET ?`
	queryParams := append(append(params, orderParams...), limit, max(args.Offset, 0))

	rows, err := q.db.QueryContext(ctx, query, queryParams...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func prefixedPostColumns() string {
	cols := strings.Split(postColumns, ",")
	for i, c := range cols {
		cols[i] = "p." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func buildPostFilter(args QueryArgs) (string, []any) {
	var (
		conds  []string
		params []any
	)

	if args.PostType != "" {
		conds = append(conds, "p.post_type = ?")
		params = append(params, args.PostType)
	}
	if len(args.Statuses) > 0 {
		conds = append(conds, "p.post_status IN ("+placeholders(len(args.Statuses))+")")
		for _, s := range args.Statuses {
			params = append(params, s)
		}
	}
	if args.Search != "" {
		conds = append(conds, "(p.post_title LIKE ? OR p.post_content LIKE ? OR p.post_excerpt LIKE ?)")
		like := "%" + args.Search + "%"
		params = append(params, like, like, like)
	}
	if len(args.Include) > 0 {
		conds = append(conds, "p.id IN ("+placeholders(len(args.Include))+")")
		params = appendInt64s(params, args.Include)
	}
	if len(args.Exclude) > 0 {
		conds = append(conds, "p.id NOT IN ("+placeholders(len(args.Exclude))+")")
		params = appendInt64s(params, args.Exclude)
	}
	if len(args.Slugs) > 0 {
		conds = append(conds, "p.post_name IN ("+placeholders(len(args.Slugs))+")")
		for _, s := range args.Slugs {
			params = append(params, s)
		}
	}
	if len(args.Parents) > 0 {
		conds = append(conds, "p.post_parent IN ("+placeholders(len(args.Parents))+")")
		params = appendInt64s(params, args.Parents)
	}
	if len(args.ParentExclude) > 0 {
		conds = append(conds, "p.post_parent NOT IN ("+placeholders(len(args.ParentExclude))+")")
		params = appendInt64s(params, args.ParentExclude)
	}
	if args.MenuOrder != nil {
		conds = append(conds, "p.menu_order = ?")
		params = append(params, *args.MenuOrder)
	}
	if len(args.TermIDs) > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM term_relationships tr WHERE tr.object_id = p.id AND tr.term_id IN ("+
			placeholders(len(args.TermIDs))+"))")
		params = appendInt64s(params, args.TermIDs)
	}

	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

func buildPostOrder(args QueryArgs) (string, []any) {
	dir := "DESC"
	if strings.EqualFold(args.Order, "asc") {
		dir = "ASC"
	}

	var params []any
	var expr string
	switch args.OrderBy {
	case OrderByID:
		expr = "p.id"
	case OrderByPostIn:
		if len(args.Include) == 0 {
			expr = "p.id"
			break
		}
		expr, params = caseOrder("p.id", len(args.Include)), int64sToAny(args.Include)
		// The position in the include list is the order, direction does not apply.
		dir = "ASC"
	case OrderByPostName:
		expr = "p.post_name"
	case OrderByPostNameIn:
		if len(args.Slugs) == 0 {
			expr = "p.post_name"
			break
		}
		expr = caseOrder("p.post_name", len(args.Slugs))
		for _, s := range args.Slugs {
			params = append(params, s)
		}
		dir = "ASC"
	case OrderByMenuOrder:
		expr = "p.menu_order"
	case OrderByModified:
		expr = "p.updated_at"
	case OrderByTitle:
		expr = "p.post_title"
	case OrderByParent:
		expr = "p.post_parent"
	case OrderByAuthor:
		expr = "p.post_author"
	case OrderByRelevance:
		if args.Search == "" {
			expr = "p.created_at"
			break
		}
		expr = "CASE WHEN p.post_title LIKE ? THEN 0 ELSE 1 END"
		params = append(params, "%"+args.Search+"%")
	default:
		expr = "p.created_at"
	}

	// Ties fall back to insertion order.
	return " ORDER BY " + expr + " " + dir + ", p.id ASC", params
}

func caseOrder(column string, n int) string {
	var b strings.Builder
	b.WriteString("CASE " + column)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, " WHEN ? THEN %d", i)
	}
	fmt.Fprintf(&b, " ELSE %d END", n)
	return b.String()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func appendInt64s(params []any, ids []int64) []any {
	for _, id := range ids {
		params = append(params, id)
	}
	return params
}

func int64sToAny(ids []int64) []any {
	return appendInt64s(nil, ids)
}
