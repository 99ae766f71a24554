/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// LayerQuery describes a layer search.
// Text is matched as word prefixes against layer names and text content;
// every word must match. Kinds restricts to node kinds (rect, text, ...).
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type LayerQuery struct {
	Text   string
	Kinds  []string
	Canvas string
	Limit  int
	Offset int
}

// LayerResult is one matching node. Snippet marks the hit with [ ] when
// Text was given.
type LayerResult struct {
	NodeID   string
	Kind     string
	Name     string
	ParentID string
	CanvasID string
	Depth    int
	Snippet  string
}

// SearchLayers runs q over the project's layer index.
// When q.Text is empty, it lists layers in document order with filters applied.
func SearchLayers(ctx context.Context, projectRoot string, q LayerQuery) ([]LayerResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchLayersDB(ctx, db, q)
}

func searchLayersDB(ctx context.Context, db *sql.DB, q LayerQuery) ([]LayerResult, error) {
	var args []any
	var sb strings.Builder
	match := ftsQuery(q.Text)
	if match != "" {
		sb.WriteString("SELECT l.node_id, l.kind, l.name, COALESCE(l.parent_id,''), l.canvas_id, l.depth, snippet(fts_layers, -1, '[', ']', '…', 8)\n")
		sb.WriteString("FROM fts_layers JOIN layers l ON fts_layers.rowid = l.layer_id\n")
		sb.WriteString("WHERE fts_layers MATCH ?\n")
		args = append(args, match)
	} else {
		sb.WriteString("SELECT l.node_id, l.kind, l.name, COALESCE(l.parent_id,''), l.canvas_id, l.depth, ''\n")
		sb.WriteString("FROM layers l\nWHERE 1=1\n")
	}
	if len(q.Kinds) > 0 {
		sb.WriteString(" AND l.kind IN (" + placeholders(len(q.Kinds)) + ")\n")
		for _, k := range q.Kinds {
			args = append(args, strings.ToLower(strings.TrimSpace(k)))
		}
	}
	if c := strings.TrimSpace(q.Canvas); c != "" {
		sb.WriteString(" AND l.canvas_id = ?\n")
		args = append(args, c)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY l.layer_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("layer search query: %w", err)
	}
	defer rows.Close()
	var out []LayerResult
	for rows.Next() {
		var r LayerResult
		var sn sql.NullString
		if err := rows.Scan(&r.NodeID, &r.Kind, &r.Name, &r.ParentID, &r.CanvasID, &r.Depth, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ftsQuery turns free text into an FTS5 query of quoted prefix terms, so
// user input never reaches the FTS5 grammar unescaped.
func ftsQuery(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
