package apiproxy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nozze-app/nozze/internal/shared"
)

// identPattern bounds the column names accepted from request bodies.
// Anything else never reaches the SQL text.
var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func buildList(res Resource, weddingID string, page Page) (string, []any) {
	sql := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		res.Table, res.TenantColumn)
	return sql, []any{weddingID, page.Limit, page.Offset}
}

func buildCount(res Resource, weddingID string) (string, []any) {
	sql := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, res.Table, res.TenantColumn)
	return sql, []any{weddingID}
}

func buildGet(res Resource, weddingID, id string) (string, []any) {
	sql := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 AND %s = $2`, res.Table, res.TenantColumn)
	return sql, []any{id, weddingID}
}

// buildInsert forces the tenant column to the resolved wedding id, whatever
// the caller supplied for it.
func buildInsert(res Resource, weddingID string, body map[string]any) (string, []any, error) {
	record := make(map[string]any, len(body)+1)
	for key, value := range body {
		record[key] = value
	}
	record[res.TenantColumn] = weddingID

	columns := make([]string, 0, len(record))
	for key := range record {
		if !identPattern.MatchString(key) {
			return "", nil, fmt.Errorf("%w: invalid field %q", shared.ErrBadRequest, key)
		}
		columns = append(columns, key)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[col]
	}

	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		res.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return sql, args, nil
}

// buildUpdate strips the immutable id and tenant fields from the body and
// scopes the write by id and wedding in a single predicate.
func buildUpdate(res Resource, weddingID, id string, body map[string]any) (string, []any, error) {
	columns := make([]string, 0, len(body))
	for key := range body {
		if key == "id" || key == "wedding_id" || key == res.TenantColumn {
			continue
		}
		if !identPattern.MatchString(key) {
			return "", nil, fmt.Errorf("%w: invalid field %q", shared.ErrBadRequest, key)
		}
		columns = append(columns, key)
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("%w: no updatable fields", shared.ErrBadRequest)
	}
	sort.Strings(columns)

	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+2)
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, body[col])
	}
	args = append(args, id, weddingID)

	sql := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d AND %s = $%d RETURNING *`,
		res.Table, strings.Join(assignments, ", "), len(columns)+1, res.TenantColumn, len(columns)+2)
	return sql, args, nil
}

func buildDelete(res Resource, weddingID, id string) (string, []any) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND %s = $2`, res.Table, res.TenantColumn)
	return sql, []any{id, weddingID}
}
