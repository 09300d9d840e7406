package db

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// identRe constrains table and column names to plain SQL identifiers so
// that only values ever travel as parameters.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// typeRe is looser: column types may contain spaces and parentheses
// ("VARCHAR(64)", "SERIAL PRIMARY KEY") but nothing that could close a
// statement.
var typeRe = regexp.MustCompile(`^[A-Za-z0-9_() ]+$`)

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrBadIdentifier, name)
	}
	return nil
}

// sortedKeys gives builders a deterministic column order; map iteration
// order would make the generated SQL flap between calls.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildCreateTable(table string, cols []Column) (string, error) {
	if err := checkIdent(table); err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", ErrNoValues
	}
	defs := make([]string, len(cols))
	for i, col := range cols {
		if err := checkIdent(col.Name); err != nil {
			return "", err
		}
		if !typeRe.MatchString(col.Type) {
			return "", fmt.Errorf("%w: column type %q", ErrBadIdentifier, col.Type)
		}
		defs[i] = col.Name + " " + col.Type
	}
	return "CREATE TABLE IF NOT EXISTS " + table + " (" + strings.Join(defs, ", ") + ")", nil
}

func buildDropTable(table string) (string, error) {
	if err := checkIdent(table); err != nil {
		return "", err
	}
	return "DROP TABLE IF EXISTS " + table, nil
}

func buildInsert(table string, row map[string]any) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(row) == 0 {
		return "", nil, ErrNoValues
	}
	cols := sortedKeys(row)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[col]
	}
	sql := "INSERT INTO " + table +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return sql, args, nil
}

func buildUpdate(table string, set, where map[string]any) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(set) == 0 {
		return "", nil, ErrNoValues
	}
	if len(where) == 0 {
		return "", nil, ErrEmptyWhere
	}
	var args []any
	assigns := make([]string, 0, len(set))
	for _, col := range sortedKeys(set) {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		args = append(args, set[col])
		assigns = append(assigns, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	cond, args, err := buildWhere(where, args)
	if err != nil {
		return "", nil, err
	}
	sql := "UPDATE " + table + " SET " + strings.Join(assigns, ", ") + cond
	return sql, args, nil
}

func buildDelete(table string, where map[string]any) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(where) == 0 {
		return "", nil, ErrEmptyWhere
	}
	cond, args, err := buildWhere(where, nil)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + table + cond, args, nil
}

func buildSelect(table string, cols []string, where map[string]any) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	projection := "*"
	if len(cols) > 0 {
		for _, col := range cols {
			if err := checkIdent(col); err != nil {
				return "", nil, err
			}
		}
		projection = strings.Join(cols, ", ")
	}
	cond, args, err := buildWhere(where, nil)
	if err != nil {
		return "", nil, err
	}
	return "SELECT " + projection + " FROM " + table + cond, args, nil
}

// buildWhere renders an AND-joined equality condition, appending to args.
// An empty map renders no condition at all.
func buildWhere(where map[string]any, args []any) (string, []any, error) {
	if len(where) == 0 {
		return "", args, nil
	}
	conds := make([]string, 0, len(where))
	for _, col := range sortedKeys(where) {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		args = append(args, where[col])
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
