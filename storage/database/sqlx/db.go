package sqlxrepos

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// psql builds queries with postgres-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}
