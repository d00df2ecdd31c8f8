package postgres

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// psql builds statements with PostgreSQL $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
