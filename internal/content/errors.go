package content

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("document not found")
)

// mapPgError turns a malformed id that reached Postgres into ErrNotFound and
// wraps everything else with the failed operation.
func mapPgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
		return ErrNotFound
	}
	return pkgerrors.Wrap(err, op)
}

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
