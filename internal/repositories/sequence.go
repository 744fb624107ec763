package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// ErrMalformedID is returned for an identifier whose suffix is not a number.
var ErrMalformedID = errors.New("malformed identifier")

var prefixPattern = regexp.MustCompile(`^[A-Z]{1,8}$`)

// Sequence allocates PREFIX-NNN identifiers for one table column.
type Sequence struct {
	Table  string
	Column string
}

type IDAllocator interface {
	Next(ctx context.Context, q Querier, prefix string) (string, error)
}

var (
	RepairCaseSequence = Sequence{Table: "repair_cases", Column: "case_id"}
	SentRepairSequence = Sequence{Table: "sent_repairs", Column: "case_s_id"}
	ProjectSequence    = Sequence{Table: "projects", Column: "p_id"}
	QuotationSequence  = Sequence{Table: "documents", Column: "id"}
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Next returns the identifier after the current maximum under prefix. q must be
// a transaction: the advisory lock it takes is held until commit, so the
// caller's insert happens before any other allocator for the same prefix reads.
func (s Sequence) Next(ctx context.Context, q Querier, prefix string) (string, error) {
	if !prefixPattern.MatchString(prefix) {
		return "", fmt.Errorf("invalid identifier prefix %q", prefix)
	}

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", s.Table+":"+prefix); err != nil {
		return "", fmt.Errorf("lock %s sequence %s: %w", s.Table, prefix, err)
	}

	query, args, err := s.lastQuery(prefix)
	if err != nil {
		return "", err
	}

	var last string
	if err := q.QueryRow(ctx, query, args...).Scan(&last); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("read last %s id: %w", prefix, err)
		}
		last = ""
	}

	return NextID(prefix, last)
}

// lastQuery picks the longest, then greatest, well-formed identifier. Rows whose
// suffix is not purely numeric never match the pattern.
func (s Sequence) lastQuery(prefix string) (string, []interface{}, error) {
	return psql.Select(s.Column).
		From(s.Table).
		Where(sq.Expr(s.Column+" ~ ?", "^"+prefix+"-[0-9]+$")).
		OrderBy("LENGTH("+s.Column+") DESC", s.Column+" DESC").
		Limit(1).
		ToSql()
}

// NextID increments the numeric suffix of last, padding to at least three
// digits. An empty last starts the series at 001.
func NextID(prefix, last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s-%03d", prefix, 1), nil
	}

	suffix, ok := strings.CutPrefix(last, prefix+"-")
	if !ok || suffix == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, last)
	}
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, last)
	}

	return fmt.Sprintf("%s-%03d", prefix, n+1), nil
}
