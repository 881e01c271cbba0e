package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/xtding233/luck-curve/internal/luck"
)

var errBadQuery = errors.New("invalid query parameter")

// query reads typed values from URL parameters and remembers every parse failure.
type query struct {
	v    url.Values
	errs []string
}

func newQuery(v url.Values) *query { return &query{v: v} }

func (q *query) has(key string) bool { return q.v.Get(key) != "" }

func (q *query) str(key string) string { return strings.TrimSpace(q.v.Get(key)) }

func (q *query) float(key string) *float64 {
	s := q.str(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.errs = append(q.errs, "invalid "+key)
		return nil
	}
	return &v
}

func (q *query) int(key string) *int {
	s := q.str(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.errs = append(q.errs, "invalid "+key)
		return nil
	}
	return &v
}

func (q *query) uint64(key string) *uint64 {
	s := q.str(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		q.errs = append(q.errs, "invalid "+key)
		return nil
	}
	return &v
}

// ints parses a comma separated list such as "0,5,10".
func (q *query) ints(key string) []int {
	s := q.str(key)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			q.errs = append(q.errs, "invalid "+key)
			return nil
		}
		out = append(out, v)
	}
	return out
}

// params collects formula parameter overrides.
func (q *query) params() luck.Params {
	p := luck.Params{
		PerLevel:   q.float("per_level"),
		Breakpoint: q.int("breakpoint"),
		Rate1:      q.float("rate1"),
		Rate2:      q.float("rate2"),
		Scale:      q.float("scale"),
		Exponent:   q.float("exponent"),
		After:      q.int("after"),
		ExtraRate:  q.float("extra_rate"),
	}
	i, ii, iii := q.int("luck_i"), q.int("luck_ii"), q.int("luck_iii")
	if i != nil || ii != nil || iii != nil {
		c := luck.TierCounts{}
		setInt(&c.I, i)
		setInt(&c.II, ii)
		setInt(&c.III, iii)
		p.Counts = &c
	}
	return p
}

func (q *query) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", errBadQuery, strings.Join(q.errs, "; "))
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func deref[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
