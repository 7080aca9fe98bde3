package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"example.com/storefront/internal/domain/listing"
)

// queryReader pulls typed options out of a query string. Empty values count
// as absent. The first malformed value is remembered and reported by Err.
type queryReader struct {
	values url.Values
	err    error
}

func newQueryReader(v url.Values) *queryReader {
	return &queryReader{values: v}
}

func (q *queryReader) Err() error { return q.err }

func (q *queryReader) fail(key, reason string) {
	if q.err == nil {
		q.err = listing.InvalidValue(key, reason)
	}
}

func (q *queryReader) raw(key string) (string, bool) {
	v := strings.TrimSpace(q.values.Get(key))
	return v, v != ""
}

func (q *queryReader) String(key string) *string {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	return &v
}

func (q *queryReader) Float(key string) *float64 {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		q.fail(key, "must be a number")
		return nil
	}
	return &f
}

func (q *queryReader) Bool(key string) *bool {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(key, "must be true or false")
		return nil
	}
	return &b
}

func (q *queryReader) Int(key string, def int) int {
	v, ok := q.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fail(key, "must be an integer")
		return def
	}
	return n
}

func (q *queryReader) IntPtr(key string) *int {
	if _, ok := q.raw(key); !ok {
		return nil
	}
	n := q.Int(key, 0)
	if q.err != nil {
		return nil
	}
	return &n
}

func (q *queryReader) Int64Ptr(key string) *int64 {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		q.fail(key, "must be an integer")
		return nil
	}
	return &n
}

func (q *queryReader) Date(key string) *time.Time {
	v, ok := q.raw(key)
	if !ok {
		return nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		q.fail(key, "must be formatted as YYYY-MM-DD")
		return nil
	}
	return &d
}
