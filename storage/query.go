package storage

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"taskmarket/contract"
	"taskmarket/errors"
	"time"

	"github.com/samber/lo"
)

// validateCollection accepts slash separated paths with an odd number of segments,
// e.g. "posts" or "chats/{chatId}/messages".
func validateCollection(collection string) error {
	segments := strings.Split(collection, "/")
	if collection == "" || strings.Contains(collection, ":") || len(segments)%2 == 0 ||
		lo.Contains(segments, "") {
		return fmt.Errorf("%w: collection %q", errors.ErrInvalidDocument, collection)
	}
	return nil
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/:") {
		return fmt.Errorf("%w: document id %q", errors.ErrInvalidDocument, id)
	}
	return nil
}

// applyWrite computes the fields stored by a write, resolving transforms.
// Without merge the previous fields are discarded.
func applyWrite(existing, patch contract.Fields, merge bool, now time.Time) contract.Fields {
	res := contract.Fields{}
	if merge {
		for k, v := range existing {
			res[k] = v
		}
	}
	for k, v := range patch {
		switch t := v.(type) {
		case contract.ServerTimestampTransform:
			res[k] = now
		case contract.ArrayUnionTransform:
			res[k] = lo.Uniq(append(res.Strings(k), t.Values...))
		default:
			res[k] = v
		}
	}
	return res
}

func applyQuery(docs []contract.Snapshot, q contract.Query) []contract.Snapshot {
	res := lo.Filter(docs, func(d contract.Snapshot, _ int) bool {
		return matches(d, q.Filters)
	})
	sortSnapshots(res, q.Orders)
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[:q.Limit]
	}
	return res
}

func matches(doc contract.Snapshot, filters []contract.Filter) bool {
	for _, f := range filters {
		var actual any
		if f.Field == contract.DocumentIDField {
			actual = doc.ID
		} else {
			actual = doc.Fields[f.Field]
		}
		switch f.Op {
		case contract.OpEqual:
			if !equalValues(actual, f.Value) {
				return false
			}
		case contract.OpArrayContains:
			list, ok := normalize(actual).([]any)
			if !ok || !lo.ContainsBy(list, func(item any) bool { return equalValues(item, f.Value) }) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func sortSnapshots(docs []contract.Snapshot, orders []contract.OrderBy) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(docs[i].Fields[o.Field], docs[j].Fields[o.Field])
			if c == 0 {
				continue
			}
			if o.Descending {
				return c > 0
			}
			return c < 0
		}
		return docs[i].ID < docs[j].ID
	})
}

// normalize maps every number to float64 and every array to []any, the shapes
// decoded documents have.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case []string:
		return lo.Map(x, func(s string, _ int) any { return s })
	default:
		return v
	}
}

func equalValues(a, b any) bool {
	a, b = normalize(a), normalize(b)
	ta, aIsTime := a.(time.Time)
	tb, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		return aIsTime && bIsTime && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

func compareValues(a, b any) int {
	a, b = normalize(a), normalize(b)
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		return x.Compare(b.(time.Time))
	case string:
		return strings.Compare(x, b.(string))
	default:
		return 0
	}
}
