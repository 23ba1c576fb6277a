package contract

// DocumentIDField filters on the document id instead of a field.
const DocumentIDField = "__name__"

type FilterOp int

const (
	OpEqual FilterOp = iota
	OpArrayContains
)

type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

type OrderBy struct {
	Field      string
	Descending bool
}

type Query struct {
	Collection string
	Filters    []Filter
	Orders     []OrderBy
	Limit      int
}

func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

func (q Query) Where(field string, op FilterOp, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(field string, descending bool) Query {
	q.Orders = append(append([]OrderBy(nil), q.Orders...), OrderBy{Field: field, Descending: descending})
	return q
}

func (q Query) WithLimit(limit int) Query {
	q.Limit = limit
	return q
}

// DocumentQuery watches a single document.
func DocumentQuery(collection, id string) Query {
	return NewQuery(collection).Where(DocumentIDField, OpEqual, id)
}
