package contract

import (
	"time"

	"github.com/samber/lo"
)

// Fields is the content of a document. Supported values are nil, string, bool,
// numbers, time.Time, []string, []any, nested maps and the transforms below.
// Numbers always come back from a store as float64.
type Fields map[string]any

func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Strings reads an array of strings, skipping any non string element.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	default:
		return nil
	}
}

func (f Fields) Time(key string) time.Time {
	t, _ := f[key].(time.Time)
	return t
}

// ArrayUnionTransform adds values to an array field, skipping those already present.
// The union is computed by the store atomically with the write.
type ArrayUnionTransform struct {
	Values []string
}

func ArrayUnion(values ...string) ArrayUnionTransform {
	return ArrayUnionTransform{Values: values}
}

// ServerTimestampTransform is replaced by the store's clock at write time.
type ServerTimestampTransform struct{}

var ServerTimestamp = ServerTimestampTransform{}

type Snapshot struct {
	ID         string
	Collection string
	Fields     Fields
	// Version is incremented on every write and used for conditional updates.
	Version    int64
	CreateTime time.Time
	UpdateTime time.Time
}

type QuerySnapshot struct {
	Documents []Snapshot
	ReadTime  time.Time
}

type CreateOptions struct {
	ID string
}

type CreateOption func(*CreateOptions)

// WithDocumentID makes creation idempotent on a caller chosen id.
func WithDocumentID(id string) CreateOption {
	return func(o *CreateOptions) { o.ID = id }
}

func ApplyCreateOptions(opts ...CreateOption) CreateOptions {
	var o CreateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type UpdateOptions struct {
	Version *int64
}

type UpdateOption func(*UpdateOptions)

// WithVersion makes the update conditional: it fails with ErrConflict when the
// stored version is no longer the one read.
func WithVersion(version int64) UpdateOption {
	return func(o *UpdateOptions) { o.Version = lo.ToPtr(version) }
}

func ApplyUpdateOptions(opts ...UpdateOption) UpdateOptions {
	var o UpdateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
