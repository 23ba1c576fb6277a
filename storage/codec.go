package storage

import (
	"fmt"
	"taskmarket/contract"
	"taskmarket/errors"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// timeKey tags a struct value holding a timestamp. structpb has no time kind and
// a float64 cannot carry nanoseconds, so times travel as RFC 3339 strings.
const timeKey = "$time"

// envelope is what a badger value holds: the document fields plus the metadata
// the store maintains itself.
type envelope struct {
	Fields     contract.Fields
	Version    int64
	CreateTime time.Time
	UpdateTime time.Time
}

func encodeEnvelope(e envelope) ([]byte, error) {
	fields, err := toStruct(e.Fields)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"version":    structpb.NewNumberValue(float64(e.Version)),
		"createTime": timeValue(e.CreateTime),
		"updateTime": timeValue(e.UpdateTime),
		"fields":     structpb.NewStructValue(fields),
	}}
	return proto.Marshal(s)
}

func decodeEnvelope(data []byte) (envelope, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", errors.ErrInvalidDocument, err)
	}
	fields, _ := fromValue(s.Fields["fields"]).(map[string]any)
	createTime, _ := fromValue(s.Fields["createTime"]).(time.Time)
	updateTime, _ := fromValue(s.Fields["updateTime"]).(time.Time)
	return envelope{
		Fields:     contract.Fields(fields),
		Version:    int64(s.Fields["version"].GetNumberValue()),
		CreateTime: createTime,
		UpdateTime: updateTime,
	}, nil
}

func toStruct(fields contract.Fields) (*structpb.Struct, error) {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		value, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		s.Fields[k] = value
	}
	return s, nil
}

func timeValue(t time.Time) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		timeKey: structpb.NewStringValue(t.UTC().Format(time.RFC3339Nano)),
	}})
}

func toValue(v any) (*structpb.Value, error) {
	switch x := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case string:
		return structpb.NewStringValue(x), nil
	case bool:
		return structpb.NewBoolValue(x), nil
	case int:
		return structpb.NewNumberValue(float64(x)), nil
	case int32:
		return structpb.NewNumberValue(float64(x)), nil
	case int64:
		return structpb.NewNumberValue(float64(x)), nil
	case float32:
		return structpb.NewNumberValue(float64(x)), nil
	case float64:
		return structpb.NewNumberValue(x), nil
	case time.Time:
		return timeValue(x), nil
	case []string:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(x))}
		for i, s := range x {
			list.Values[i] = structpb.NewStringValue(s)
		}
		return structpb.NewListValue(list), nil
	case []any:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(x))}
		for i, item := range x {
			value, err := toValue(item)
			if err != nil {
				return nil, err
			}
			list.Values[i] = value
		}
		return structpb.NewListValue(list), nil
	case contract.Fields:
		s, err := toStruct(x)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	case map[string]any:
		s, err := toStruct(x)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", errors.ErrInvalidDocument, v)
	}
}

func fromValue(v *structpb.Value) any {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_ListValue:
		res := make([]any, len(k.ListValue.GetValues()))
		for i, item := range k.ListValue.GetValues() {
			res[i] = fromValue(item)
		}
		return res
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if raw, ok := fields[timeKey]; ok && len(fields) == 1 {
			if t, err := time.Parse(time.RFC3339Nano, raw.GetStringValue()); err == nil {
				return t.UTC()
			}
		}
		res := make(map[string]any, len(fields))
		for key, item := range fields {
			res[key] = fromValue(item)
		}
		return res
	default:
		return nil
	}
}
