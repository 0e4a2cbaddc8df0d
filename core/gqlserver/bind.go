package gqlserver

import (
	"encoding/json"
	"path"
	"reflect"
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

func makeFieldIndexResolver(index []int) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		r, e := reflect.Indirect(reflect.ValueOf(p.Source)).FieldByIndexErr(index)
		if e != nil {
			return nil, nil
		}
		return r.Interface(), nil
	}
}

// FieldTypes contains known GraphQL types of fields.
//
// Types absent from FieldTypes are resolved as follows:
//   - time.Time becomes DateTime.
//   - A type implementing json.Marshaler, such as a tagged scalar, becomes the JSON scalar.
//   - A struct becomes an object type named after its package and type name, bound with the same FieldTypes.
//     It is created once per struct type and can only appear in output types.
type FieldTypes map[reflect.Type]graphql.Type

var (
	typeTime          = reflect.TypeFor[time.Time]()
	typeJSONMarshaler = reflect.TypeFor[json.Marshaler]()
	structObjects     = map[reflect.Type]*graphql.Object{}
)

func (m FieldTypes) resolveType(typ reflect.Type) graphql.Type {
	if t := m[typ]; t != nil {
		if kind := typ.Kind(); kind == reflect.Pointer || kind == reflect.Slice {
			return t
		}
		return toNonNull(t)
	}

	switch {
	case typ == typeTime:
		return graphql.NewNonNull(graphql.DateTime)
	case typ.Kind() == reflect.Pointer:
		return graphql.GetNullable(m.resolveType(typ.Elem())).(graphql.Type)
	case typ.Implements(typeJSONMarshaler):
		return NonNullJSON
	}

	switch typ.Kind() {
	case reflect.Slice:
		return graphql.NewList(m.resolveType(typ.Elem()))
	case reflect.Array:
		return graphql.NewNonNull(graphql.NewList(m.resolveType(typ.Elem())))
	case reflect.Bool:
		return NonNullBoolean
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return NonNullInt
	case reflect.Float32, reflect.Float64:
		// NaN is null, so this would not allow NaN
		return NonNullFloat
	case reflect.String:
		return NonNullString
	case reflect.Struct:
		return graphql.NewNonNull(m.structObject(typ))
	}

	logger.Panic("FieldTypes cannot resolve type", zap.Stringer("type", typ))
	return nil
}

func (m FieldTypes) structObject(typ reflect.Type) *graphql.Object {
	if obj := structObjects[typ]; obj != nil {
		return obj
	}

	fields := graphql.Fields{}
	m.bindFields(reflect.Zero(typ).Interface(), func(name string, p fieldInfo) {
		fields[name] = makeField(p)
	})
	obj := graphql.NewObject(graphql.ObjectConfig{
		Name:   structObjectName(typ),
		Fields: fields,
	})
	structObjects[typ] = obj
	return obj
}

// structObjectName returns a GraphQL type name such as "BinningSpec" for binning.Spec.
func structObjectName(typ reflect.Type) string {
	pkg, name := path.Base(typ.PkgPath()), typ.Name()
	if pkg == "" || pkg == "." || name == "" {
		logger.Panic("FieldTypes cannot name anonymous struct", zap.Stringer("type", typ))
	}
	return strings.ToUpper(pkg[:1]) + pkg[1:] + strings.ToUpper(name[:1]) + name[1:]
}

func (m FieldTypes) bindFields(zero any, save func(name string, p fieldInfo)) {
	typ := reflect.TypeOf(zero)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() {
			continue
		}

		jsonTag, ok := field.Tag.Lookup("json")
		if !ok || jsonTag == "-" {
			continue
		}
		jsonTokens := strings.Split(jsonTag, ",")
		name := jsonTokens[0]

		p := fieldInfo{
			Description: field.Tag.Get("gqldesc"),
			Index:       field.Index,
		}

		if dfltTag, ok := field.Tag.Lookup("gqldflt"); ok {
			dfltPtr := reflect.New(field.Type)
			if e := json.Unmarshal([]byte(dfltTag), dfltPtr.Interface()); e != nil {
				logger.Panic("cannot parse gqldflt",
					zap.String("field", field.Name),
					zap.Error(e),
				)
			}
			p.Default = dfltPtr.Elem().Interface()
		}

		p.Type = m.resolveType(field.Type)
		if p.Default != nil || (len(jsonTokens) >= 2 && jsonTokens[1] == "omitempty") {
			p.Type = graphql.GetNullable(p.Type).(graphql.Type)
		}

		save(name, p)
	}
}

type fieldInfo struct {
	Description string
	Default     any
	Type        graphql.Type
	Index       []int
}

func bindFieldsGeneric[T any, M ~map[string]*F, F any](m FieldTypes, convert func(fieldInfo) *F) M {
	fields := M{}
	var zero T
	m.bindFields(zero, func(name string, p fieldInfo) {
		fields[name] = convert(p)
	})
	return fields
}

func makeField(p fieldInfo) *graphql.Field {
	return &graphql.Field{
		Description: p.Description,
		Type:        p.Type,
		Resolve:     makeFieldIndexResolver(p.Index),
	}
}

// BindFields creates graphql.Fields from a struct.
// Field resolvers can accept either T or *T as source object.
func BindFields[T any](m FieldTypes) graphql.Fields {
	return bindFieldsGeneric[T, graphql.Fields](m, makeField)
}

// BindInputFields creates graphql.InputObjectConfigFieldMap from a struct.
func BindInputFields[T any](m FieldTypes) graphql.InputObjectConfigFieldMap {
	return bindFieldsGeneric[T, graphql.InputObjectConfigFieldMap](m, func(p fieldInfo) *graphql.InputObjectFieldConfig {
		return &graphql.InputObjectFieldConfig{
			Description:  p.Description,
			Type:         p.Type,
			DefaultValue: p.Default,
		}
	})
}

// BindArguments creates graphql.FieldConfigArgument from a struct.
func BindArguments[T any](m FieldTypes) graphql.FieldConfigArgument {
	return bindFieldsGeneric[T, graphql.FieldConfigArgument](m, func(p fieldInfo) *graphql.ArgumentConfig {
		return &graphql.ArgumentConfig{
			Description:  p.Description,
			Type:         p.Type,
			DefaultValue: p.Default,
		}
	})
}
