package gqlserver_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/gqlserver"
	"github.com/usnistgov/histcount/core/testenv"
	"github.com/usnistgov/histcount/value"
)

var makeAR = testenv.MakeAR

type bindTestA struct {
	NoTag       int
	Skip        int     `json:"-"`
	RequiredInt int     `json:"requiredInt"`
	OptionalInt int     `json:"optionalInt,omitempty"`
	Bool        bool    `json:"bool"`
	Float       float64 `json:"float"`
	String      string  `json:"string"`
	Slice       []int   `json:"slice"`
	Array       [2]int  `json:"array"`
}

type bindTestB struct {
	V *int `json:"v"`
}

func makeBindTestB(v int) (b bindTestB) {
	b.V = &v
	return b
}

type bindTestC struct {
	bindTestA
	RequiredB bindTestB  `json:"requiredB"`
	OptionalB *bindTestB `json:"optionalB"`
}

var gqlTypeB = graphql.NewObject(graphql.ObjectConfig{
	Name:   "B",
	Fields: gqlserver.BindFields[bindTestB](nil),
})

var bindTypesC = map[string]graphql.Type{
	"requiredInt": gqlserver.NonNullInt,
	"optionalInt": graphql.Int,
	"bool":        gqlserver.NonNullBoolean,
	"float":       gqlserver.NonNullFloat,
	"string":      gqlserver.NonNullString,
	"slice":       graphql.NewList(gqlserver.NonNullInt),
	"array":       graphql.NewNonNull(graphql.NewList(gqlserver.NonNullInt)),
	"requiredB":   graphql.NewNonNull(gqlTypeB),
	"optionalB":   gqlTypeB,
}

type bindTestD struct {
	M map[string]int `json:"m"`
}

type bindTestE struct {
	Value    value.Value   `json:"value"`
	OptValue *value.Value  `json:"optValue"`
	Values   []value.Value `json:"values"`
	Spec     binning.Spec  `json:"spec"`
	Time     time.Time     `json:"time"`
}

func TestBindFields(t *testing.T) {
	assert, _ := makeAR(t)
	assert.Panics(func() { gqlserver.BindFields[bindTestD](nil) })

	fC := gqlserver.BindFields[bindTestC](gqlserver.FieldTypes{
		reflect.TypeFor[bindTestB](): gqlTypeB,
	})
	assert.Len(fC, len(bindTypesC))
	for fieldName, fieldType := range bindTypesC {
		assert.Equal(fieldType, fC[fieldName].Type, "%s", fieldName)
	}

	vC := bindTestC{
		bindTestA: bindTestA{
			RequiredInt: 10,
		},
		RequiredB: makeBindTestB(20),
		OptionalB: nil,
	}
	if v, e := fC["requiredInt"].Resolve(graphql.ResolveParams{Source: vC}); assert.NoError(e) {
		assert.Equal(10, v)
	}
	if v, e := fC["optionalInt"].Resolve(graphql.ResolveParams{Source: vC}); assert.NoError(e) {
		assert.Equal(0, v)
	}
	if v, e := fC["requiredB"].Resolve(graphql.ResolveParams{Source: vC}); assert.NoError(e) {
		if b, ok := v.(bindTestB); assert.True(ok) && assert.NotNil(b.V) {
			assert.Equal(20, *b.V)
		}
	}
	if v, e := fC["optionalB"].Resolve(graphql.ResolveParams{Source: &vC}); assert.NoError(e) {
		assert.Nil(v)
	}

	vC.OptionalB = &bindTestB{}
	*vC.OptionalB = makeBindTestB(30)
	if v, e := fC["optionalB"].Resolve(graphql.ResolveParams{Source: vC}); assert.NoError(e) {
		if b, ok := v.(*bindTestB); assert.True(ok) && assert.NotNil(b.V) {
			assert.Equal(30, *b.V)
		}
	}
}

func TestBindKnownTypes(t *testing.T) {
	assert, require := makeAR(t)

	fE := gqlserver.BindFields[bindTestE](nil)
	assert.Equal(gqlserver.NonNullJSON, fE["value"].Type)
	assert.Equal(gqlserver.JSON, fE["optValue"].Type)
	assert.Equal(graphql.NewList(gqlserver.NonNullJSON), fE["values"].Type)
	assert.Equal(graphql.NewNonNull(graphql.DateTime), fE["time"].Type)

	specType, ok := fE["spec"].Type.(*graphql.NonNull)
	require.True(ok)
	specObject, ok := specType.OfType.(*graphql.Object)
	require.True(ok)
	assert.Equal("BinningSpec", specObject.Name())
	assert.Contains(specObject.Fields(), "width")
	assert.Contains(specObject.Fields(), "edges")
	assert.Equal(gqlserver.NonNullJSON, specObject.Fields()["offset"].Type)

	again := gqlserver.BindFields[bindTestE](nil)
	assert.Same(specType.OfType, again["spec"].Type.(*graphql.NonNull).OfType)

	vE := bindTestE{Value: value.Str("a"), Spec: binning.Uniform(2, 1)}
	if v, e := fE["value"].Resolve(graphql.ResolveParams{Source: vE}); assert.NoError(e) {
		assert.Equal(value.Str("a"), v)
	}
	if v, e := specObject.Fields()["width"].Resolve(graphql.ResolveParams{Source: vE.Spec}); assert.NoError(e) {
		assert.Equal(2.0, v)
	}
}

func TestBindInputFields(t *testing.T) {
	assert, _ := makeAR(t)
	assert.Panics(func() { gqlserver.BindInputFields[bindTestD](nil) })

	iC := gqlserver.BindInputFields[bindTestC](gqlserver.FieldTypes{
		reflect.TypeFor[bindTestB](): gqlTypeB,
	})
	assert.Len(iC, len(bindTypesC))
	for fieldName, fieldType := range bindTypesC {
		assert.Equal(fieldType, iC[fieldName].Type, "%s", fieldName)
	}
}
