package gqlserver

import (
	tools_scalars "github.com/bhoriuchi/graphql-go-tools/scalars"
	"github.com/graphql-go/graphql"
	"github.com/usnistgov/histcount/core/jsonhelper"
)

// Scalar types.
var (
	JSON = tools_scalars.ScalarJSON

	NonNullJSON    = graphql.NewNonNull(JSON)
	NonNullBoolean = graphql.NewNonNull(graphql.Boolean)
	NonNullInt     = graphql.NewNonNull(graphql.Int)
	NonNullFloat   = graphql.NewNonNull(graphql.Float)
	NonNullString  = graphql.NewNonNull(graphql.String)
)

func toNonNull(ofType graphql.Type) graphql.Type {
	if _, ok := ofType.(*graphql.NonNull); ok {
		return ofType
	}
	return graphql.NewNonNull(ofType)
}

// NewListNonNullBoth constructs [T!]! type.
func NewListNonNullBoth(ofType graphql.Type) graphql.Type {
	return graphql.NewNonNull(graphql.NewList(toNonNull(ofType)))
}

// DecodeJSON decodes JSON argument into pointer.
func DecodeJSON(arg any, ptr any) error {
	return jsonhelper.Roundtrip(arg, ptr)
}
