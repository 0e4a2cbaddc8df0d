// Package gqlserver provides a GraphQL schema executed in-process.
// It is a singleton and is initialized via init() functions.
package gqlserver

import (
	"context"
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/usnistgov/histcount/core/logging"
	"github.com/usnistgov/histcount/core/version"
	"go.uber.org/zap"
)

var logger = logging.New("gqlserver")

// Schema is the singleton of graphql.SchemaConfig.
// Mutation is nil until the first AddMutation call.
var Schema = graphql.SchemaConfig{
	Query: graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: graphql.Fields{},
	}),
}

// AddQuery adds a top-level query field.
func AddQuery(f *graphql.Field) {
	Schema.Query.AddFieldConfig(f.Name, f)
}

// AddMutation adds a top-level mutation field.
func AddMutation(f *graphql.Field) {
	if Schema.Mutation == nil {
		Schema.Mutation = graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: graphql.Fields{},
		})
	}
	Schema.Mutation.AddFieldConfig(f.Name, f)
}

func init() {
	AddQuery(&graphql.Field{
		Name:        "version",
		Description: "Version information.",
		Type:        graphql.NewNonNull(graphql.NewObject(graphql.ObjectConfig{
			Name:   "Version",
			Fields: BindFields[version.Version](nil),
		})),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return version.V, nil
		},
	})
}

var (
	schemaOnce sync.Once
	schema     graphql.Schema
	schemaErr  error
)

// Prepare builds the schema.
// It must be called after all init() functions have added their fields; later additions are ignored.
func Prepare() error {
	schemaOnce.Do(func() {
		schema, schemaErr = graphql.NewSchema(Schema)
		if schemaErr != nil {
			logger.Error("graphql.NewSchema error", zap.Error(schemaErr))
		}
	})
	return schemaErr
}

// Do executes a query or mutation.
// root is passed to top-level resolvers as p.Info.RootValue.
func Do(ctx context.Context, query string, vars map[string]any, root any) *graphql.Result {
	if e := Prepare(); e != nil {
		return &graphql.Result{Errors: gqlerrors.FormatErrors(e)}
	}
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		RootObject:     map[string]any{rootKey: root},
		Context:        ctx,
	})
}

const rootKey = "root"

// RootValue retrieves the root object passed to Do.
func RootValue(p graphql.ResolveParams) any {
	if m, ok := p.Info.RootValue.(map[string]any); ok {
		return m[rootKey]
	}
	return nil
}
