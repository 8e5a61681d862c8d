// Package graph builds the read-only GraphQL schema served at /graphql.
package graph

import (
	"github.com/graphql-go/graphql"

	"userbase/internal/service"
)

// NewSchema assembles the root query type from the per-entity query
// contributions. User is the only contributor today; additional entities
// merge their fields here.
func NewSchema(users service.UserService) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range userQueryFields(users) {
		fields[name] = field
	}

	root := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}
