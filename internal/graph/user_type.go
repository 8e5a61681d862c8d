package graph

import (
	"strings"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"userbase/internal/model"
	"userbase/internal/service"
)

// userType declares the queryable User fields. Credential material is
// deliberately absent: asking for it fails query validation.
var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return int(u.ID), nil
			}),
		},
		"username": &graphql.Field{
			Type: graphql.String,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.Username, nil
			}),
		},
		"email": &graphql.Field{
			Type: graphql.String,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.Email, nil
			}),
		},
		"firstName": &graphql.Field{
			Type: graphql.String,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.FirstName, nil
			}),
		},
		"lastName": &graphql.Field{
			Type: graphql.String,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.LastName, nil
			}),
		},
		"role": &graphql.Field{
			Type: graphql.String,
			// Stored codes are already lower-case; normalize anyway so the
			// wire value is always exactly "admin" or "user".
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return strings.ToLower(string(u.Role)), nil
			}),
		},
		"isActive": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.IsActive, nil
			}),
		},
		"dateJoined": &graphql.Field{
			Type: graphql.DateTime,
			Resolve: resolveUser(func(u *model.User) (interface{}, error) {
				return u.DateJoined, nil
			}),
		},
	},
})

// resolveUser adapts a per-field getter to a graphql resolver, guarding
// against a missing source.
func resolveUser(fn func(u *model.User) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		u, ok := p.Source.(*model.User)
		if !ok || u == nil {
			return nil, nil
		}
		return fn(u)
	}
}

// userQueryFields contributes the User queries to the root query type.
func userQueryFields(users service.UserService) graphql.Fields {
	return graphql.Fields{
		"users": &graphql.Field{
			Type: graphql.NewList(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				all, err := users.ListUsers(p.Context)
				if err != nil {
					return nil, err
				}
				out := make([]*model.User, len(all))
				for i := range all {
					out[i] = &all[i]
				}
				return out, nil
			},
		},
		"user": &graphql.Field{
			Type: userType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.Int),
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(int)
				u, err := users.GetUser(p.Context, id)
				if err != nil {
					// A miss is a null result, not a query error.
					if err == gorm.ErrRecordNotFound {
						return nil, nil
					}
					return nil, err
				}
				return u, nil
			},
		},
	}
}
