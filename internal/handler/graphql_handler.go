package handler

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
)

// GraphQLHandler serves the query endpoint.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a handler around a built schema.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// GraphQLRequest is the standard request envelope.
type GraphQLRequest struct {
	Query         string                 `json:"query" query:"query"`
	OperationName string                 `json:"operationName" query:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Query godoc
// @Summary Execute a GraphQL query
// @Description Runs a query document against the schema. Query-level failures are reported in the errors list of a 200 response.
// @Tags graphql
// @Accept json
// @Produce json
// @Param request body GraphQLRequest true "Query envelope"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /graphql [post]
func (h *GraphQLHandler) Query(c echo.Context) error {
	var req GraphQLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "must provide query string")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})
	return c.JSON(http.StatusOK, result)
}
