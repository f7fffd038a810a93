package venmo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// graphQL posts query to the GraphQL endpoint and decodes its "data" member
// into data. A response carrying "errors" is reported as an API error even
// though the HTTP status is 200.
func (c *Client) graphQL(ctx context.Context, rc *resty.Client, op, operationName, query string, data any) error {
	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}

	req := graphQLRequest{
		OperationName: operationName,
		Query:         query,
		Variables:     map[string]any{},
	}
	if err := c.execute(ctx, rc, op, http.MethodPost, c.options.graphQLURL, nil, req, &envelope); err != nil {
		return err
	}

	if len(envelope.Errors) > 0 {
		return &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: envelope.Errors[0].Message}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: "GraphQL response has no data"}
	}

	if err := json.Unmarshal(envelope.Data, data); err != nil {
		return &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: "malformed GraphQL data", Err: err}
	}

	return nil
}
