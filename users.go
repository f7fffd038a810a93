package venmo

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode"
)

type userResponse struct {
	Data userPayload `json:"data"`
}

type userSearchResponse struct {
	Data []userPayload `json:"data"`
}

// LookupUser resolves a username, user id, email address or phone number to
// a Venmo user. Usernames and ids are read directly; emails and phone numbers
// go through user search and the first match wins. A miss is reported as a
// not-found error.
func (c *Client) LookupUser(ctx context.Context, query string) (*User, error) {
	const op = "lookup user"

	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError(op, "query must be set")
	}

	if kind := queryKind(query); kind != "" {
		params := url.Values{}
		params.Set("query", query)
		params.Set("type", kind)
		params.Set("limit", "1")

		var resp userSearchResponse
		if err := c.execute(ctx, rc, op, http.MethodGet, "/users", params, nil, &resp); err != nil {
			return nil, err
		}

		if len(resp.Data) == 0 || resp.Data[0].ID == "" {
			return nil, &Error{Kind: KindNotFound, Op: op, StatusCode: http.StatusOK, Message: "no user matches " + kind}
		}

		user := resp.Data[0].user()

		return &user, nil
	}

	var resp userResponse
	path := "/users/" + url.PathEscape(strings.TrimPrefix(query, "@"))
	if err := c.execute(ctx, rc, op, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Data.ID == "" {
		return nil, &Error{Kind: KindNotFound, Op: op, StatusCode: http.StatusOK, Message: "Resource not found."}
	}

	user := resp.Data.user()

	return &user, nil
}

// queryKind returns "email" or "phone" for queries that need user search, or
// "" for usernames and user ids. Venmo user ids are long digit strings, so
// only 10 or 11 digit numbers or "+"-prefixed numbers count as phones.
func queryKind(query string) string {
	if strings.Contains(query, "@") && !strings.HasPrefix(query, "@") {
		return "email"
	}

	digits := 0
	for _, r := range query {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return ""
		}
	}

	if strings.HasPrefix(query, "+") || digits == 10 || digits == 11 {
		return "phone"
	}

	return ""
}
