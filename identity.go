package venmo

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type accountResponse struct {
	Data struct {
		User             userPayload `json:"user"`
		Balance          flexFloat   `json:"balance"`
		IsLimitedAccount bool        `json:"is_limited_account"`
	} `json:"data"`
}

// GetIdentity returns the authenticated account's profile and balance.
func (c *Client) GetIdentity(ctx context.Context) (*Identity, error) {
	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	return c.fetchIdentity(ctx, rc, "get identity")
}

// GetBalance returns the Venmo balance of the authenticated account.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	identity, err := c.GetIdentity(ctx)
	if err != nil {
		return 0, err
	}

	return identity.Balance, nil
}

func (c *Client) fetchIdentity(ctx context.Context, rc *resty.Client, op string) (*Identity, error) {
	var resp accountResponse
	if err := c.execute(ctx, rc, op, http.MethodGet, "/account", nil, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Data.User.ID == "" {
		return nil, &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: "account response has no user id"}
	}

	if resp.Data.Balance < 0 {
		return nil, &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: "account response has a negative balance"}
	}

	return &Identity{
		User:             resp.Data.User.user(),
		Balance:          float64(resp.Data.Balance),
		IsLimitedAccount: resp.Data.IsLimitedAccount,
	}, nil
}

const identityQuery = `query Identity {
  profile {
    ... on Profile {
      availableIdentities {
        ... on BusinessIdentity {
          handle
          type
        }
        ... on Identity {
          handle
          type
        }
      }
    }
  }
}`

// GetHandles lists the identities (personal, business) available to the account.
func (c *Client) GetHandles(ctx context.Context) ([]Handle, error) {
	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	var data struct {
		Profile struct {
			AvailableIdentities []Handle `json:"availableIdentities"`
		} `json:"profile"`
	}
	if err := c.graphQL(ctx, rc, "get handles", "Identity", identityQuery, &data); err != nil {
		return nil, err
	}

	handles := data.Profile.AvailableIdentities
	if handles == nil {
		handles = []Handle{}
	}

	return handles, nil
}
