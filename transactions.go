package venmo

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultPageSize = 50
	maxPageSize     = 50
)

type storiesResponse struct {
	Data       []story `json:"data"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

type story struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Audience    Audience        `json:"audience"`
	Note        string          `json:"note"`
	DateCreated flexTime        `json:"date_created"`
	Payment     *paymentPayload `json:"payment"`
}

type paymentPayload struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Action      string      `json:"action"`
	Amount      flexFloat   `json:"amount"`
	Note        string      `json:"note"`
	Audience    Audience    `json:"audience"`
	DateCreated flexTime    `json:"date_created"`
	Actor       userPayload `json:"actor"`
	Target      struct {
		Type string       `json:"type"`
		User *userPayload `json:"user"`
	} `json:"target"`
}

func (p *paymentPayload) transaction() Transaction {
	tx := Transaction{
		ID:        p.ID,
		Type:      "payment",
		Action:    p.Action,
		Status:    p.Status,
		Amount:    float64(p.Amount),
		Note:      p.Note,
		Audience:  p.Audience,
		CreatedAt: time.Time(p.DateCreated),
		Actor:     p.Actor.user(),
	}

	if tx.Amount < 0 {
		tx.Amount = -tx.Amount
	}

	if p.Target.User != nil {
		target := p.Target.User.user()
		tx.Target = &target
	}

	return tx
}

func (s story) transaction() Transaction {
	var tx Transaction
	if s.Payment != nil {
		tx = s.Payment.transaction()
	}

	// The feed identifies entries by story id; that is also the pagination cursor.
	tx.ID = s.ID
	if s.Type != "" {
		tx.Type = s.Type
	}
	if tx.Note == "" {
		tx.Note = s.Note
	}
	if s.Audience != "" {
		tx.Audience = s.Audience
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Time(s.DateCreated)
	}

	return tx
}

// GetTransactions fetches one page of the transaction feed.
func (c *Client) GetTransactions(ctx context.Context, filter TransactionFilter) (*TransactionPage, error) {
	const op = "get transactions"

	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	if err := validateTransactionFilter(op, &filter); err != nil {
		return nil, err
	}

	if filter.UserID == "" {
		identity, err := c.fetchIdentity(ctx, rc, op)
		if err != nil {
			return nil, err
		}
		filter.UserID = identity.User.ID
	}

	return c.fetchTransactions(ctx, rc, op, filter)
}

// Transactions walks the feed page by page, requesting the next page only
// when the caller keeps ranging. Each transaction id is yielded at most once.
// Iteration stops after the first error.
func (c *Client) Transactions(ctx context.Context, filter TransactionFilter) iter.Seq2[Transaction, error] {
	const op = "list transactions"

	return func(yield func(Transaction, error) bool) {
		rc, err := c.restyClient()
		if err != nil {
			yield(Transaction{}, err)
			return
		}

		if err := validateTransactionFilter(op, &filter); err != nil {
			yield(Transaction{}, err)
			return
		}

		if filter.UserID == "" {
			identity, err := c.fetchIdentity(ctx, rc, op)
			if err != nil {
				yield(Transaction{}, err)
				return
			}
			filter.UserID = identity.User.ID
		}

		seen := make(map[string]struct{})
		for {
			page, err := c.fetchTransactions(ctx, rc, op, filter)
			if err != nil {
				yield(Transaction{}, err)
				return
			}

			fresh := 0
			for _, tx := range page.Transactions {
				if _, dup := seen[tx.ID]; dup {
					continue
				}
				seen[tx.ID] = struct{}{}
				fresh++

				if !yield(tx, nil) {
					return
				}
			}

			// A page with nothing new, or a cursor that does not move, would loop forever.
			if !page.HasMore() || fresh == 0 || page.NextBeforeID == filter.BeforeID {
				return
			}
			filter.BeforeID = page.NextBeforeID
		}
	}
}

func validateTransactionFilter(op string, filter *TransactionFilter) error {
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}

	if filter.Limit < 0 || filter.Limit > maxPageSize {
		return validationError(op, "limit must be between 1 and %d, got %d", maxPageSize, filter.Limit)
	}

	return nil
}

func (c *Client) fetchTransactions(ctx context.Context, rc *resty.Client, op string, filter TransactionFilter) (*TransactionPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(filter.Limit))
	if filter.BeforeID != "" {
		query.Set("before_id", filter.BeforeID)
	}

	var resp storiesResponse
	path := "/stories/target-or-actor/" + url.PathEscape(filter.UserID)
	if err := c.execute(ctx, rc, op, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}

	page := &TransactionPage{
		Transactions: make([]Transaction, 0, len(resp.Data)),
		NextBeforeID: nextBeforeID(resp.Pagination.Next),
	}

	for _, s := range resp.Data {
		page.Transactions = append(page.Transactions, s.transaction())
	}

	// Venmo still returns a next link with an empty last page.
	if len(page.Transactions) == 0 {
		page.NextBeforeID = ""
	}

	return page, nil
}

// nextBeforeID extracts the before_id cursor from a pagination link.
func nextBeforeID(next string) string {
	if next == "" {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil {
		return ""
	}

	return u.Query().Get("before_id")
}
