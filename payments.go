package venmo

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

type paymentBody struct {
	FundingSourceID string   `json:"funding_source_id,omitempty"`
	UserID          string   `json:"user_id"`
	Audience        Audience `json:"audience"`
	Amount          float64  `json:"amount"`
	Note            string   `json:"note"`
}

type paymentResponse struct {
	Data struct {
		Payment paymentPayload `json:"payment"`
	} `json:"data"`
}

// SendMoney pays req.Amount to req.RecipientID. Invalid input fails with a
// validation error before any request is made. When req.FundingSourceID is
// empty the account's identity and wallet are read first and the instrument
// is chosen with SelectFundingSource.
func (c *Client) SendMoney(ctx context.Context, req PaymentRequest) (*Transaction, error) {
	const op = "send money"

	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	if err := validatePaymentRequest(op, &req); err != nil {
		return nil, err
	}

	if req.FundingSourceID == "" {
		identity, err := c.fetchIdentity(ctx, rc, op)
		if err != nil {
			return nil, err
		}

		methods, err := c.fetchPaymentMethods(ctx, rc, op)
		if err != nil {
			return nil, err
		}

		req.FundingSourceID = SelectFundingSource(methods, req.Amount, identity.IsLimitedAccount)
		if req.FundingSourceID == "" {
			return nil, &Error{Kind: KindAPI, Op: op, Err: ErrNoFundingSource}
		}
	}

	body := paymentBody{
		FundingSourceID: req.FundingSourceID,
		UserID:          req.RecipientID,
		Audience:        req.Audience,
		Amount:          req.Amount,
		Note:            req.Note,
	}

	return c.submitPayment(ctx, rc, op, body)
}

// RequestMoney asks req.RecipientID for req.Amount. Venmo models a request
// as a payment with a negative amount.
func (c *Client) RequestMoney(ctx context.Context, req PaymentRequest) (*Transaction, error) {
	const op = "request money"

	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	if err := validatePaymentRequest(op, &req); err != nil {
		return nil, err
	}

	body := paymentBody{
		UserID:   req.RecipientID,
		Audience: req.Audience,
		Amount:   -req.Amount,
		Note:     req.Note,
	}

	return c.submitPayment(ctx, rc, op, body)
}

func (c *Client) submitPayment(ctx context.Context, rc *resty.Client, op string, body paymentBody) (*Transaction, error) {
	var resp paymentResponse
	if err := c.execute(ctx, rc, op, http.MethodPost, "/payments", nil, body, &resp); err != nil {
		return nil, err
	}

	if resp.Data.Payment.ID == "" {
		return nil, &Error{Kind: KindAPI, Op: op, StatusCode: http.StatusOK, Message: "payment response has no payment id"}
	}

	tx := resp.Data.Payment.transaction()

	return &tx, nil
}

func validatePaymentRequest(op string, req *PaymentRequest) error {
	req.RecipientID = strings.TrimSpace(req.RecipientID)
	if req.RecipientID == "" {
		return validationError(op, "recipient must be set")
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return validationError(op, "amount must be a finite number")
	}

	if req.Amount <= 0 {
		return validationError(op, "amount must be positive, got %v", req.Amount)
	}

	if cents := req.Amount * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
		return validationError(op, "amount must have at most two decimal places, got %v", req.Amount)
	}

	if req.Audience == "" {
		req.Audience = AudiencePrivate
	}

	if !req.Audience.valid() {
		return validationError(op, "audience must be one of private, friends, public, got %q", req.Audience)
	}

	return nil
}
