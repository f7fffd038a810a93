package venmo

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"
)

const paymentResponseJSON = `{"data": {"balance": "30.00", "payment": {
	"id": "pay-77", "status": "settled", "action": "pay", "amount": 12.5, "note": "lunch",
	"audience": "private", "date_created": "2024-03-02T12:00:00",
	"actor": {"id": "1111", "username": "alice"},
	"target": {"type": "user", "user": {"id": "2222", "username": "bob"}}
}}}`

const requestResponseJSON = `{"data": {"payment": {
	"id": "pay-78", "status": "pending", "action": "charge", "amount": -8, "note": "tickets",
	"audience": "friends",
	"actor": {"id": "1111", "username": "alice"},
	"target": {"type": "user", "user": {"id": "2222", "username": "bob"}}
}}}`

const walletJSON = `{"data": {"profile": {"wallet": [
	{"id": "bal-1", "name": "Venmo balance", "instrumentType": "balance",
	 "metadata": {"availableBalance": {"value": 42.5, "displayString": "$42.50"}},
	 "roles": {"merchantPayments": "none", "peerPayments": "primary"}},
	{"id": "bank-1", "name": "Chase", "instrumentType": "bank",
	 "metadata": {"bankName": "Chase", "isVerified": true, "lastFourDigits": "1234"},
	 "roles": {"merchantPayments": "backup", "peerPayments": "backup"},
	 "fees": [{"feeType": "instant", "fixedAmount": "0.25", "variablePercentage": 1.75}]},
	{"id": "card-1", "name": "Visa", "instrumentType": "card",
	 "metadata": {"issuerName": "Bank of Cards", "networkName": "VISA", "lastFourDigits": "9876",
	  "isVenmoCard": false, "expirationStatus": "active"},
	 "roles": {"merchantPayments": "primary", "peerPayments": "none"}}
]}}}`

func capturePayment(t *testing.T, into *map[string]any, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(into); err != nil {
			t.Errorf("failed to decode payment body: %v", err)
		}
		writeJSON(w, http.StatusOK, response)
	}
}

func TestSendMoney_WithFundingSource(t *testing.T) {
	t.Parallel()

	var body map[string]any
	f := newFakeVenmo(t, map[string]http.HandlerFunc{
		"POST /payments": capturePayment(t, &body, paymentResponseJSON),
	})
	client := f.connect(t)
	before := f.requests.Load()

	tx, err := client.SendMoney(context.Background(), PaymentRequest{
		RecipientID:     "2222",
		Amount:          12.5,
		Note:            "lunch",
		FundingSourceID: "bank-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.requests.Load()-before != 1 {
		t.Errorf("expected exactly one request, got %d", f.requests.Load()-before)
	}

	expected := map[string]any{
		"funding_source_id": "bank-1",
		"user_id":           "2222",
		"audience":          "private",
		"amount":            12.5,
		"note":              "lunch",
	}
	for key, want := range expected {
		if body[key] != want {
			t.Errorf("expected %s=%v, got %v", key, want, body[key])
		}
	}

	if tx.ID != "pay-77" || tx.Status != "settled" || tx.Amount != 12.5 {
		t.Errorf("unexpected confirmation: %+v", tx)
	}

	if tx.Target == nil || tx.Target.ID != "2222" {
		t.Errorf("expected target 2222, got %+v", tx.Target)
	}
}

func TestSendMoney_SelectsFundingSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		account string
		amount  float64
		want    string
	}{
		{"balance covers amount", defaultAccount, 12.5, "bal-1"},
		{"balance too small", defaultAccount, 100, "bank-1"},
		{"limited account skips balance", `{"data": {"user": {"id": "1111"}, "balance": "42.50", "is_limited_account": true}}`, 1, "bank-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var body map[string]any
			f := newFakeVenmo(t, map[string]http.HandlerFunc{
				"GET /account":   respondJSON(http.StatusOK, tt.account),
				"POST /graphql":  respondJSON(http.StatusOK, walletJSON),
				"POST /payments": capturePayment(t, &body, paymentResponseJSON),
			})
			client := f.connect(t)

			_, err := client.SendMoney(context.Background(), PaymentRequest{RecipientID: "2222", Amount: tt.amount, Note: "x"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if body["funding_source_id"] != tt.want {
				t.Errorf("expected funding source %s, got %v", tt.want, body["funding_source_id"])
			}
		})
	}
}

func TestSendMoney_NoFundingSource(t *testing.T) {
	t.Parallel()

	var paid bool
	f := newFakeVenmo(t, map[string]http.HandlerFunc{
		"POST /graphql": respondJSON(http.StatusOK, `{"data": {"profile": {"wallet": [
			{"id": "card-9", "roles": {"peerPayments": "none"}, "metadata": {"expirationStatus": "expired"}}
		]}}}`),
		"POST /payments": func(w http.ResponseWriter, _ *http.Request) {
			paid = true
			writeJSON(w, http.StatusOK, paymentResponseJSON)
		},
	})
	client := f.connect(t)

	_, err := client.SendMoney(context.Background(), PaymentRequest{RecipientID: "2222", Amount: 5})

	if !IsAPIError(err) {
		t.Fatalf("expected api error, got %v", err)
	}

	if !errors.Is(err, ErrNoFundingSource) {
		t.Errorf("expected ErrNoFundingSource in chain, got %v", err)
	}

	if paid {
		t.Error("payment must not be submitted without a funding source")
	}
}

func TestSendMoney_ValidationPerformsNoRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  PaymentRequest
	}{
		{"zero amount", PaymentRequest{RecipientID: "2222", Amount: 0}},
		{"negative amount", PaymentRequest{RecipientID: "2222", Amount: -5}},
		{"NaN amount", PaymentRequest{RecipientID: "2222", Amount: math.NaN()}},
		{"infinite amount", PaymentRequest{RecipientID: "2222", Amount: math.Inf(1)}},
		{"fractional cents", PaymentRequest{RecipientID: "2222", Amount: 1.005}},
		{"missing recipient", PaymentRequest{RecipientID: "  ", Amount: 5}},
		{"unknown audience", PaymentRequest{RecipientID: "2222", Amount: 5, Audience: "everyone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeVenmo(t, nil)
			client := f.connect(t)
			before := f.requests.Load()

			_, sendErr := client.SendMoney(context.Background(), tt.req)
			_, requestErr := client.RequestMoney(context.Background(), tt.req)

			if !IsValidationError(sendErr) {
				t.Errorf("SendMoney: expected validation error, got %v", sendErr)
			}

			if !IsValidationError(requestErr) {
				t.Errorf("RequestMoney: expected validation error, got %v", requestErr)
			}

			if f.requests.Load() != before {
				t.Errorf("expected no requests, got %d", f.requests.Load()-before)
			}
		})
	}
}

func TestRequestMoney_NegatesAmount(t *testing.T) {
	t.Parallel()

	var body map[string]any
	f := newFakeVenmo(t, map[string]http.HandlerFunc{
		"POST /payments": capturePayment(t, &body, requestResponseJSON),
	})
	client := f.connect(t)

	tx, err := client.RequestMoney(context.Background(), PaymentRequest{
		RecipientID:     "2222",
		Amount:          8,
		Note:            "tickets",
		Audience:        AudienceFriends,
		FundingSourceID: "bank-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["amount"] != -8.0 {
		t.Errorf("expected amount=-8, got %v", body["amount"])
	}

	if body["audience"] != "friends" {
		t.Errorf("expected audience=friends, got %v", body["audience"])
	}

	if _, ok := body["funding_source_id"]; ok {
		t.Errorf("money requests must not carry a funding source, got %v", body["funding_source_id"])
	}

	if tx.ID != "pay-78" || tx.Action != "charge" || tx.Amount != 8 {
		t.Errorf("unexpected confirmation: %+v", tx)
	}
}

func TestSubmitPayment_MissingPaymentID(t *testing.T) {
	t.Parallel()

	f := newFakeVenmo(t, map[string]http.HandlerFunc{
		"POST /payments": respondJSON(http.StatusOK, `{"data": {}}`),
	})
	client := f.connect(t)

	_, err := client.RequestMoney(context.Background(), PaymentRequest{RecipientID: "2222", Amount: 3})

	if !IsAPIError(err) {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestSendMoney_RemoteRejection(t *testing.T) {
	t.Parallel()

	f := newFakeVenmo(t, map[string]http.HandlerFunc{
		"POST /payments": respondJSON(http.StatusBadRequest, `{"error": {"message": "Insufficient funds", "code": 1339}}`),
	})
	client := f.connect(t)

	_, err := client.SendMoney(context.Background(), PaymentRequest{RecipientID: "2222", Amount: 3, FundingSourceID: "bank-1"})

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindAPI {
		t.Fatalf("expected api error, got %v", err)
	}

	if apiErr.Message != "Insufficient funds" || apiErr.Code != "1339" {
		t.Errorf("expected remote payload to be surfaced, got %+v", apiErr)
	}
}
