package venmo

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Audience controls who can see a transaction in the Venmo feed.
type Audience string

const (
	AudiencePrivate Audience = "private"
	AudienceFriends Audience = "friends"
	AudiencePublic  Audience = "public"
)

func (a Audience) valid() bool {
	switch a {
	case AudiencePrivate, AudienceFriends, AudiencePublic:
		return true
	default:
		return false
	}
}

type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	IsActive          bool      `json:"is_active"`
	DateJoined        time.Time `json:"date_joined,omitzero"`
}

// Identity is the authenticated account's profile and wallet balance.
type Identity struct {
	User             User    `json:"user"`
	Balance          float64 `json:"balance"`
	IsLimitedAccount bool    `json:"is_limited_account"`
}

// Transaction is a payment or charge as it appears in the account's feed.
// Amount is always positive; Action tells the direction ("pay" or "charge").
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note"`
	Audience  Audience  `json:"audience"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	Actor     User      `json:"actor"`
	Target    *User     `json:"target,omitempty"`
}

type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	// NextBeforeID is the cursor for the following page, empty on the last page.
	NextBeforeID string `json:"next_before_id,omitempty"`
}

func (p *TransactionPage) HasMore() bool {
	return p != nil && p.NextBeforeID != ""
}

// TransactionFilter selects a page of the transaction feed.
type TransactionFilter struct {
	// UserID whose feed is read. Empty means the authenticated account.
	UserID string
	// Limit is the page size, 1..50. Zero selects 50.
	Limit int
	// BeforeID returns transactions older than this story id.
	BeforeID string
}

// Role is a wallet instrument's role for a payment type.
type Role string

const (
	RolePrimary Role = "primary"
	RoleBackup  Role = "backup"
	RoleNone    Role = "none"
)

type Fee struct {
	Type               string  `json:"type"`
	FixedAmount        float64 `json:"fixed_amount"`
	VariablePercentage float64 `json:"variable_percentage"`
}

// PaymentMethod is a funding instrument in the account's wallet: the Venmo
// balance, a bank account or a card.
type PaymentMethod struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	PeerPaymentsRole     Role     `json:"peer_payments_role"`
	MerchantPaymentsRole Role     `json:"merchant_payments_role"`
	AvailableBalance     *float64 `json:"available_balance,omitempty"`
	BankName             string   `json:"bank_name,omitempty"`
	IssuerName           string   `json:"issuer_name,omitempty"`
	NetworkName          string   `json:"network_name,omitempty"`
	LastFour             string   `json:"last_four,omitempty"`
	IsVerified           bool     `json:"is_verified,omitempty"`
	IsVenmoCard          bool     `json:"is_venmo_card,omitempty"`
	ExpirationStatus     string   `json:"expiration_status,omitempty"`
	Fees                 []Fee    `json:"fees,omitempty"`
}

// PaymentRequest describes money to send or request.
type PaymentRequest struct {
	RecipientID string
	Amount      float64
	Note        string
	// Audience defaults to AudiencePrivate.
	Audience Audience
	// FundingSourceID pins the wallet instrument for SendMoney. When empty
	// the client picks one; RequestMoney ignores it.
	FundingSourceID string
}

// Handle is one of the identities (personal or business) the account can act as.
type Handle struct {
	Handle string `json:"handle"`
	Type   string `json:"type"`
}

// flexFloat decodes amounts that Venmo sends either as JSON numbers or as
// decimal strings such as "12.50".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}

	*f = flexFloat(v)

	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// flexTime decodes Venmo timestamps, which are not always zone-qualified.
// Unqualified values are UTC.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*t = flexTime{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed.UTC())
			return nil
		}
	}

	return fmt.Errorf("invalid timestamp %q", s)
}

type userPayload struct {
	ID                string   `json:"id"`
	Username          string   `json:"username"`
	DisplayName       string   `json:"display_name"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	ProfilePictureURL string   `json:"profile_picture_url"`
	IsActive          bool     `json:"is_active"`
	DateJoined        flexTime `json:"date_joined"`
}

func (u userPayload) user() User {
	return User{
		ID:                u.ID,
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ProfilePictureURL: u.ProfilePictureURL,
		IsActive:          u.IsActive,
		DateJoined:        time.Time(u.DateJoined),
	}
}
