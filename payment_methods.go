package venmo

import (
	"context"

	"github.com/go-resty/resty/v2"
)

const walletQuery = `query getUserFundingInstruments {
  profile {
    ... on Profile {
      identity {
        ... on Identity {
          capabilities
          __typename
        }
        __typename
      }
      wallet {
        id
        assets {
          logoThumbnail
          __typename
        }
        instrumentType
        name
        fees {
          feeType
          fixedAmount
          variablePercentage
          __typename
        }
        metadata {
          ...BalanceMetadata
          ... on BankFundingInstrumentMetadata {
            bankName
            isVerified
            lastFourDigits
            uniqueIdentifier
            __typename
          }
          ... on CardFundingInstrumentMetadata {
            issuerName
            lastFourDigits
            networkName
            isVenmoCard
            expirationStatus
            quasiCash
            __typename
          }
          __typename
        }
        roles {
          merchantPayments
          peerPayments
          __typename
        }
        __typename
      }
      __typename
    }
    __typename
  }
}

fragment BalanceMetadata on BalanceFundingInstrumentMetadata {
  availableBalance {
    value
    transactionType
    displayString
    __typename
  }
  __typename
}`

type walletInstrument struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	InstrumentType string `json:"instrumentType"`
	Fees           []struct {
		FeeType            string    `json:"feeType"`
		FixedAmount        flexFloat `json:"fixedAmount"`
		VariablePercentage flexFloat `json:"variablePercentage"`
	} `json:"fees"`
	Metadata struct {
		AvailableBalance *struct {
			Value flexFloat `json:"value"`
		} `json:"availableBalance"`
		BankName         string `json:"bankName"`
		IsVerified       bool   `json:"isVerified"`
		LastFourDigits   string `json:"lastFourDigits"`
		IssuerName       string `json:"issuerName"`
		NetworkName      string `json:"networkName"`
		IsVenmoCard      bool   `json:"isVenmoCard"`
		ExpirationStatus string `json:"expirationStatus"`
	} `json:"metadata"`
	Roles struct {
		MerchantPayments Role `json:"merchantPayments"`
		PeerPayments     Role `json:"peerPayments"`
	} `json:"roles"`
}

func (w walletInstrument) paymentMethod() PaymentMethod {
	pm := PaymentMethod{
		ID:                   w.ID,
		Name:                 w.Name,
		Type:                 w.InstrumentType,
		PeerPaymentsRole:     w.Roles.PeerPayments,
		MerchantPaymentsRole: w.Roles.MerchantPayments,
		BankName:             w.Metadata.BankName,
		IssuerName:           w.Metadata.IssuerName,
		NetworkName:          w.Metadata.NetworkName,
		LastFour:             w.Metadata.LastFourDigits,
		IsVerified:           w.Metadata.IsVerified,
		IsVenmoCard:          w.Metadata.IsVenmoCard,
		ExpirationStatus:     w.Metadata.ExpirationStatus,
	}

	if w.Metadata.AvailableBalance != nil {
		balance := float64(w.Metadata.AvailableBalance.Value)
		pm.AvailableBalance = &balance
	}

	for _, fee := range w.Fees {
		pm.Fees = append(pm.Fees, Fee{
			Type:               fee.FeeType,
			FixedAmount:        float64(fee.FixedAmount),
			VariablePercentage: float64(fee.VariablePercentage),
		})
	}

	return pm
}

// GetPaymentMethods lists the funding instruments in the account's wallet.
func (c *Client) GetPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rc, err := c.restyClient()
	if err != nil {
		return nil, err
	}

	return c.fetchPaymentMethods(ctx, rc, "get payment methods")
}

func (c *Client) fetchPaymentMethods(ctx context.Context, rc *resty.Client, op string) ([]PaymentMethod, error) {
	var data struct {
		Profile struct {
			Wallet []walletInstrument `json:"wallet"`
		} `json:"profile"`
	}
	if err := c.graphQL(ctx, rc, op, "", walletQuery, &data); err != nil {
		return nil, err
	}

	methods := make([]PaymentMethod, 0, len(data.Profile.Wallet))
	for _, w := range data.Profile.Wallet {
		methods = append(methods, w.paymentMethod())
	}

	return methods, nil
}

// SelectFundingSource picks the instrument a peer payment of amount should be
// drawn from. The Venmo balance (primary role) wins when the account is not
// limited and the balance covers the amount; otherwise the backup instrument;
// otherwise any active card or bank with no role. It returns "" when nothing
// qualifies.
func SelectFundingSource(methods []PaymentMethod, amount float64, limitedAccount bool) string {
	var primary, backup, fallback string

	for _, m := range methods {
		switch m.PeerPaymentsRole {
		case RolePrimary:
			if !limitedAccount && m.AvailableBalance != nil && *m.AvailableBalance >= amount {
				primary = m.ID
			}
		case RoleBackup:
			backup = m.ID
		case RoleNone:
			if m.ExpirationStatus == "active" {
				fallback = m.ID
			}
		}
	}

	switch {
	case primary != "":
		return primary
	case backup != "":
		return backup
	default:
		return fallback
	}
}
