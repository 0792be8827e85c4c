package waterfall

import "fmt"

type RecipientKind string

const (
	RecipientEntity   RecipientKind = "ENTITY"
	RecipientInvestor RecipientKind = "INVESTOR"
)

// Recipient is either an entity investment or a direct investor, never both.
type Recipient struct {
	Kind RecipientKind `json:"kind"`
	ID   string        `json:"id"`
}

func EntityRecipient(entityInvestmentID string) Recipient {
	return Recipient{Kind: RecipientEntity, ID: entityInvestmentID}
}

func InvestorRecipient(userID string) Recipient {
	return Recipient{Kind: RecipientInvestor, ID: userID}
}

func (r Recipient) Valid() bool {
	return (r.Kind == RecipientEntity || r.Kind == RecipientInvestor) && r.ID != ""
}

func (r Recipient) String() string { return fmt.Sprintf("%s:%s", r.Kind, r.ID) }
