// Package billsplitv1 is the wire contract of the billsplit.v1.BillService
// connect service: its messages, procedure names, handler and client.
//
// Messages are plain Go structs carried by the JSON codec in codec.go.
// Input amounts are decimal strings or numbers; computed amounts are
// Money, always written with two decimals (e.g. "73.20").
package billsplitv1

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimals Money is written with.
const MoneyPlaces = 2

// Money is a computed amount. It marshals as a string with exactly
// MoneyPlaces decimals and unmarshals like decimal.Decimal.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(MoneyPlaces) + `"`), nil
}

// Charge kinds.
const (
	ChargeKindPercent = "percent"
	ChargeKindFixed   = "fixed"
)

type Charge struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

type BillConfig struct {
	TotalBill decimal.Decimal `json:"total_bill"`
	Tax       Charge          `json:"tax"`
	Service   Charge          `json:"service"`
}

type Item struct {
	ID    string          `json:"id,omitempty"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

type Participant struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Items []*Item `json:"items,omitempty"`
}

type PersonSplit struct {
	ParticipantID string `json:"participant_id,omitempty"`
	Person        string `json:"person"`
	Subtotal      Money  `json:"subtotal"`
	TaxShare      Money  `json:"tax_share"`
	ServiceShare  Money  `json:"service_share"`
	TotalDue      Money  `json:"total_due"`
}

type Totals struct {
	ComputedTax     Money `json:"computed_tax"`
	ComputedService Money `json:"computed_service"`
	GrandTotal      Money `json:"grand_total"`
}

type Transfer struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   Money  `json:"amount"`
}

type Session struct {
	ID           string         `json:"id"`
	Config       BillConfig     `json:"config"`
	Participants []*Participant `json:"participants"`
	CreatedAt    int64          `json:"created_at"`
	UpdatedAt    int64          `json:"updated_at"`
}

type CalculateSplitRequest struct {
	Config       BillConfig     `json:"config"`
	Participants []*Participant `json:"participants"`
}

type CalculateSplitResponse struct {
	Splits     []*PersonSplit `json:"splits"`
	Totals     Totals         `json:"totals"`
	EqualSplit bool           `json:"equal_split"`
}

type CreateSessionRequest struct {
	Config       BillConfig     `json:"config"`
	Participants []*Participant `json:"participants,omitempty"`
}

type CreateSessionResponse struct {
	Session *Session `json:"session"`
	// Token authorizes every other call on this session as "Authorization: Bearer <token>".
	Token string `json:"token"`
}

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Session *Session `json:"session"`
}

type UpdateBillRequest struct {
	Config BillConfig `json:"config"`
}

type UpdateBillResponse struct {
	Session *Session `json:"session"`
}

type AddParticipantRequest struct {
	Name string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type AddItemRequest struct {
	ParticipantID string          `json:"participant_id"`
	Label         string          `json:"label"`
	Price         decimal.Decimal `json:"price"`
}

type AddItemResponse struct {
	Item *Item `json:"item"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type ClearItemsRequest struct {
	ParticipantID string `json:"participant_id"`
}

type ClearItemsResponse struct{}

type CalculateRequest struct {
	// PayerID optionally names the participant who paid the whole bill.
	PayerID string `json:"payer_id,omitempty"`
}

type CalculateResponse struct {
	Splits     []*PersonSplit `json:"splits"`
	Totals     Totals         `json:"totals"`
	EqualSplit bool           `json:"equal_split"`
	Transfers  []*Transfer    `json:"transfers,omitempty"`
}

type ExportBreakdownRequest struct {
	Format string `json:"format"`
}

type ExportBreakdownResponse struct {
	ContentType string `json:"content_type"`
	Filename    string `json:"filename,omitempty"`
	Content     string `json:"content"`
}

type CloseSessionRequest struct{}

type CloseSessionResponse struct{}
