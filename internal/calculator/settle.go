package calculator

import (
	"github.com/mmynk/billsplit/internal/models"
)

// Settle lists the transfers that square a bill paid in full by one participant.
// Every other participant owes the payer their TotalDue; zero dues are skipped.
// Transfers follow the order of breakdown.Results.
func Settle(breakdown *models.Breakdown, payerID string) ([]models.Transfer, error) {
	var payer *models.AllocationResult
	for i := range breakdown.Results {
		if breakdown.Results[i].ParticipantID == payerID {
			payer = &breakdown.Results[i]
			break
		}
	}
	if payer == nil {
		return nil, invalid("payer_id", "payer %q is not a participant", payerID)
	}

	transfers := make([]models.Transfer, 0, len(breakdown.Results)-1)
	for _, r := range breakdown.Results {
		if r.ParticipantID == payerID || !r.TotalDue.IsPositive() {
			continue
		}
		transfers = append(transfers, models.Transfer{
			FromID:   r.ParticipantID,
			FromName: r.Person,
			ToID:     payer.ParticipantID,
			ToName:   payer.Person,
			Amount:   r.TotalDue,
		})
	}
	return transfers, nil
}
