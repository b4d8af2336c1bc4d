package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
	pb "github.com/mmynk/billsplit/pkg/api/billsplitv1"
)

func chargeFromProto(field string, c pb.Charge) (models.Charge, error) {
	if c.Value.IsNegative() {
		return models.Charge{}, fmt.Errorf("%s cannot be negative", field)
	}
	switch strings.ToLower(c.Kind) {
	case "", pb.ChargeKindPercent:
		return models.Percentage(c.Value), nil
	case pb.ChargeKindFixed:
		return models.FixedAmount(c.Value), nil
	default:
		return models.Charge{}, fmt.Errorf("%s: unknown charge kind %q", field, c.Kind)
	}
}

// configFromProto converts and checks a bill config. A zero total is allowed
// here so a session can be opened before the amount is known.
func configFromProto(c pb.BillConfig) (models.BillConfig, error) {
	if c.TotalBill.IsNegative() {
		return models.BillConfig{}, fmt.Errorf("total bill cannot be negative")
	}
	tax, err := chargeFromProto("tax", c.Tax)
	if err != nil {
		return models.BillConfig{}, err
	}
	service, err := chargeFromProto("service", c.Service)
	if err != nil {
		return models.BillConfig{}, err
	}
	return models.BillConfig{TotalBill: c.TotalBill, Tax: tax, Service: service}, nil
}

func itemFromProto(label string, price decimal.Decimal) (models.Item, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.Item{}, fmt.Errorf("item name is required")
	}
	if price.IsNegative() {
		return models.Item{}, fmt.Errorf("item price cannot be negative")
	}
	return models.Item{Label: label, Price: price}, nil
}

func participantsFromProto(in []*pb.Participant) ([]models.Participant, error) {
	out := make([]models.Participant, 0, len(in))
	for i, p := range in {
		if p == nil {
			continue
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("participants[%d]: participant name is required", i)
		}
		participant := models.Participant{ID: p.ID, Name: name}
		for j, it := range p.Items {
			if it == nil {
				continue
			}
			item, err := itemFromProto(it.Label, it.Price)
			if err != nil {
				return nil, fmt.Errorf("participants[%d].items[%d]: %w", i, j, err)
			}
			item.ID = it.ID
			participant.Items = append(participant.Items, item)
		}
		out = append(out, participant)
	}
	return out, nil
}

func chargeToProto(c models.Charge) pb.Charge {
	return pb.Charge{Kind: string(c.Kind), Value: c.Value}
}

func configToProto(c models.BillConfig) pb.BillConfig {
	return pb.BillConfig{
		TotalBill: c.TotalBill,
		Tax:       chargeToProto(c.Tax),
		Service:   chargeToProto(c.Service),
	}
}

func itemToProto(it models.Item) *pb.Item {
	return &pb.Item{ID: it.ID, Label: it.Label, Price: it.Price}
}

func participantToProto(p models.Participant) *pb.Participant {
	items := make([]*pb.Item, len(p.Items))
	for i, it := range p.Items {
		items[i] = itemToProto(it)
	}
	return &pb.Participant{ID: p.ID, Name: p.Name, Items: items}
}

func sessionToProto(s *models.Session) *pb.Session {
	participants := make([]*pb.Participant, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = participantToProto(p)
	}
	return &pb.Session{
		ID:           s.ID,
		Config:       configToProto(s.Config),
		Participants: participants,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func splitsToProto(results []models.AllocationResult) []*pb.PersonSplit {
	splits := make([]*pb.PersonSplit, len(results))
	for i, r := range results {
		splits[i] = &pb.PersonSplit{
			ParticipantID: r.ParticipantID,
			Person:        r.Person,
			Subtotal:      pb.NewMoney(r.Subtotal),
			TaxShare:      pb.NewMoney(r.TaxShare),
			ServiceShare:  pb.NewMoney(r.ServiceShare),
			TotalDue:      pb.NewMoney(r.TotalDue),
		}
	}
	return splits
}

func totalsToProto(t models.BillTotals) pb.Totals {
	return pb.Totals{
		ComputedTax:     pb.NewMoney(t.ComputedTax),
		ComputedService: pb.NewMoney(t.ComputedService),
		GrandTotal:      pb.NewMoney(t.GrandTotal),
	}
}

func transfersToProto(transfers []models.Transfer) []*pb.Transfer {
	out := make([]*pb.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &pb.Transfer{
			FromID:   t.FromID,
			FromName: t.FromName,
			ToID:     t.ToID,
			ToName:   t.ToName,
			Amount:   pb.NewMoney(t.Amount),
		}
	}
	return out
}
