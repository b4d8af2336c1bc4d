// Package billfile reads a bill described in YAML:
//
//	total_bill: 100
//	tax:
//	  percent: 10
//	service:
//	  fixed: 12.50
//	participants:
//	  - name: Alice
//	    items:
//	      - label: Pizza
//	        price: 60
//	  - name: Bob
//
// Amounts are parsed as exact decimals.
package billfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/billsplit/internal/models"
)

// Amount is a decimal that unmarshals from a YAML number or string.
type Amount struct {
	decimal.Decimal
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected an amount", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

// Charge sets exactly one of Percent or Fixed.
type Charge struct {
	Percent *Amount `yaml:"percent"`
	Fixed   *Amount `yaml:"fixed"`
}

type Item struct {
	Label string `yaml:"label"`
	Price Amount `yaml:"price"`
}

type Participant struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// File is the YAML document.
type File struct {
	TotalBill    Amount        `yaml:"total_bill"`
	Tax          *Charge       `yaml:"tax"`
	Service      *Charge       `yaml:"service"`
	Participants []Participant `yaml:"participants"`
}

// Bill is a parsed file ready for the calculator.
type Bill struct {
	Config       models.BillConfig
	Participants []models.Participant
}

var errChargeVariant = errors.New("set exactly one of percent or fixed")

func (c *Charge) toModel(field string) (models.Charge, error) {
	if c == nil {
		return models.Percentage(decimal.Zero), nil
	}
	switch {
	case c.Percent != nil && c.Fixed == nil:
		return models.Percentage(c.Percent.Decimal), nil
	case c.Fixed != nil && c.Percent == nil:
		return models.FixedAmount(c.Fixed.Decimal), nil
	default:
		return models.Charge{}, fmt.Errorf("%s: %w", field, errChargeVariant)
	}
}

// Parse decodes a bill from r. Participants get fresh IDs in file order.
func Parse(r io.Reader) (*Bill, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse bill: %w", err)
	}

	tax, err := f.Tax.toModel("tax")
	if err != nil {
		return nil, err
	}
	service, err := f.Service.toModel("service")
	if err != nil {
		return nil, err
	}

	bill := &Bill{
		Config: models.BillConfig{
			TotalBill: f.TotalBill.Decimal,
			Tax:       tax,
			Service:   service,
		},
		Participants: make([]models.Participant, len(f.Participants)),
	}
	for i, p := range f.Participants {
		participant := models.Participant{ID: uuid.New().String(), Name: p.Name}
		for _, it := range p.Items {
			participant.Items = append(participant.Items, models.Item{
				ID:    uuid.New().String(),
				Label: it.Label,
				Price: it.Price.Decimal,
			})
		}
		bill.Participants[i] = participant
	}
	return bill, nil
}

// Load parses the bill file at path.
func Load(path string) (*Bill, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
