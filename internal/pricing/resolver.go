// Package pricing derives cart totals from cart lines and a catalogue snapshot.
package pricing

import (
	"fg-storefront/internal/cart"
	"fg-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Surcharges are the flat delivery fees per zone.
type Surcharges struct {
	Inside  decimal.Decimal
	Outside decimal.Decimal
}

// DefaultSurcharges returns the standard two-tier delivery fees.
func DefaultSurcharges() Surcharges {
	return Surcharges{
		Inside:  decimal.NewFromInt(80),
		Outside: decimal.NewFromInt(150),
	}
}

// For returns the surcharge for zone.
func (s Surcharges) For(zone model.Zone) (decimal.Decimal, error) {
	switch zone {
	case model.ZoneInside:
		return s.Inside, nil
	case model.ZoneOutside:
		return s.Outside, nil
	}
	return decimal.Zero, model.ErrInvalidZone
}

// PricedLine is a cart line joined to its product.
type PricedLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	OnSale    bool            `json:"onSale"`
	InStock   bool            `json:"inStock"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Quote is the priced view of a cart.
type Quote struct {
	Lines          []PricedLine    `json:"lines"`
	Missing        []string        `json:"missing,omitempty"`
	Zone           model.Zone      `json:"zone"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Total          decimal.Decimal `json:"total"`
}

// IsEmpty reports whether no line could be priced.
func (q Quote) IsEmpty() bool {
	return len(q.Lines) == 0
}

// Resolve prices lines against catalog. Lines whose product is no longer in
// the catalogue are left out of every total and listed in Quote.Missing.
func Resolve(lines []cart.Line, catalog model.CatalogIndex, zone model.Zone, surcharges Surcharges) (Quote, error) {
	delivery, err := surcharges.For(zone)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Lines:          make([]PricedLine, 0, len(lines)),
		Zone:           zone,
		Subtotal:       decimal.Zero,
		DeliveryCharge: delivery,
	}

	for _, l := range lines {
		p, ok := catalog[l.ProductID]
		if !ok {
			q.Missing = append(q.Missing, l.ProductID)
			continue
		}

		lineTotal := p.Price.Current.Mul(decimal.NewFromInt(int64(l.Quantity)))
		q.Lines = append(q.Lines, PricedLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.Price.Current,
			OnSale:    p.Price.OnSale(),
			InStock:   p.Stock >= l.Quantity,
			LineTotal: lineTotal,
		})
		q.Subtotal = q.Subtotal.Add(lineTotal)
	}

	q.Total = q.Subtotal.Add(q.DeliveryCharge)
	return q, nil
}
