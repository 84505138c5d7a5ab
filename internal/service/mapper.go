package service

import (
	"fmt"

	"receipt-bot/internal/mindee"
	"receipt-bot/internal/models"
)

// MapPrediction flattens a provider prediction into a Receipt. A field whose
// value is null or empty maps to "" (or 0 for the total); a field whose key
// is missing from the response entirely is an error, since that signals the
// provider contract changed rather than an unreadable receipt.
func MapPrediction(p *mindee.Prediction) (*models.Receipt, error) {
	if p == nil {
		return nil, fmt.Errorf("no prediction in response")
	}

	for _, field := range []struct {
		name    string
		present bool
	}{
		{"supplier", p.Supplier != nil},
		{"category", p.Category != nil},
		{"date", p.Date != nil},
		{"time", p.Time != nil},
		{"total_incl", p.TotalIncl != nil},
	} {
		if !field.present {
			return nil, fmt.Errorf("prediction missing required field %q", field.name)
		}
	}

	return &models.Receipt{
		Merchant: textValue(p.Supplier),
		Category: textValue(p.Category),
		Date:     textValue(p.Date),
		Time:     textValue(p.Time),
		Total:    amountValue(p.TotalIncl),
	}, nil
}

func textValue(f *mindee.StringField) string {
	if f == nil || f.Value == nil {
		return ""
	}
	return *f.Value
}

func amountValue(f *mindee.AmountField) float64 {
	if f == nil || f.Value == nil {
		return 0
	}
	return *f.Value
}
