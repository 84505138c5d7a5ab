package mindee

// StringField is one predicted text field. Value is nil when the provider
// found nothing.
type StringField struct {
	Value      *string  `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// AmountField is one predicted monetary field.
type AmountField struct {
	Value      *float64 `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// Prediction holds the expense-receipt fields this bot consumes. Each field
// pointer is nil when the key is absent from the provider response, which is
// distinct from a present field with a null value.
type Prediction struct {
	Supplier  *StringField `json:"supplier"`
	Category  *StringField `json:"category"`
	Date      *StringField `json:"date"`
	Time      *StringField `json:"time"`
	TotalIncl *AmountField `json:"total_incl"`
}

type predictResponse struct {
	Document struct {
		Inference struct {
			Prediction Prediction `json:"prediction"`
		} `json:"inference"`
	} `json:"document"`
}
