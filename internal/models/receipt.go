package models

// Receipt is the flat record extracted from one receipt image. Text fields
// hold "" when the provider reported nothing. A receipt has no identity
// beyond its values and is never persisted.
type Receipt struct {
	Merchant string
	Category string
	Date     string
	Time     string
	Total    float64
}
