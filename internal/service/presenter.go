package service

import (
	"fmt"
	"strconv"

	"receipt-bot/internal/models"
)

// commandKeyword prefixes the machine-parsable line consumed by the
// downstream expense tracker.
const commandKeyword = "AddExp"

// Summary renders the human-readable five-line form, one field per line.
func Summary(r *models.Receipt) string {
	return fmt.Sprintf("Merchant: %s\nCategory: %s\nDate: %s\nTime: %s\nTotal: %s",
		r.Merchant, r.Category, r.Date, r.Time, formatTotal(r.Total))
}

// Command renders the single-line expense-tracking command. Date and time
// are deliberately left out of this form.
func Command(r *models.Receipt) string {
	return fmt.Sprintf("%s %s %s-%s", commandKeyword, formatTotal(r.Total), r.Merchant, r.Category)
}

func formatTotal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
