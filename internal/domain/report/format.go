// Package report renders a user's account statement as an HTML document
// ready for PDF conversion.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var transactionNamePattern = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// FormatAmount renders an amount with a dollar sign and two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatTransactionName strips every character that is not a letter,
// digit or space.
func FormatTransactionName(name string) string {
	return transactionNamePattern.ReplaceAllString(name, "")
}

// FormatCategory turns a raw vendor category like "food_and_drink" into
// "Food And Drink". Empty categories render as "N/A".
func FormatCategory(category string) string {
	if category == "" {
		return "N/A"
	}
	words := strings.Split(strings.ToLower(strings.ReplaceAll(category, "_", " ")), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// FormatDateTime renders a timestamp like "Nov 27, 2025, 2:05 PM".
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 3:04 PM")
}

// FormatStatus renders the pending flag as a statement status.
func FormatStatus(pending bool) string {
	if pending {
		return "Pending"
	}
	return "Completed"
}

// FormatChannel falls back to "N/A" when the vendor omitted the channel.
func FormatChannel(channel string) string {
	if channel == "" {
		return "N/A"
	}
	return channel
}
