package checkout

import (
	"fmt"
	"strings"
)

// FormatPrice renders an amount as Brazilian currency, e.g. "R$ 12,50".
func FormatPrice(amount float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", amount), ".", ",", 1)
}

// FormatHours pluralizes the hour count, e.g. "1 hora", "3 horas".
func FormatHours(hours int) string {
	if hours == 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", hours)
}

// MaskCard renders the trailing card digits, e.g. "•••• 4242".
func MaskCard(lastDigits string) string {
	if lastDigits == "" {
		lastDigits = "****"
	}
	return "•••• " + lastDigits
}
