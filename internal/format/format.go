// Package format renders statuses, money and dates for dashboard lists.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BadgeGreen  = "green"
	BadgeYellow = "yellow"
	BadgeRed    = "red"
	BadgeBlue   = "blue"
	BadgeGray   = "gray"
)

var badgeColors = map[string]string{
	"ACTIVE":    BadgeGreen,
	"PAID":      BadgeGreen,
	"DELIVERED": BadgeGreen,
	"LIVE":      BadgeGreen,
	"PENDING":   BadgeYellow,
	"FAILED":    BadgeRed,
	"CANCELLED": BadgeRed,
	"SHIPPED":   BadgeBlue,
	"SCHEDULED": BadgeBlue,
	"REFUNDED":  BadgeGray,
	"RETURNED":  BadgeGray,
	"ARCHIVED":  BadgeGray,
	"INACTIVE":  BadgeGray,
	"ENDED":     BadgeGray,
}

// BadgeColor returns the badge color for a status. Unknown statuses are gray.
func BadgeColor(status string) string {
	if c, ok := badgeColors[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return c
	}
	return BadgeGray
}

// Currency renders an amount in euros with two decimals.
func Currency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-€" + d.Neg().StringFixed(2)
	}
	return "€" + d.StringFixed(2)
}

// Date renders t for list columns. The zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}
