package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR renders an amount with Indian digit grouping, e.g. 1234567.5 -> "Rs 12,34,567.50".
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole, frac := cents/100, cents%100
	return fmt.Sprintf("%sRs %s.%02d", sign, groupIndian(whole), frac)
}

// groupIndian groups the last three digits, then every two: 12,34,567.
func groupIndian(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	parts := []string{}
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
