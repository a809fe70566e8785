package utils

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateTripID returns ids like "TP-482913-007": the last six digits of
// the unix millis plus a three digit random suffix.
func GenerateTripID() string {
	ms := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("TP-%s-%03d", ms, rand.IntN(1000))
}
