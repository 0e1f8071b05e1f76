package model

import "fmt"

// TickMinutes is the length of one simulation tick.
const TickMinutes = 15

// TickTimeLabel formats a tick of the day as "HH:MM".
func TickTimeLabel(tickIndex int) string {
	minutes := tickIndex * TickMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
