package domain

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders the age of a post the way the feed cards display it.
func FormatTimeAgo(at, now time.Time) string {
	if at.IsZero() {
		return "Just now"
	}
	diff := now.Sub(at)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
}
