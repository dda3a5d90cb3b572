package studio

import "fmt"

// FormatElapsedTime renders a second count as "Ns" under a minute, otherwise
// "Mm Ss".
func FormatElapsedTime(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
