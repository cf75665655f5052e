package utils

import "fmt"

// FormatByteSize renders a byte count for display: whole bytes under a
// kilobyte, two decimal places above that.
func FormatByteSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	if n < 1024*1024 {
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	}

	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
