// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatTime форматирует количество секунд в формат M:SS.
// Отрицательные и нечисловые значения отображаются как 0:00
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration форматирует time.Duration в формат M:SS
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}

// TruncateString обрезает строку до указанной ширины в терминале, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
