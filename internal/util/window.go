package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowMax returns the max value in the window.
// Slots that were never written count as 0.
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetWindowValues returns the values currently held by the window.
// appended is the number of values appended so far, slots that were never written are skipped.
func GetWindowValues(window *rolling.PointPolicy, appended uint64) []float64 {
	var values []float64
	window.Reduce(func(w rolling.Window) float64 {
		// the window is filled from index 0 upwards before it wraps around
		filled := len(w)
		if appended < uint64(filled) {
			filled = int(appended)
		}
		for _, bucket := range w[:filled] {
			values = append(values, bucket...)
		}
		return 0
	})
	return values
}
