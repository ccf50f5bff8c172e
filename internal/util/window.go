package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowAvg returns the average of all values in the window, and false if it is empty
func GetWindowAvg(window *rolling.PointPolicy) (float64, bool) {
	if window.Reduce(rolling.Count) <= 0 {
		return 0, false
	}
	return window.Reduce(rolling.Avg), true
}

func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}
