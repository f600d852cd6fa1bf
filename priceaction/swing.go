package priceaction

import (
	"math"

	"github.com/dnldd/trend/indicator"
	"github.com/dnldd/trend/shared"
)

const (
	// minSwingWindow is the smallest swing point detection window.
	minSwingWindow = 3
	// maxSwingWindow is the largest swing point detection window for long daily series.
	maxSwingWindow = 30
	// evenlySpacedSwingPoints is the approximate number of swing points used when detection
	// fails on non-finite prices.
	evenlySpacedSwingPoints = 10
)

// AdjustSwingWindow scales the base swing window to the sampling profile of a series. Longer
// spans widen the window so only structurally significant extremes become boundaries.
func AdjustSwingWindow(base int, profile indicator.Profile) int {
	window := base
	switch {
	case profile.TimespanYears > 10:
		window *= 3
	case profile.TimespanYears > 5:
		window *= 2
	case profile.TimespanYears < 1:
		window = max(minSwingWindow, window/2)
	}

	switch profile.Frequency {
	case shared.Minute:
		return max(minSwingWindow, window/2)
	case shared.Hourly:
		return window
	default:
		if profile.TimespanYears > 3 {
			return min(maxSwingWindow, window*2)
		}
		return window
	}
}

// endpoints returns the first and last indices of a series of n points.
func endpoints(n int) []int {
	if n == 1 {
		return []int{0}
	}

	return []int{0, n - 1}
}

// evenlySpaced returns roughly evenlySpacedSwingPoints indices spread over n points,
// always ending at the last index.
func evenlySpaced(n int) []int {
	step := max(1, n/evenlySpacedSwingPoints)
	indices := make([]int, 0, evenlySpacedSwingPoints+1)
	for idx := 0; idx < n; idx += step {
		indices = append(indices, idx)
	}
	if indices[len(indices)-1] != n-1 {
		indices = append(indices, n-1)
	}

	return indices
}

// isExtremum checks whether the price at idx is strictly above (or below) every other price
// within window points on either side.
func isExtremum(prices []float64, idx int, window int) (bool, bool) {
	from := max(0, idx-window)
	to := min(len(prices)-1, idx+window)

	isMax, isMin := true, true
	for j := from; j <= to; j++ {
		if j == idx {
			continue
		}
		if !(prices[idx] > prices[j]) {
			isMax = false
		}
		if !(prices[idx] < prices[j]) {
			isMin = false
		}
		if !isMax && !isMin {
			break
		}
	}

	return isMax, isMin
}

// FindSwingPoints locates the local extrema of the provided prices used as segment boundaries.
// The first and last indices are always included and the result is sorted and unique.
func FindSwingPoints(prices []float64, window int, variant shared.Variant) ([]int, []shared.Recovery) {
	n := len(prices)
	if n == 0 {
		return nil, nil
	}

	if variant == shared.Robust {
		for idx := range prices {
			if math.IsNaN(prices[idx]) || math.IsInf(prices[idx], 0) {
				return evenlySpaced(n), []shared.Recovery{shared.EvenlySpacedSwingFallback}
			}
		}
	}

	if n < window*2+1 {
		return endpoints(n), []shared.Recovery{shared.EndpointSwingFallback}
	}

	swings := []int{0}
	for idx := 1; idx < n-1; idx++ {
		isMax, isMin := isExtremum(prices, idx, window)
		if isMax || isMin {
			swings = append(swings, idx)
		}
	}

	if len(swings) == 1 {
		return endpoints(n), []shared.Recovery{shared.EndpointSwingFallback}
	}

	swings = append(swings, n-1)

	return swings, nil
}
