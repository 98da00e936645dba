package domain

// CrossedBelowThreshold reports whether a quantity change moved a product
// from at-or-above its reorder threshold to strictly below it. Only this
// downward crossing raises an alert: staying below, staying above, and
// moving upward never do, so repeated decrements under the threshold
// produce one alert until the quantity recovers to the threshold or above.
func CrossedBelowThreshold(previous, current, threshold int64) bool {
	return previous >= threshold && current < threshold
}

// BelowThreshold reports whether a quantity sits strictly below the
// threshold. It is the conservative check for writes with no previous
// quantity to compare against: it may repeat an alert but cannot miss one.
func BelowThreshold(current, threshold int64) bool {
	return current < threshold
}
