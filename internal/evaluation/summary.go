package evaluation

// Summarize computes cross-run statistics over a result list. The active
// match counter per result is re-derived from the filters recorded on it,
// mirroring the scorer's mode priority: distance filter, then bare current
// location, then history. An empty or nil input yields zeroed stats.
func Summarize(results []*TestResult) SummaryStats {
	var stats SummaryStats
	var totalAccuracy float64

	for _, result := range results {
		match := result.Match
		if match == nil {
			continue
		}

		totalAccuracy += match.AccuracyScore
		stats.TestsRun++

		switch {
		case result.DistanceFilter != nil:
			stats.TotalMatches += match.DistanceWithinRange
		case result.CurrentLocation != nil:
			stats.TotalMatches += match.LocationMatches
		default:
			stats.TotalMatches += match.HistoryMatches
		}

		stats.TotalNoMatches += match.NoMatches
	}

	if stats.TestsRun > 0 {
		stats.AvgAccuracy = totalAccuracy / float64(stats.TestsRun)
	}

	return stats
}
