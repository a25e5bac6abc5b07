package evaluation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fleetmatch/loadrec-eval/internal/domain/repositories"
)

// ReportWriter renders human-readable per-test reports and the overall
// summary banner. Presentation only; it never feeds back into scoring.
type ReportWriter struct {
	loads repositories.LoadRepository
	out   io.Writer
}

// NewReportWriter creates a report writer over the load catalog.
func NewReportWriter(loads repositories.LoadRepository, out io.Writer) *ReportWriter {
	return &ReportWriter{loads: loads, out: out}
}

const bannerWidth = 80

func (w *ReportWriter) banner() {
	fmt.Fprintln(w.out, strings.Repeat("=", bannerWidth))
}

// WriteReport renders the full report for one test result.
func (w *ReportWriter) WriteReport(ctx context.Context, result *TestResult) error {
	if result == nil {
		return nil
	}

	fmt.Fprintln(w.out)
	w.banner()
	fmt.Fprintf(w.out, "TEST REPORT FOR USER %d\n", result.UserID)
	w.banner()
	fmt.Fprintln(w.out)

	w.writeHistory(result.Profile)
	w.writeFilters(result)
	w.writeAccuracy(result)

	if err := w.writeLoadTable(ctx, result); err != nil {
		return err
	}

	fmt.Fprintln(w.out)
	w.banner()
	fmt.Fprintln(w.out)
	return nil
}

func (w *ReportWriter) writeHistory(profile *UserHistoryProfile) {
	fmt.Fprintln(w.out, "SEARCH HISTORY:")
	fmt.Fprintf(w.out, "  Total Searches: %d\n", profile.TotalSearches)
	fmt.Fprintf(w.out, "  Top Geo City: %d\n", profile.TopGeoCity)
	fmt.Fprintf(w.out, "  Top Origin: %d\n", profile.TopOrigin)
	fmt.Fprintf(w.out, "  Top Destination: %d\n", profile.TopDestination)

	sections := []struct {
		title string
		table FrequencyTable
	}{
		{"Top 5 Geo Locations", profile.GeoCities},
		{"Top 5 Origins", profile.Origins},
		{"Top 5 Destinations", profile.Destinations},
	}
	for _, section := range sections {
		fmt.Fprintf(w.out, "\n  %s:\n", section.title)
		for i, entry := range section.table.Entries() {
			if i >= topLocationLimit {
				break
			}
			fmt.Fprintf(w.out, "    %d. %s: %d searches\n", i+1, entry.Value, entry.Count)
		}
	}
}

func (w *ReportWriter) writeFilters(result *TestResult) {
	if result.DistanceFilter != nil {
		fmt.Fprintln(w.out, "\nDISTANCE FILTER:")
		fmt.Fprintf(w.out, "  Distance Range: 0 - %.0f miles\n", result.DistanceFilter.DistanceRange)
	}
	if result.DatetimeFilter != nil {
		fmt.Fprintln(w.out, "\nDATETIME FILTER:")
		fmt.Fprintf(w.out, "  Desired Date: %s\n", result.DatetimeFilter.DesiredDate)
		fmt.Fprintf(w.out, "  Desired Time: %s\n", result.DatetimeFilter.DesiredTime)
	}
}

func (w *ReportWriter) writeAccuracy(result *TestResult) {
	match := result.Match
	if match == nil {
		return
	}

	fmt.Fprintln(w.out)
	w.banner()
	fmt.Fprintln(w.out, "RECOMMENDATION ACCURACY")
	w.banner()
	fmt.Fprintln(w.out)

	total := len(result.Recommendations)
	fmt.Fprintf(w.out, "  Accuracy Score: %.2f%%\n", match.AccuracyScore*100)

	switch {
	case result.DistanceFilter != nil:
		fmt.Fprintf(w.out, "  Pickups Within Range: %d/%d\n", match.DistanceWithinRange, total)
	case result.CurrentLocation != nil:
		fmt.Fprintf(w.out, "  Location Matches: %d/%d\n", match.LocationMatches, total)
	default:
		fmt.Fprintf(w.out, "  History Matches: %d/%d\n", match.HistoryMatches, total)
	}
	fmt.Fprintf(w.out, "  No Matches: %d/%d\n", match.NoMatches, total)

	fmt.Fprintln(w.out, "\n  User's Top Locations (from history):")
	for i, loc := range match.TopUserLocations {
		fmt.Fprintf(w.out, "    %d. %s\n", i+1, loc)
	}
}

func (w *ReportWriter) writeLoadTable(ctx context.Context, result *TestResult) error {
	fmt.Fprintln(w.out, "\nRECOMMENDED LOADS:")
	fmt.Fprintf(w.out, "%-5s %-8s %-10s %-25s %-25s %-22s %-12s\n",
		"Rank", "Load ID", "Score", "Pickup", "Delivery", "Pickup Time", "Match")
	fmt.Fprintln(w.out, strings.Repeat("-", 110))

	for i, rec := range result.Recommendations {
		load, err := w.loads.GetByID(ctx, rec.LoadID)
		if err != nil {
			return err
		}

		pickup := fmt.Sprintf("%s,%s", load.Pickup.City, load.Pickup.State)
		delivery := fmt.Sprintf("%s,%s", load.Delivery.City, load.Delivery.State)
		pickupTime := fmt.Sprintf("%s %s", load.Pickup.Date, load.Pickup.Time)

		status := "✗ No Match"
		if result.Match != nil && result.Match.Matched(rec.LoadID) {
			status = "✓ Matched"
		}

		fmt.Fprintf(w.out, "%-5d %-8d %-10.4f %-25s %-25s %-22s %-12s\n",
			i+1, rec.LoadID, rec.Score, pickup, delivery, pickupTime, status)
	}

	return nil
}

// WriteSummary renders the overall accuracy summary across all tested users.
func (w *ReportWriter) WriteSummary(stats SummaryStats) {
	if stats.TestsRun == 0 {
		fmt.Fprintln(w.out, "No results to summarize")
		return
	}

	totalRecommendations := stats.TotalMatches + stats.TotalNoMatches

	fmt.Fprintln(w.out)
	w.banner()
	fmt.Fprintln(w.out, "OVERALL RECOMMENDATION ENGINE SUMMARY")
	w.banner()
	fmt.Fprintln(w.out)
	fmt.Fprintf(w.out, "  Tests Run: %d\n", stats.TestsRun)
	fmt.Fprintf(w.out, "  Average Accuracy: %.2f%%\n", stats.AvgAccuracy*100)
	fmt.Fprintf(w.out, "  Total Matches: %d/%d\n", stats.TotalMatches, totalRecommendations)
	fmt.Fprintf(w.out, "  Total No Matches: %d/%d\n", stats.TotalNoMatches, totalRecommendations)
	fmt.Fprintln(w.out)
	w.banner()
	fmt.Fprintln(w.out)
}
