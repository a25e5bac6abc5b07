package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fleetmatch/loadrec-eval/internal/adapters/database"
	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/infrastructure/clients/postgres"
	"github.com/fleetmatch/loadrec-eval/pkg/config"
)

// seed fixed so regenerated fixtures are identical run to run
const fixtureSeed = 20260301

type city struct {
	name  string
	state string
	loc   entities.Location
}

var cities = []city{
	{"Denver", "CO", entities.Location{Latitude: 39.7392, Longitude: -104.9903}},
	{"Colorado Springs", "CO", entities.Location{Latitude: 38.8339, Longitude: -104.8214}},
	{"New York", "NY", entities.Location{Latitude: 40.7128, Longitude: -74.0060}},
	{"Newark", "NJ", entities.Location{Latitude: 40.7357, Longitude: -74.1724}},
	{"Houston", "TX", entities.Location{Latitude: 29.7604, Longitude: -95.3698}},
	{"Dallas", "TX", entities.Location{Latitude: 32.7767, Longitude: -96.7970}},
	{"Chicago", "IL", entities.Location{Latitude: 41.8781, Longitude: -87.6298}},
	{"Milwaukee", "WI", entities.Location{Latitude: 43.0389, Longitude: -87.9065}},
	{"Atlanta", "GA", entities.Location{Latitude: 33.7490, Longitude: -84.3880}},
	{"Phoenix", "AZ", entities.Location{Latitude: 33.4484, Longitude: -112.0740}},
}

var equipmentTypes = []string{"Van", "Reefer", "Flatbed"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rng := rand.New(rand.NewSource(fixtureSeed))

	loads := generateLoads(rng, 60)
	events := generateEvents(rng, 12, 40)

	if err := writeLoadsJSON(cfg.Data.LoadsPath, loads); err != nil {
		log.Fatalf("Failed to write loads fixture: %v", err)
	}
	log.Printf("Wrote %d loads to %s", len(loads), cfg.Data.LoadsPath)

	if err := writeClickstreamCSV(cfg.Data.ClickstreamPath, events); err != nil {
		log.Fatalf("Failed to write clickstream fixture: %v", err)
	}
	log.Printf("Wrote %d events to %s", len(events), cfg.Data.ClickstreamPath)

	if os.Getenv("SEED_DB") != "true" {
		return
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_events,
				loads
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	loadRepo := database.NewLoadAdapter(pgClient)
	for _, l := range loads {
		if err := loadRepo.Create(ctx, l); err != nil {
			log.Printf("Failed to create load %d: %v", l.ID, err)
		}
	}

	eventRepo := database.NewSearchEventAdapter(pgClient)
	if err := eventRepo.Insert(ctx, events); err != nil {
		log.Fatalf("Failed to insert search events: %v", err)
	}

	log.Printf("Seeded %d loads and %d search events", len(loads), len(events))
}

// generateLoads produces a catalog of lanes between the fixture cities. Ids
// start at 1001 so they never collide with hand-written test fixtures.
func generateLoads(rng *rand.Rand, n int) []*entities.Load {
	base := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	loads := make([]*entities.Load, 0, n)
	for i := 0; i < n; i++ {
		origin := cities[rng.Intn(len(cities))]
		dest := cities[rng.Intn(len(cities))]
		for dest.name == origin.name {
			dest = cities[rng.Intn(len(cities))]
		}

		pickupAt := base.
			AddDate(0, 0, rng.Intn(10)).
			Add(time.Duration(5+rng.Intn(14)) * time.Hour)
		deliveryAt := pickupAt.Add(time.Duration(8+rng.Intn(48)) * time.Hour)

		loads = append(loads, &entities.Load{
			ID: int64(1001 + i),
			Pickup: entities.Stop{
				City:  origin.name,
				State: origin.state,
				Date:  pickupAt.Format("Jan 02 2006"),
				Time:  pickupAt.Format("3:04 PM"),
			},
			Delivery: entities.Stop{
				City:  dest.name,
				State: dest.state,
				Date:  deliveryAt.Format("Jan 02 2006"),
				Time:  deliveryAt.Format("3:04 PM"),
			},
			PickupCoord: origin.loc,
			Equipment:   equipmentTypes[rng.Intn(len(equipmentTypes))],
			WeightLbs:   10000 + rng.Intn(35000),
			RateUSD:     float64(800+rng.Intn(4200)) + 0.50,
		})
	}
	return loads
}

// generateEvents produces a clickstream where each user favors a home lane,
// so history-based matching has signal to find.
func generateEvents(rng *rand.Rand, users, eventsPerUser int) []entities.SearchEvent {
	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

	var events []entities.SearchEvent
	for u := 0; u < users; u++ {
		userID := int64(100 + u)
		home := cities[u%len(cities)]
		away := cities[(u+3)%len(cities)]

		for e := 0; e < eventsPerUser; e++ {
			origin, dest := home, away
			// a third of searches wander off the home lane
			if rng.Intn(3) == 0 {
				origin = cities[rng.Intn(len(cities))]
				dest = cities[rng.Intn(len(cities))]
			}
			events = append(events, entities.SearchEvent{
				UserID:      userID,
				Timestamp:   base.Add(time.Duration(e*7+rng.Intn(6)) * time.Hour),
				GeoCity:     formatLocation(home),
				Origin:      formatLocation(origin),
				Destination: formatLocation(dest),
			})
		}
	}
	return events
}

func formatLocation(c city) string {
	return entities.Stop{City: c.name, State: c.state}.FormattedLocation()
}

func writeLoadsJSON(path string, loads []*entities.Load) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(loads, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeClickstreamCSV(path string, events []entities.SearchEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"USER_PSEUDO_ID", "EVENT_TIMESTAMP", "GEO_CITY_STANDARDIZED", "EVENT_ORIGIN", "EVENT_DESTINATION"}); err != nil {
		return err
	}
	for _, ev := range events {
		record := []string{
			strconv.FormatInt(ev.UserID, 10),
			ev.Timestamp.Format(time.RFC3339),
			ev.GeoCity,
			ev.Origin,
			ev.Destination,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush clickstream csv: %w", err)
	}
	return nil
}
