// risk-seeder generates synthetic activity logs (logon.csv, http.csv,
// device.csv) in the raw export format the pipeline ingests. Baseline
// behavior is steady per user; a scenario file injects anomalous
// user-days with inflated counts and after-hours activity so scored
// output has something to flag.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

var (
	userCount   = flag.Int("users", 20, "Number of users to simulate")
	dayCount    = flag.Int("days", 30, "Number of calendar days to cover")
	startDate   = flag.String("start", "2024-01-01", "First simulated day (YYYY-MM-DD)")
	outDir      = flag.String("out", ".", "Directory for the generated CSV files")
	seed        = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	scenario    = flag.String("scenario", "", "YAML scenario file of anomalous user-days")
	anomalyRate = flag.Float64("anomaly-rate", 0.0, "Fraction of user-days made anomalous at random")
)

// Anomaly marks one user-day whose activity should stand out.
type Anomaly struct {
	User             string  `yaml:"user"`
	Date             string  `yaml:"date"`
	LogonMultiplier  float64 `yaml:"logon_multiplier"`
	HTTPMultiplier   float64 `yaml:"http_multiplier"`
	DeviceMultiplier float64 `yaml:"device_multiplier"`
	AfterHours       bool    `yaml:"after_hours"`
}

// Scenario is the YAML file format accepted by -scenario.
type Scenario struct {
	Anomalies []Anomaly `yaml:"anomalies"`
}

type writers struct {
	logon  *csv.Writer
	http   *csv.Writer
	device *csv.Writer
}

func main() {
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	gofakeit.Seed(*seed)

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("invalid -start date: %v", err)
	}

	anomalies, err := loadScenario(*scenario)
	if err != nil {
		log.Fatalf("load scenario: %v", err)
	}

	users := make([]string, *userCount)
	for i := range users {
		users[i] = fmt.Sprintf("%s%04d", gofakeit.LetterN(3), rng.Intn(10000))
	}

	log.Printf("Seeding activity logs:")
	log.Printf("  Users: %d", *userCount)
	log.Printf("  Days: %d from %s", *dayCount, start.Format("2006-01-02"))
	log.Printf("  Seed: %d", *seed)
	log.Printf("  Scenario anomalies: %d", len(anomalies))

	w, closeAll, err := openWriters(*outDir)
	if err != nil {
		log.Fatalf("open output files: %v", err)
	}
	defer closeAll()

	eventID := 0
	nextID := func() string {
		eventID++
		return fmt.Sprintf("{E%08d}", eventID)
	}

	rows := 0
	for _, user := range users {
		pc := "PC-" + strconv.Itoa(rng.Intn(9000)+1000)
		baseLogons := rng.Intn(4) + 2
		baseHTTP := rng.Intn(30) + 10
		baseDevice := rng.Intn(3)

		for d := 0; d < *dayCount; d++ {
			day := start.AddDate(0, 0, d)
			a := anomalyFor(anomalies, user, day)
			if a == nil && *anomalyRate > 0 && rng.Float64() < *anomalyRate {
				a = &Anomaly{
					LogonMultiplier:  4 + rng.Float64()*4,
					HTTPMultiplier:   5 + rng.Float64()*5,
					DeviceMultiplier: 6 + rng.Float64()*4,
					AfterHours:       true,
				}
			}

			rows += writeDay(w, rng, nextID, user, pc, day, dayProfile{
				logons:  scaled(baseLogons, a, func(x *Anomaly) float64 { return x.LogonMultiplier }),
				https:   scaled(baseHTTP, a, func(x *Anomaly) float64 { return x.HTTPMultiplier }),
				devices: scaled(baseDevice, a, func(x *Anomaly) float64 { return x.DeviceMultiplier }),
				night:   a != nil && a.AfterHours,
			})
		}
	}

	w.logon.Flush()
	w.http.Flush()
	w.device.Flush()

	log.Printf("Seeding complete: %d events across %d user-days", rows, *userCount**dayCount)
}

type dayProfile struct {
	logons  int
	https   int
	devices int
	night   bool
}

// writeDay emits one user-day of events across the three logs and
// returns the number of rows written.
func writeDay(w *writers, rng *rand.Rand, nextID func() string, user, pc string, day time.Time, p dayProfile) int {
	stamp := func() string {
		hour := 8 + rng.Intn(10)
		if p.night {
			hour = rng.Intn(6) // 00:00 to 05:59
		}
		t := time.Date(day.Year(), day.Month(), day.Day(),
			hour, rng.Intn(60), rng.Intn(60), 0, time.UTC)
		return t.Format("01/02/2006 15:04:05")
	}

	rows := 0
	for i := 0; i < p.logons; i++ {
		activity := "Logon"
		if i%2 == 1 {
			activity = "Logoff"
		}
		w.logon.Write([]string{nextID(), stamp(), user, pc, activity})
		rows++
	}
	for i := 0; i < p.https; i++ {
		ts := stamp()
		w.http.Write([]string{
			nextID(),
			ts[:10],
			ts[11:],
			user,
			pc,
			gofakeit.URL(),
			gofakeit.LoremIpsumSentence(6),
			strconv.Itoa(rng.Intn(20000)),
			strconv.Itoa(rng.Intn(200000)),
		})
		rows++
	}
	for i := 0; i < p.devices; i++ {
		activity := "Connect"
		if i%2 == 1 {
			activity = "Disconnect"
		}
		w.device.Write([]string{nextID(), stamp(), user, pc, activity})
		rows++
	}
	return rows
}

func scaled(base int, a *Anomaly, pick func(*Anomaly) float64) int {
	if a == nil {
		return base
	}
	m := pick(a)
	if m <= 0 {
		m = 1
	}
	n := int(float64(base)*m + 0.5)
	if n < base {
		n = base
	}
	return n
}

func anomalyFor(anomalies []Anomaly, user string, day time.Time) *Anomaly {
	date := day.Format("2006-01-02")
	for i := range anomalies {
		if anomalies[i].User == user && anomalies[i].Date == date {
			return &anomalies[i]
		}
	}
	return nil
}

func loadScenario(path string) ([]Anomaly, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s.Anomalies, nil
}

func openWriters(dir string) (*writers, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	open := func(name string) (*os.File, error) {
		return os.Create(filepath.Join(dir, name))
	}

	logonFile, err := open("logon.csv")
	if err != nil {
		return nil, nil, err
	}
	httpFile, err := open("http.csv")
	if err != nil {
		logonFile.Close()
		return nil, nil, err
	}
	deviceFile, err := open("device.csv")
	if err != nil {
		logonFile.Close()
		httpFile.Close()
		return nil, nil, err
	}

	w := &writers{
		logon:  csv.NewWriter(logonFile),
		http:   csv.NewWriter(httpFile),
		device: csv.NewWriter(deviceFile),
	}
	// Logon and device logs carry a header row; the http log does not.
	w.logon.Write([]string{"id", "date", "user", "pc", "activity"})
	w.device.Write([]string{"id", "date", "user", "pc", "activity"})

	closeAll := func() {
		logonFile.Close()
		httpFile.Close()
		deviceFile.Close()
	}
	return w, closeAll, nil
}
