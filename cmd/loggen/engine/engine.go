// Package engine generates synthetic order-to-cash event logs in the
// standard export format, so demos and ad-hoc testing have realistic input
// without touching production data.
package engine

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"
)

type GeneratorConfig struct {
	Scenario string // "steady", "rework" or "congested"
	Count    int
	Seed     int64
	Start    time.Time
}

// Header matches eventlog.DefaultOptions, so generated files load without
// column overrides.
var Header = []string{"CASE ID", "EVENT", "START TIME", "END TIME", "TEAM", "SYSTEM", "USER"}

type step struct {
	activity string
	team     string
	system   string
	meanMin  float64
}

var flow = []step{
	{"Receive Order", "Sales", "CRM", 5},
	{"Check Stock", "Warehouse", "ERP", 10},
	{"Pick Items", "Warehouse", "WMS", 25},
	{"Pack Order", "Warehouse", "WMS", 20},
	{"Ship Order", "Logistics", "WMS", 30},
	{"Send Invoice", "Finance", "ERP", 10},
}

var qualityCheck = step{"Quality Check", "Warehouse", "WMS", 15}

var users = map[string][]string{
	"Sales":     {"ana", "boris"},
	"Warehouse": {"chen", "dana", "emil"},
	"Logistics": {"filip"},
	"Finance":   {"greta"},
}

const timeLayout = "2006-01-02 15:04:05"

// Generate produces the CSV records (without the header row) for Count
// order-to-cash cases. The same config always yields the same records.
func Generate(cfg GeneratorConfig) [][]string {
	if cfg.Count <= 0 {
		cfg.Count = 200
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Steady arrivals every ~3 hours spread the log over weeks; congested
	// arrivals pile up faster than packing drains them.
	arrivalGap := 180.0
	if cfg.Scenario == "congested" {
		arrivalGap = 45.0
	}

	var records [][]string
	arrival := cfg.Start
	for i := 0; i < cfg.Count; i++ {
		caseID := fmt.Sprintf("ORD-%04d", i+1)
		records = append(records, generateCase(rng, cfg.Scenario, caseID, arrival)...)
		arrival = arrival.Add(minutes(arrivalGap * (0.5 + rng.Float64())))
	}
	return records
}

func generateCase(rng *rand.Rand, scenario, caseID string, arrival time.Time) [][]string {
	var out [][]string
	t := arrival
	reworks := 0

	for i := 0; i < len(flow); i++ {
		rec, end := event(rng, scenario, caseID, flow[i], t)
		out = append(out, rec)
		t = end

		if scenario == "rework" && flow[i].activity == "Pick Items" {
			rec, end = event(rng, scenario, caseID, qualityCheck, t)
			out = append(out, rec)
			t = end
			if reworks < 2 && rng.Float64() < 0.35 {
				reworks++
				i--
			}
		}
	}
	return out
}

// event emits one activity as a queueing wait followed by the work itself.
// The returned time is the activity end, where the next wait begins.
func event(rng *rand.Rand, scenario, caseID string, s step, prev time.Time) ([]string, time.Time) {
	waitMin := 10.0
	durMin := s.meanMin
	if scenario == "congested" && s.activity == "Pack Order" {
		waitMin = 80
		durMin *= 2
	}

	start := prev.Add(minutes(waitMin * (0.5 + rng.Float64())))
	end := start.Add(minutes(durMin * (0.6 + 0.8*rng.Float64())))

	pool := users[s.team]
	user := pool[rng.Intn(len(pool))]

	return []string{
		caseID,
		s.activity,
		start.Format(timeLayout),
		end.Format(timeLayout),
		s.team,
		s.system,
		user,
	}, end
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// Save writes the header plus records to path as CSV.
func Save(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
