package main

import (
	"flag"
	"fmt"
	"os"

	"flowmine/cmd/loggen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, rework, congested")
	count := flag.Int("count", 200, "Number of cases to generate")
	out := flag.String("out", "orders.csv", "Output CSV path")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Count:    *count,
		Seed:     *seed,
	}

	fmt.Printf("Generating scenario '%s' (%d cases) to %s...\n", cfg.Scenario, cfg.Count, *out)

	records := engine.Generate(cfg)
	if err := engine.Save(*out, records); err != nil {
		fmt.Printf("Failed to save event log: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d events written.\n", len(records))
}
