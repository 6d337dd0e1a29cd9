// Command planner runs a single route-planning query from the command
// line and prints its rendered report to stdout — a one-shot
// alternative to running the full HTTP server, for local testing and
// scripting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gilby125/go-home-router/config"
	"github.com/gilby125/go-home-router/engine"
	"github.com/gilby125/go-home-router/pkg/logger"
	"github.com/gilby125/go-home-router/provider"
	"github.com/gilby125/go-home-router/rank"
	"github.com/gilby125/go-home-router/segment"
)

func main() {
	origin := flag.String("origin", "", "origin city (required)")
	destination := flag.String("destination", "", "destination city (required)")
	date := flag.String("date", time.Now().Format("2006-01-02"), "departure date, YYYY-MM-DD")
	filterFlag := flag.String("filter", "all", "all, flight, or train")
	maxHubs := flag.Int("max-hubs", 0, "override the configured transfer-hub candidate pool size")
	excludeDirect := flag.Bool("exclude-direct", false, "skip direct-route queries")
	legacy := flag.Bool("legacy-report", false, "render the raw-payload report instead of the grouped one")
	dedup := flag.Bool("dedup", false, "collapse routes sharing the same leg itinerary")
	flag.Parse()

	if *origin == "" || *destination == "" {
		fmt.Fprintln(os.Stderr, "both -origin and -destination are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format})

	ctx := context.Background()

	flightGateway, err := provider.NewMCPGateway(ctx, "flight", cfg.ProviderConfig.FlightCommand, log)
	if err != nil {
		log.Fatal(err, "failed to launch flight provider")
	}
	defer flightGateway.Close()

	trainGateway, err := provider.NewMCPGateway(ctx, "train", cfg.ProviderConfig.TrainCommand, log)
	if err != nil {
		log.Fatal(err, "failed to launch train provider")
	}
	defer trainGateway.Close()

	parsedDate, err := time.Parse("2006-01-02", *date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -date %q: %v\n", *date, err)
		os.Exit(2)
	}

	var filter segment.Filter
	switch *filterFlag {
	case "flight":
		filter = segment.FilterFlight
	case "train":
		filter = segment.FilterTrain
	default:
		filter = segment.FilterAll
	}

	result, err := engine.Run(ctx, *origin, *destination, cfg, flightGateway, trainGateway, nil, log, engine.Options{
		Date:          parsedDate,
		Filter:        filter,
		MaxHubs:       *maxHubs,
		ExcludeDirect: *excludeDirect,
		OnLog:         func(msg string) { log.Debug(msg) },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
		os.Exit(1)
	}

	if *dedup {
		result.Routes = rank.Dedup(result.Routes)
	}

	report := result.Report
	if *legacy {
		report = rank.FormatLegacy(*origin, *destination, *date, result.Results)
	}

	fmt.Println(report)
}
