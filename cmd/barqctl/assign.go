package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/barqfleet/dispatch-core/internal/fleet"
	"github.com/barqfleet/dispatch-core/internal/geo"
)

var (
	assignServiceType                            string
	pickupLat, pickupLng, dropoffLat, dropoffLng float64
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Run one Order Assignment call against the live fleet and print the result",
	Run:   runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&assignServiceType, "service", "BARQ", "BARQ or BULLET")
	assignCmd.Flags().Float64Var(&pickupLat, "pickup-lat", 0, "pickup latitude")
	assignCmd.Flags().Float64Var(&pickupLng, "pickup-lng", 0, "pickup longitude")
	assignCmd.Flags().Float64Var(&dropoffLat, "dropoff-lat", 0, "dropoff latitude")
	assignCmd.Flags().Float64Var(&dropoffLng, "dropoff-lng", 0, "dropoff longitude")
}

func runAssign(cmd *cobra.Command, args []string) {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "barqctl: DATABASE_URL is required for assign")
		os.Exit(1)
	}
	db, err := dbOpenOrExit(dsn, log)
	if err != nil {
		os.Exit(1)
	}
	defer db.Close()

	eng, _, err := buildEngine(cfg, log, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: build engine: %v\n", err)
		os.Exit(1)
	}

	order := fleet.Order{
		ID:          uuid.New(),
		ServiceType: fleet.ServiceType(assignServiceType),
		Pickup:      geo.Point{Lat: pickupLat, Lng: pickupLng},
		Dropoff:     geo.Point{Lat: dropoffLat, Lng: dropoffLng},
	}

	result, err := eng.Assign(context.Background(), order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: assign: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
