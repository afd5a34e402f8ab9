package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Run one Fleet Rebalancer cycle against the live fleet and print the result",
	Run:   runRebalance,
}

func runRebalance(cmd *cobra.Command, args []string) {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "barqctl: DATABASE_URL is required for rebalance")
		os.Exit(1)
	}
	db, err := dbOpenOrExit(dsn, log)
	if err != nil {
		os.Exit(1)
	}
	defer db.Close()

	eng, store, err := buildEngine(cfg, log, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "barqctl: build engine: %v\n", err)
		os.Exit(1)
	}

	result, ok := eng.RunRebalanceCycle(context.Background(), store)
	if !ok {
		fmt.Fprintln(os.Stderr, "barqctl: rebalance cycle already in flight or fetch failed")
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
