package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"payments-monitor/internal/cache"
	"payments-monitor/internal/config"
	"payments-monitor/internal/db"
	"payments-monitor/internal/models"
	"payments-monitor/internal/repositories"
)

func main() {
	all := flag.Bool("all", false, "also forget manual site mappings and unlinks")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	keys := []string{
		models.OptionIgnoredCustomers,
		models.OptionIgnoredSites,
		models.OptionCustomerNotes,
		models.OptionSiteNotes,
	}
	if *all {
		keys = append(keys, models.OptionSiteCustomerMap, models.OptionUnlinkedSites)
	}

	fmt.Println("========================================")
	fmt.Println("   Reset Monitor Preferences")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This will delete these options and the cached report:")
	for _, key := range keys {
		fmt.Printf("  - %s\n", key)
	}
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg := config.Load()
	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repositories.NewPreferenceRepository(pool)
	for _, key := range keys {
		if err := repo.Delete(ctx, key); err != nil {
			log.Fatalf("Failed to delete %s: %v", key, err)
		}
		fmt.Printf("✓ Deleted %s\n", key)
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		fmt.Printf("⚠️  Redis unavailable (%v), running servers keep their in-process report until it expires\n", err)
	} else {
		cache.NewReportStore(cache.GetClient()).Delete(ctx)
		cache.Close()
		fmt.Println("✓ Cleared shared report cache")
	}

	remaining, err := repo.Keys(ctx)
	if err != nil {
		log.Fatalf("Failed to list options: %v", err)
	}
	fmt.Printf("\nDone. %d option(s) remain: %v\n", len(remaining), remaining)
}
