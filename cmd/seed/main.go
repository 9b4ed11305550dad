// Command seed loads the demo menu into the configured data file.
// Usage: go run ./cmd/seed [-stock 20]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Phalatsane/wings-cafe/internal/config"
	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/repository"
	"github.com/Phalatsane/wings-cafe/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var menu = []dto.CreateProductRequest{
	{Name: "Chicken Wings", Description: "Six crispy wings with peri-peri sauce", Category: "Mains", Price: "65.00"},
	{Name: "Beef Burger", Description: "Grilled patty, cheddar, pickles", Category: "Mains", Price: "75.50"},
	{Name: "Chips", Description: "Large portion", Category: "Sides", Price: "25.00"},
	{Name: "Cappuccino", Description: "Double shot", Category: "Drinks", Price: "32.00"},
	{Name: "Iced Tea", Description: "Peach, 500ml", Category: "Drinks", Price: "22.00"},
	{Name: "Chocolate Muffin", Category: "Desserts", Price: "28.00"},
}

func main() {
	stock := flag.Int("stock", 20, "initial quantity for each product")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DataFile == config.MemoryDataFile {
		log.Fatal().Msg("DATA_FILE must point at a file to seed")
	}

	ctx := context.Background()
	ledger := service.NewLedger(repository.NewFileStore(cfg.DataFile), nil, cfg.LowStockThreshold)
	products := service.NewProductService(ledger)

	existing, err := products.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("data_file", cfg.DataFile).Msg("load data file")
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	created := 0
	for _, req := range menu {
		if have[req.Name] {
			continue
		}
		req.Quantity = *stock
		if _, err := products.Create(ctx, req); err != nil {
			log.Fatal().Err(err).Str("product", req.Name).Msg("create product")
		}
		created++
	}
	fmt.Printf("✅ %d products added to %s (%d already present)\n", created, cfg.DataFile, len(menu)-created)
}
