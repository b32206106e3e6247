package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/sandunt/lastbag/internal/adapters/postgres"
	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/pkg/config"
)

// SeedFile is the on-disk format: shops with their initial bags.
type SeedFile struct {
	Shops []SeedShop `json:"shops"`
}

type SeedShop struct {
	Shop domain.Shop  `json:"shop"`
	Bags []domain.Bag `json:"bags"`
}

func main() {
	cfg, err := config.Load("lastbag-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	seedPath := "seed.json"
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatalf("read %s: %v", seedPath, err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse %s: %v", seedPath, err)
	}

	shopRepo := postgres.NewShopRepo(db)
	bagRepo := postgres.NewBagRepo(db)

	totalBags := 0
	for _, entry := range seed.Shops {
		shop := entry.Shop
		if err := shopRepo.Upsert(ctx, &shop); err != nil {
			log.Fatalf("upsert shop %q: %v", shop.Name, err)
		}

		bags := entry.Bags
		for i := range bags {
			bags[i].ShopID = shop.ID
			if bags[i].RemainingQuantity == 0 {
				bags[i].RemainingQuantity = bags[i].TotalQuantity
			}
			bags[i].IsActive = true
			bags[i].IsAvailable = true
		}
		if len(bags) > 0 {
			if err := bagRepo.UpsertBatch(ctx, bags); err != nil {
				log.Fatalf("seed bags for %q: %v", shop.Name, err)
			}
		}
		totalBags += len(bags)
		log.Printf("seeded shop %q with %d bags", shop.Name, len(bags))
	}

	log.Printf("done: %d shops, %d bags", len(seed.Shops), totalBags)
}
