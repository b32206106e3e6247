package http

import (
	"github.com/nats-io/nats.go"
	"github.com/sandunt/lastbag/internal/adapters/postgres"
	"github.com/sandunt/lastbag/internal/adapters/valkey"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Bags         *usecases.BagService
	Discovery    *usecases.DiscoveryService
	Shops        *usecases.ShopService
	Reservations *usecases.ReservationService
	Favorites    *usecases.FavoriteService
	Sweeper      *usecases.SweepService
	NATS         *nats.Conn
	DB           *postgres.DB
	Cache        *valkey.Cache
}
