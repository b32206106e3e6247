package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sandunt/lastbag/internal/core/domain"
)

// MarketStats holds row counts from the marketplace tables.
type MarketStats struct {
	Shops        int    `json:"shops"`
	Bags         int    `json:"bags"`
	LiveBags     int    `json:"live_bags"`
	Reservations int    `json:"reservations"`
	LastPosted   string `json:"last_posted,omitempty"`
}

// MarketStatsHandler returns row counts from the marketplace tables.
func MarketStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats MarketStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM shops),
				(SELECT count(*) FROM bags),
				(SELECT count(*) FROM bags WHERE is_active AND is_available),
				(SELECT count(*) FROM reservations),
				COALESCE((SELECT max(created_at)::text FROM bags), '')
		`)
		if err := row.Scan(&stats.Shops, &stats.Bags, &stats.LiveBags,
			&stats.Reservations, &stats.LastPosted); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// NearbyBagsHandler returns live bags within a radius of a point.
func NearbyBagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 2000)
		maxKm := c.QueryFloat("max_km", 0)
		limit := c.QueryInt("limit", 50)

		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		bags, err := deps.Discovery.NearbyBags(c.Context(), lat, lon, radius, maxKm, limit)
		if err != nil {
			if strings.Contains(err.Error(), "invalid origin") {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(bags)
	}
}

// GetBagHandler returns a single bag with its derived status.
func GetBagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "bag id is required")
		}
		bag, err := deps.Bags.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "bag not found")
		}
		return c.JSON(bag)
	}
}

// PostBagHandler creates a new bag listing.
func PostBagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bag domain.Bag
		if err := c.BodyParser(&bag); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if err := deps.Bags.Post(c.Context(), &bag); err != nil {
			return errBadRequest(c, err.Error())
		}

		return c.Status(201).JSON(bag)
	}
}

// DeactivateBagHandler pulls a bag off the market.
func DeactivateBagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "bag id is required")
		}
		if err := deps.Bags.Deactivate(c.Context(), id); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// ShopBagsHandler returns a shop's bags partitioned by lifecycle state.
func ShopBagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID := c.Params("id")
		if shopID == "" {
			return errBadRequest(c, "shop id is required")
		}

		listing, err := deps.Bags.ListByShop(c.Context(), shopID)
		if err != nil {
			return errInternal(c, err.Error())
		}

		switch c.Query("state") {
		case "":
			return c.JSON(listing)
		case "active":
			return c.JSON(listing.Active)
		case "expired":
			return c.JSON(listing.Expired)
		case "cancelled":
			return c.JSON(listing.Cancelled)
		default:
			return errBadRequest(c, "state must be one of active, expired, cancelled")
		}
	}
}

// NearbyShopsHandler returns shops within a radius of a point.
func NearbyShopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 2000)
		limit := c.QueryInt("limit", 50)

		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		shops, err := deps.Discovery.NearbyShops(c.Context(), lat, lon, radius, limit)
		if err != nil {
			if strings.Contains(err.Error(), "invalid origin") {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(shops)
	}
}

// ListShopsHandler returns all active shops with offset/limit pagination.
func ListShopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shops, err := deps.Shops.List(c.Context(), 200)
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(shops)
		if offset >= total {
			shops = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			shops = shops[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: shops, Pagination: pg})
	}
}

// GetShopHandler returns a single shop by ID.
func GetShopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "shop id is required")
		}
		shop, err := deps.Shops.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "shop not found")
		}
		return c.JSON(shop)
	}
}

// UpsertShopHandler creates or updates a shop profile.
func UpsertShopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shop domain.Shop
		if err := c.BodyParser(&shop); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if err := deps.Shops.Upsert(c.Context(), &shop); err != nil {
			return errBadRequest(c, err.Error())
		}

		return c.Status(201).JSON(shop)
	}
}

// ReserveHandler claims part of a bag for a customer.
func ReserveHandler(deps *Dependencies) fiber.Handler {
	type reserveRequest struct {
		CustomerID string `json:"customer_id"`
		BagID      string `json:"bag_id"`
		Quantity   int    `json:"quantity"`
	}

	return func(c *fiber.Ctx) error {
		var req reserveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.CustomerID == "" || req.BagID == "" {
			return errBadRequest(c, "customer_id and bag_id are required")
		}

		res, err := deps.Reservations.Reserve(c.Context(), req.CustomerID, req.BagID, req.Quantity)
		if err != nil {
			if strings.Contains(err.Error(), "insufficient") || strings.Contains(err.Error(), "left in bag") {
				return errConflict(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}

		return c.Status(201).JSON(res)
	}
}

// GetReservationHandler returns a reservation by pickup code.
func GetReservationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "pickup code is required")
		}
		res, err := deps.Reservations.GetByCode(c.Context(), code)
		if err != nil {
			return errNotFound(c, "reservation not found")
		}
		return c.JSON(res)
	}
}

// ListReservationsHandler returns a customer's reservations.
func ListReservationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Query("customer_id")
		if customerID == "" {
			return errBadRequest(c, "customer_id query parameter is required")
		}
		reservations, err := deps.Reservations.ListByCustomer(c.Context(), customerID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(reservations)
	}
}

// CollectReservationHandler marks a reservation as picked up.
func CollectReservationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "pickup code is required")
		}
		if err := deps.Reservations.Collect(c.Context(), code); err != nil {
			return errConflict(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// CancelReservationHandler cancels a reservation and releases its quantity.
func CancelReservationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "pickup code is required")
		}
		if err := deps.Reservations.Cancel(c.Context(), code); err != nil {
			return errConflict(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// AddFavoriteHandler marks a shop as a customer favorite.
func AddFavoriteHandler(deps *Dependencies) fiber.Handler {
	type favoriteRequest struct {
		CustomerID string `json:"customer_id"`
		ShopID     string `json:"shop_id"`
	}

	return func(c *fiber.Ctx) error {
		var req favoriteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Favorites.Add(c.Context(), req.CustomerID, req.ShopID); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// RemoveFavoriteHandler drops a shop from a customer's favorites.
func RemoveFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Query("customer_id")
		shopID := c.Params("shop_id")
		if err := deps.Favorites.Remove(c.Context(), customerID, shopID); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// ListFavoritesHandler returns the shops a customer follows.
func ListFavoritesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Query("customer_id")
		if customerID == "" {
			return errBadRequest(c, "customer_id query parameter is required")
		}
		shops, err := deps.Favorites.ListByCustomer(c.Context(), customerID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(shops)
	}
}

// SweepHandler triggers one reconcile pass on demand.
func SweepHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Sweeper == nil {
			return errInternal(c, "sweeper not available")
		}
		swept, err := deps.Sweeper.SweepAll(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"swept": swept})
	}
}
