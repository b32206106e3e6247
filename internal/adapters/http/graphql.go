package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	windowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CollectionWindow",
		Fields: graphql.Fields{
			"start": &graphql.Field{Type: graphql.String},
			"end":   &graphql.Field{Type: graphql.String},
		},
	})

	shopType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Shop",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"phone":         &graphql.Field{Type: graphql.String},
			"opening_hours": &graphql.Field{Type: graphql.String},
			"rating":        &graphql.Field{Type: graphql.Float},
			"distance":      &graphql.Field{Type: graphql.Float},
		},
	})

	bagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bag",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"shop_id":            &graphql.Field{Type: graphql.String},
			"title":              &graphql.Field{Type: graphql.String},
			"description":        &graphql.Field{Type: graphql.String},
			"category":           &graphql.Field{Type: graphql.String},
			"original_price":     &graphql.Field{Type: graphql.Float},
			"discounted_price":   &graphql.Field{Type: graphql.Float},
			"total_quantity":     &graphql.Field{Type: graphql.Int},
			"remaining_quantity": &graphql.Field{Type: graphql.Int},
			"collection_date":    &graphql.Field{Type: graphql.String},
			"collection_window":  &graphql.Field{Type: windowType},
			"location":           &graphql.Field{Type: geoPointType},
			"distance":           &graphql.Field{Type: graphql.Float},
			"status":             &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"bagsNearby": &graphql.Field{
				Type:        graphql.NewList(bagType),
				Description: "Find live bags near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 2000.0},
					"max_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					maxKm := p.Args["max_km"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Discovery.NearbyBags(p.Context, lat, lon, radius, maxKm, limit)
				},
			},
			"bag": &graphql.Field{
				Type:        bagType,
				Description: "Get a bag by ID with its derived lifecycle status",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Bags.GetByID(p.Context, id)
				},
			},
			"shop": &graphql.Field{
				Type:        shopType,
				Description: "Get a shop by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Shops.GetByID(p.Context, id)
				},
			},
			"shopsNearby": &graphql.Field{
				Type:        graphql.NewList(shopType),
				Description: "Find shops near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 2000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Discovery.NearbyShops(p.Context, lat, lon, radius, limit)
				},
			},
			"shopBags": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "BagListing",
					Fields: graphql.Fields{
						"active":    &graphql.Field{Type: graphql.NewList(bagType)},
						"expired":   &graphql.Field{Type: graphql.NewList(bagType)},
						"cancelled": &graphql.Field{Type: graphql.NewList(bagType)},
					},
				}),
				Description: "A shop's bags partitioned by lifecycle state",
				Args: graphql.FieldConfigArgument{
					"shop_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					shopID := p.Args["shop_id"].(string)
					return deps.Bags.ListByShop(p.Context, shopID)
				},
			},
			"favorites": &graphql.Field{
				Type:        graphql.NewList(shopType),
				Description: "Shops a customer follows",
				Args: graphql.FieldConfigArgument{
					"customer_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customerID := p.Args["customer_id"].(string)
					return deps.Favorites.ListByCustomer(p.Context, customerID)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
