package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
)

// stringField resolves a struct field through its String method. Clock and
// Date values are exposed as "HH:MM" and "YYYY-MM-DD".
func stringField(get func(src interface{}) fmt.Stringer) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			s := get(p.Source)
			if s == nil {
				return nil, nil
			}
			return s.String(), nil
		},
	}
}

// buildSchema creates the GraphQL schema wired to our services. Struct
// fields are resolved through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name: "POI",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"description": &graphql.Field{Type: graphql.String},
			"rating":      &graphql.Field{Type: graphql.Float},
			"distance":    &graphql.Field{Type: graphql.Float},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"poi":                &graphql.Field{Type: poiType},
			"start":              stringField(func(src interface{}) fmt.Stringer { return src.(domain.Activity).Start }),
			"end":                stringField(func(src interface{}) fmt.Stringer { return src.(domain.Activity).End }),
			"duration":           &graphql.Field{Type: graphql.Int},
			"travel_time":        &graphql.Field{Type: graphql.Int},
			"travel_distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	blockType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DayBlock",
		Fields: graphql.Fields{
			"kind":                &graphql.Field{Type: graphql.String},
			"activities":          &graphql.Field{Type: graphql.NewList(activityType)},
			"start":               stringField(func(src interface{}) fmt.Stringer { return src.(domain.DayBlock).Start }),
			"end":                 stringField(func(src interface{}) fmt.Stringer { return src.(domain.DayBlock).End }),
			"duration":            &graphql.Field{Type: graphql.Int},
			"total_activity_time": &graphql.Field{Type: graphql.Int},
			"total_travel_time":   &graphql.Field{Type: graphql.Int},
		},
	})

	dayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ItineraryDay",
		Fields: graphql.Fields{
			"day":                 &graphql.Field{Type: graphql.Int},
			"date":                stringField(func(src interface{}) fmt.Stringer { return src.(domain.ItineraryDay).Date }),
			"blocks":              &graphql.Field{Type: graphql.NewList(blockType)},
			"total_activities":    &graphql.Field{Type: graphql.Int},
			"total_activity_time": &graphql.Field{Type: graphql.Int},
			"total_travel_time":   &graphql.Field{Type: graphql.Int},
			"total_time":          &graphql.Field{Type: graphql.Int},
			"feasible":            &graphql.Field{Type: graphql.Boolean},
			"issues":              &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	metadataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Metadata",
		Fields: graphql.Fields{
			"created_at": &graphql.Field{Type: graphql.DateTime},
			"version":    &graphql.Field{Type: graphql.Int},
			"edited":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	itineraryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Itinerary",
		Fields: graphql.Fields{
			"trip_id":           &graphql.Field{Type: graphql.String},
			"city":              &graphql.Field{Type: graphql.String},
			"duration":          &graphql.Field{Type: graphql.Int},
			"start_date":        stringField(func(src interface{}) fmt.Stringer { return src.(*domain.Itinerary).StartDate }),
			"pace":              &graphql.Field{Type: graphql.String},
			"timezone":          &graphql.Field{Type: graphql.String},
			"days":              &graphql.Field{Type: graphql.NewList(dayType)},
			"poi_count":         &graphql.Field{Type: graphql.Int},
			"activity_count":    &graphql.Field{Type: graphql.Int},
			"total_travel_time": &graphql.Field{Type: graphql.Int},
			"metadata":          &graphql.Field{Type: metadataType},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"city":            &graphql.Field{Type: graphql.String},
			"pace":            &graphql.Field{Type: graphql.String},
			"days":            &graphql.Field{Type: graphql.Int},
			"start_date":      stringField(func(src interface{}) fmt.Stringer { return src.(domain.Trip).StartDate }),
			"current_version": &graphql.Field{Type: graphql.Int},
			"created_at":      &graphql.Field{Type: graphql.DateTime},
			"updated_at":      &graphql.Field{Type: graphql.DateTime},
		},
	})

	feasibilityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feasibility",
		Fields: graphql.Fields{
			"feasible": &graphql.Field{Type: graphql.Boolean},
			"issues":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"itinerary": &graphql.Field{
				Type:        itineraryType,
				Description: "Latest version of a trip's itinerary",
				Args: graphql.FieldConfigArgument{
					"tripId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Planner.GetItinerary(p.Context, p.Args["tripId"].(string))
				},
			},
			"itineraryVersion": &graphql.Field{
				Type:        itineraryType,
				Description: "One stored version of a trip's itinerary",
				Args: graphql.FieldConfigArgument{
					"tripId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"version": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Planner.GetVersion(p.Context, p.Args["tripId"].(string), p.Args["version"].(int))
				},
			},
			"trips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "Stored trips, newest first",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Planner.ListTrips(p.Context, p.Args["limit"].(int), p.Args["offset"].(int))
				},
			},
			"feasibility": &graphql.Field{
				Type:        feasibilityType,
				Description: "Feasibility of one day of a trip's latest itinerary",
				Args: graphql.FieldConfigArgument{
					"tripId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"day":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					it, err := deps.Planner.GetItinerary(p.Context, p.Args["tripId"].(string))
					if err != nil {
						return nil, err
					}
					n := p.Args["day"].(int)
					if n < 1 || n > len(it.Days) {
						return nil, fmt.Errorf("day %d: %w", n, domain.ErrNotFound)
					}
					return deps.Engine.CheckFeasibility(it.Days[n-1], it.Pace), nil
				},
			},
			"paces": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Supported pace names",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var names []string
					for _, pp := range planner.Paces() {
						names = append(names, string(pp.Name))
					}
					return names, nil
				},
			},
			"nearbyPois": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "Stored POIs near a location",
				Args: graphql.FieldConfigArgument{
					"lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radiusKm": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 2.0},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Planner.SuggestPOIs(p.Context,
						p.Args["lat"].(float64), p.Args["lon"].(float64),
						p.Args["radiusKm"].(float64), p.Args["limit"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the read-only GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
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
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
