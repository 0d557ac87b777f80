package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/usecases"
)

// parseBody decodes the JSON body into out. Field-level decode errors such
// as malformed clock values are returned as they are.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return domain.NewValidationError("body", "invalid request body")
	}
	return nil
}

// CreateTripHandler builds and stores a new itinerary.
func CreateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateTripInput
		if err := parseBody(c, &in); err != nil {
			return errFromService(c, err)
		}

		it, err := deps.Planner.CreateTrip(c.UserContext(), in)
		if err != nil {
			return errFromService(c, err)
		}

		c.Location("/v1/trips/" + it.TripID)
		return c.Status(fiber.StatusCreated).JSON(it)
	}
}

// ListTripsHandler lists stored trips, newest first.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		trips, err := deps.Planner.ListTrips(c.UserContext(), limit, offset)
		if err != nil {
			return errFromService(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, HasMore: len(trips) == limit}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trips, Pagination: pg})
	}
}

// GetTripHandler returns the latest itinerary of a trip.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		it, err := deps.Planner.GetItinerary(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(it)
	}
}

// GetVersionHandler returns one stored version of a trip's itinerary.
func GetVersionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		version, err := strconv.Atoi(c.Params("version"))
		if err != nil {
			return errBadRequest(c, "version must be an integer")
		}
		it, err := deps.Planner.GetVersion(c.UserContext(), c.Params("id"), version)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(it)
	}
}

// editRequest is an edit instruction plus the version the client edited.
type editRequest struct {
	domain.EditInstruction
	ExpectedVersion int `json:"expected_version"`
}

// ApplyEditHandler applies an edit to the latest version of a trip.
// expected_version, or an If-Match header holding the version number, guards
// against editing a stale copy.
func ApplyEditHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req editRequest
		if err := parseBody(c, &req); err != nil {
			return errFromService(c, err)
		}
		if req.ExpectedVersion == 0 {
			if v, err := strconv.Atoi(c.Get(fiber.HeaderIfMatch)); err == nil {
				req.ExpectedVersion = v
			}
		}

		res, err := deps.Edits.ApplyEdit(c.UserContext(), c.Params("id"), req.ExpectedVersion, req.EditInstruction)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(res)
	}
}

// EvaluateTripHandler evaluates a trip version (latest unless ?version=N).
func EvaluateTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.QueryInt("version", 0)
		if version < 0 {
			return errBadRequest(c, "version must not be negative")
		}
		ev, err := deps.Evaluations.Evaluate(c.UserContext(), c.Params("id"), version)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	}
}

// ListEvaluationsHandler returns recent evaluations of a trip.
func ListEvaluationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		evals, err := deps.Evaluations.List(c.UserContext(), c.Params("id"), c.QueryInt("limit", 20))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(evals)
	}
}

// CalendarHandler exports the latest itinerary as iCalendar.
func CalendarHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tripID := c.Params("id")
		out, err := deps.Exports.ICS(c.UserContext(), tripID)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="trip-%s.ics"`, tripID))
		return c.SendString(out)
	}
}

// DayRouteHandler exports one day of the latest itinerary as GeoJSON.
func DayRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := c.ParamsInt("day")
		if err != nil || day < 1 {
			return errBadRequest(c, "day must be a positive integer")
		}
		out, err := deps.Exports.DayGeoJSON(c.UserContext(), c.Params("id"), day)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(out)
	}
}

type feasibilityRequest struct {
	Day  domain.ItineraryDay `json:"day"`
	Pace domain.PaceName     `json:"pace"`
}

// FeasibilityHandler checks a client-supplied day against a pace.
func FeasibilityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req feasibilityRequest
		if err := parseBody(c, &req); err != nil {
			return errFromService(c, err)
		}
		if req.Pace == "" {
			req.Pace = domain.PaceModerate
		}
		if _, err := planner.ParsePace(string(req.Pace)); err != nil {
			return errFromService(c, err)
		}
		return c.JSON(deps.Engine.CheckFeasibility(req.Day, req.Pace))
	}
}

type diffRequest struct {
	Original    *domain.Itinerary `json:"original"`
	Edited      *domain.Itinerary `json:"edited"`
	TargetDay   int               `json:"target_day"`
	TargetBlock *domain.BlockKind `json:"target_block,omitempty"`
}

// DiffHandler verifies that two client-supplied itineraries differ only at
// the declared target.
func DiffHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req diffRequest
		if err := parseBody(c, &req); err != nil {
			return errFromService(c, err)
		}
		if req.Original == nil || req.Edited == nil {
			return errBadRequest(c, "original and edited are required")
		}
		if req.TargetDay < 1 {
			return errBadRequest(c, "target_day must be at least 1")
		}
		return c.JSON(deps.Engine.CheckDiff(req.Original, req.Edited, req.TargetDay, req.TargetBlock))
	}
}

// NearbyPOIsHandler suggests stored POIs around a point.
func NearbyPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius_km", 0)
		if radius < 0 {
			return errBadRequest(c, "radius_km must not be negative")
		}

		pois, err := deps.Planner.SuggestPOIs(c.UserContext(), lat, lon, radius, c.QueryInt("limit", 20))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(pois)
	}
}
