package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tlemoine/gridfeed/internal/energy"
	"github.com/tlemoine/gridfeed/internal/rte"
	"github.com/tlemoine/gridfeed/internal/timeseries"
)

var validate = validator.New()

// Services bundles the backends the handlers draw from. A nil entry turns
// the matching endpoints into 503s, so a partially configured deployment
// still serves the rest.
type Services struct {
	Load        *energy.LoadService
	Temperature *energy.TemperatureService
	RTE         *rte.Client
}

type seriesResponse struct {
	Name   string            `json:"name"`
	Series timeseries.Series `json:"series"`
}

type seriesSetResponse struct {
	Name   string                       `json:"name"`
	Series map[string]timeseries.Series `json:"series"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, services Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/load", func(c *fiber.Ctx) error {
		if services.Load == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "load backend not configured")
		}

		req, err := parseRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := services.Load.Hourly(c.UserContext(), req.Start, req.End)
		if err != nil {
			return err
		}

		return c.JSON(seriesResponse{Name: "load", Series: s})
	})

	v1.Get("/temperature", func(c *fiber.Ctx) error {
		if services.Temperature == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "temperature backend not configured")
		}

		req, err := parseRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := services.Temperature.WeightedHourly(c.UserContext(), req.Start, req.End)
		if err != nil {
			return err
		}

		return c.JSON(seriesResponse{Name: "temperature", Series: s})
	})

	v1.Get("/consumption", func(c *fiber.Ctx) error {
		if services.RTE == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "rte backend not configured")
		}

		req, err := parseRangeQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		types, err := rte.ParsePrevisionTypes(c.Query("types", rte.Realised.String()))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		byType, err := services.RTE.ShortTermConsumptions(c.UserContext(), types, req.Start, req.End)
		if err != nil {
			return err
		}

		set := make(map[string]timeseries.Series, len(byType))
		for typ, s := range byType {
			set[typ.String()] = s
		}
		return c.JSON(seriesSetResponse{Name: "consumption", Series: set})
	})

	// The upstream fixes the day-ahead window itself, so /prices takes no
	// range parameters.
	v1.Get("/prices", func(c *fiber.Ctx) error {
		if services.RTE == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "rte backend not configured")
		}

		ex, err := services.RTE.FrancePowerExchanges(c.UserContext())
		if err != nil {
			return err
		}

		return c.JSON(seriesSetResponse{Name: "prices", Series: map[string]timeseries.Series{
			"volume": ex.Volume,
			"price":  ex.Price,
		}})
	})
}

// rangeQuery holds the shared start/end window parameters.
type rangeQuery struct {
	Start time.Time `validate:"required"`
	End   time.Time `validate:"required,gtefield=Start"`
}

func parseRangeQuery(c *fiber.Ctx) (rangeQuery, error) {
	var q rangeQuery

	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		return q, errors.New("start and end query parameters are required")
	}

	start, err := parseTime(startStr)
	if err != nil {
		return q, err
	}
	end, err := parseTime(endStr)
	if err != nil {
		return q, err
	}
	q.Start = start
	q.End = end

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
