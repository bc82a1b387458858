package rte

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// Exchange pairs the traded volume and price series of the day-ahead market
// results on one shared 15-minute grid.
type Exchange struct {
	Volume timeseries.Series
	Price  timeseries.Series
}

type powerExchangesResponse struct {
	Blocks []exchangeBlock `json:"france_power_exchanges"`
}

type exchangeBlock struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Values    []apiValue `json:"values"`
}

// FrancePowerExchanges fetches the current day-ahead exchange results. The
// upstream fixes the window itself, so volume and price are gridded over the
// observed extent of the concatenated blocks. An empty response yields empty
// series, not an error.
func (c *Client) FrancePowerExchanges(ctx context.Context) (Exchange, error) {
	var payload powerExchangesResponse
	if err := c.fetchJSON(ctx, ServiceWholesaleMarket, nil, &payload); err != nil {
		return Exchange{}, err
	}

	var values []apiValue
	for _, block := range payload.Blocks {
		values = append(values, block.Values...)
	}

	volume, err := cleanSeries(values, func(v apiValue) json.RawMessage { return v.Value }, time.Time{}, time.Time{})
	if err != nil {
		return Exchange{}, err
	}
	price, err := cleanSeries(values, func(v apiValue) json.RawMessage { return v.Price }, time.Time{}, time.Time{})
	if err != nil {
		return Exchange{}, err
	}
	return Exchange{Volume: volume, Price: price}, nil
}
