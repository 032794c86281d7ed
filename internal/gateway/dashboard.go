package gateway

import (
	"context"
	"net/http"

	"caritas/internal/dto"
)

func (c *Client) ReservationsHistogram(ctx context.Context) ([]int, error) {
	var out dto.HistogramResponse
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/reservations-histogram", out: &out}); err != nil {
		return nil, err
	}
	return out.Frequencies, nil
}

func (c *Client) PersonsHistogram(ctx context.Context) ([]int, error) {
	var out dto.HistogramResponse
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/persons-histogram", out: &out}); err != nil {
		return nil, err
	}
	return out.Frequencies, nil
}

func (c *Client) ReservationsStateCount(ctx context.Context) (*dto.StateCountResponse, error) {
	var out dto.StateCountResponse
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/reservations-state-count", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ServiceReservationsTypeCount(ctx context.Context) (map[string]int, error) {
	out := dto.ServiceTypeCountResponse{}
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/service-reservations-type-count", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
