package gateway

import (
	"context"
	"net/http"
	"net/url"

	"caritas/internal/domain"
	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

func (c *Client) Reservations(ctx context.Context) (*dto.ReservationsResponse, error) {
	var out dto.ReservationsResponse
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/reservations", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reservation(ctx context.Context, id string) (*domain.DetailedReservation, error) {
	path := "/reservations/" + url.PathEscape(id)

	var out dto.DetailedReservationDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}

	detail, err := dto.ToDetailedReservation(out)
	if err != nil {
		return nil, apperrors.NewTransportError(http.MethodGet+" "+path, err)
	}
	return detail, nil
}

// UpdateReservationState issues PUT /reservations/{id} {state}. The response
// body is not needed by callers and is discarded.
func (c *Client) UpdateReservationState(ctx context.Context, id string, state domain.State) error {
	return c.send(ctx, call{
		method: http.MethodPut,
		path:   "/reservations/" + url.PathEscape(id),
		body:   dto.UpdateStateRequest{State: string(state)},
	})
}
