package gateway

import (
	"context"
	"net/http"
	"net/url"

	"caritas/internal/domain"
	"caritas/internal/dto"
)

func (c *Client) ServiceReservationDetails(ctx context.Context, id string) (*domain.ServiceReservationDetails, error) {
	var out dto.ServiceReservationDetailsDTO
	err := c.send(ctx, call{
		method: http.MethodGet,
		path:   "/service-reservations/" + url.PathEscape(id) + "/details",
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return dto.ToServiceReservationDetails(out), nil
}

// ConfirmServiceReservation treats any 2xx as accepted; the body is ignored.
func (c *Client) ConfirmServiceReservation(ctx context.Context, id string) error {
	return c.send(ctx, call{
		method: http.MethodPost,
		path:   "/service-reservations/confirm/" + url.PathEscape(id),
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.send(ctx, call{
		method:    http.MethodPost,
		path:      "/login",
		body:      dto.LoginRequest{Email: email, Password: password},
		out:       &out,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
