package api

import (
	"context"
	"net/http"
	"net/url"

	"habitat/internal/models"
)

type PlanetClient struct {
	c *Client
}

func NewPlanetClient(c *Client) *PlanetClient {
	return &PlanetClient{c: c}
}

func (pc *PlanetClient) List(ctx context.Context, token string) ([]models.Planet, error) {
	var out []models.Planet
	if err := pc.c.do(ctx, http.MethodGet, "/Planet", token, nil, &out, "Failed to fetch planets"); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the planet with its evaluations.
func (pc *PlanetClient) Get(ctx context.Context, id, token string) (*models.Planet, error) {
	var out models.Planet
	if err := pc.c.do(ctx, http.MethodGet, "/Planet/"+url.PathEscape(id), token, nil, &out, "Failed to fetch planet details"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the planet and its whole evaluation list.
func (pc *PlanetClient) Update(ctx context.Context, req models.UpdatePlanetRequest, token string) (*models.Planet, error) {
	var out models.Planet
	if err := pc.c.do(ctx, http.MethodPut, "/Planet/"+url.PathEscape(req.PlanetID), token, req, &out, "Failed to update planet"); err != nil {
		return nil, err
	}
	return &out, nil
}
