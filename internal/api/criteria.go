package api

import (
	"context"
	"net/http"
	"net/url"

	"habitat/internal/models"
)

type CriteriaClient struct {
	c *Client
}

func NewCriteriaClient(c *Client) *CriteriaClient {
	return &CriteriaClient{c: c}
}

func (cc *CriteriaClient) List(ctx context.Context, token string) ([]models.Criteria, error) {
	var out []models.Criteria
	if err := cc.c.do(ctx, http.MethodGet, "/Criteria", token, nil, &out, "Failed to fetch criteria"); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CriteriaClient) Get(ctx context.Context, id, token string) (*models.Criteria, error) {
	var out models.Criteria
	if err := cc.c.do(ctx, http.MethodGet, "/Criteria/"+url.PathEscape(id), token, nil, &out, "Failed to fetch criteria"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CriteriaClient) Create(ctx context.Context, req models.CreateCriteriaRequest, token string) (*models.Criteria, error) {
	var out models.Criteria
	if err := cc.c.do(ctx, http.MethodPost, "/Criteria", token, req, &out, "Failed to create criteria"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CriteriaClient) Update(ctx context.Context, req models.UpdateCriteriaRequest, token string) (*models.Criteria, error) {
	var out models.Criteria
	if err := cc.c.do(ctx, http.MethodPut, "/Criteria/"+url.PathEscape(req.ID), token, req, &out, "Failed to update criteria"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CriteriaClient) Delete(ctx context.Context, id, token string) error {
	return cc.c.do(ctx, http.MethodDelete, "/Criteria/"+url.PathEscape(id), token, nil, nil, "Failed to delete criteria")
}
