package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/pagination"
)

func parseClassification(r *http.Request) (*enums.ProductClassification, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("classification"))
	if raw == "" {
		return nil, nil
	}
	value, err := enums.ParseProductClassification(strings.ToUpper(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid classification").
			WithDetails(map[string]any{"field": "classification"})
	}
	return &value, nil
}

func parsePageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
