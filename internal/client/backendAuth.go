package client

import (
	"context"
	"net/url"
	"spice-storefront/internal/model"
)

type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthToken, error)
	Me(ctx context.Context) (*model.User, error)
	AddAddress(ctx context.Context, addr model.Address) error
	DeleteAddress(ctx context.Context, addressID string) error
	SetDefaultAddress(ctx context.Context, addressID string) error
}

func (c *backendClientImpl) Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	var res model.AuthToken
	if err := c.post(ctx, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) Register(ctx context.Context, reg model.Registration) (*model.AuthToken, error) {
	var res model.AuthToken
	if err := c.post(ctx, "/auth/register", reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, identityPath, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *backendClientImpl) AddAddress(ctx context.Context, addr model.Address) error {
	return c.post(ctx, "/auth/addresses", addr, nil)
}

func (c *backendClientImpl) DeleteAddress(ctx context.Context, addressID string) error {
	return c.delete(ctx, "/auth/addresses/"+url.PathEscape(addressID), nil)
}

func (c *backendClientImpl) SetDefaultAddress(ctx context.Context, addressID string) error {
	return c.put(ctx, "/auth/addresses/"+url.PathEscape(addressID)+"/default", nil, nil)
}
