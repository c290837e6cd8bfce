package service

import (
	"context"
	"regexp"
	"slices"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"strings"
	"sync"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

type AddressService interface {
	// List re-reads the profile and keeps the checkout selection valid.
	List(ctx context.Context) ([]model.Address, error)
	Add(ctx context.Context, addr model.Address) ([]model.Address, error)
	Delete(ctx context.Context, addressID string, confirmed bool) ([]model.Address, error)
	SetDefault(ctx context.Context, addressID string) ([]model.Address, error)

	Select(addressID string) error
	Selected() *model.Address
}

type addressServiceImpl struct {
	authApi client.AuthAPI
	session SessionService

	mu         sync.RWMutex
	addresses  []model.Address
	selectedID string
}

func NewAddressService(authApi client.AuthAPI, session SessionService, bus *Bus) AddressService {
	s := &addressServiceImpl{
		authApi: authApi,
		session: session,
	}
	bus.Subscribe(EventLogout, func(context.Context, EventKind) {
		s.mu.Lock()
		s.addresses = nil
		s.selectedID = ""
		s.mu.Unlock()
	})
	return s
}

func (s *addressServiceImpl) List(ctx context.Context) ([]model.Address, error) {
	user, err := s.session.RefreshUser(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = slices.Clone(user.Addresses)
	if !s.holds(s.selectedID) {
		s.selectedID = ""
		if def := user.DefaultAddress(); def != nil {
			s.selectedID = def.ID
		}
	}
	return slices.Clone(s.addresses), nil
}

func (s *addressServiceImpl) Add(ctx context.Context, addr model.Address) ([]model.Address, error) {
	addr = normalizeAddress(addr)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	if err := s.authApi.AddAddress(ctx, addr); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *addressServiceImpl) Delete(ctx context.Context, addressID string, confirmed bool) ([]model.Address, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if err := s.authApi.DeleteAddress(ctx, addressID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.selectedID == addressID {
		s.selectedID = ""
	}
	s.mu.Unlock()

	return s.List(ctx)
}

func (s *addressServiceImpl) SetDefault(ctx context.Context, addressID string) ([]model.Address, error) {
	if err := s.authApi.SetDefaultAddress(ctx, addressID); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *addressServiceImpl) Select(addressID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.holds(addressID) {
		return invalid("address_id", "unknown address")
	}
	s.selectedID = addressID
	return nil
}

func (s *addressServiceImpl) Selected() *model.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, addr := range s.addresses {
		if addr.ID == s.selectedID && s.selectedID != "" {
			a := addr
			return &a
		}
	}
	return nil
}

func (s *addressServiceImpl) holds(addressID string) bool {
	if addressID == "" {
		return false
	}
	return slices.ContainsFunc(s.addresses, func(a model.Address) bool { return a.ID == addressID })
}

func normalizeAddress(addr model.Address) model.Address {
	addr.Name = strings.TrimSpace(addr.Name)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.AddressLine1 = strings.TrimSpace(addr.AddressLine1)
	addr.AddressLine2 = strings.TrimSpace(addr.AddressLine2)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.Pincode = strings.TrimSpace(addr.Pincode)
	return addr
}

func validateAddress(addr model.Address) error {
	required := []struct{ field, value string }{
		{"name", addr.Name},
		{"phone", addr.Phone},
		{"address_line1", addr.AddressLine1},
		{"city", addr.City},
		{"state", addr.State},
		{"pincode", addr.Pincode},
	}
	for _, r := range required {
		if r.value == "" {
			return invalid(r.field, "please fill all required fields")
		}
	}
	if !phonePattern.MatchString(addr.Phone) {
		return invalid("phone", "please enter a valid 10-digit phone number")
	}
	if !pincodePattern.MatchString(addr.Pincode) {
		return invalid("pincode", "please enter a valid 6-digit pincode")
	}
	return nil
}
