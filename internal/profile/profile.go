// Package profile holds the signed-in shopper's record and order history for
// the lifetime of a session.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shopease-service/internal/entity"
	"shopease-service/internal/orderid"
)

var ErrUnknownTab = errors.New("unknown profile tab")

// Guest is the record shown when nobody is logged in.
func Guest() entity.UserProfile {
	return entity.UserProfile{Name: "Guest User", Orders: []entity.OrderSummary{}}
}

// DemoAccount is used by Login when no identity is given.
func DemoAccount() entity.UserProfile {
	return entity.UserProfile{
		Name:    "John Doe",
		Email:   "john.doe@example.com",
		Phone:   "+1 (555) 123-4567",
		Address: "123 Main St, Anytown, USA",
		Orders: []entity.OrderSummary{
			{ID: "ORD-001", Date: "2025-04-15", Status: "Delivered", Total: decimal.RequireFromString("125.99")},
			{ID: "ORD-002", Date: "2025-03-22", Status: entity.OrderStatusProcessing, Total: decimal.RequireFromString("79.50")},
		},
	}
}

type Store struct {
	user entity.UserProfile
	tab  entity.ProfileTab
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{user: Guest(), tab: entity.ProfileTabProfile, now: time.Now}
}

// User returns a copy of the profile record.
func (s *Store) User() entity.UserProfile {
	u := s.user
	u.Orders = append([]entity.OrderSummary{}, s.user.Orders...)
	return u
}

func (s *Store) LoggedIn() bool {
	return s.user.IsLoggedIn
}

// Login marks the shopper as logged in. No credentials are checked. A zero
// identity logs in the demo account.
func (s *Store) Login(identity entity.UserProfile) {
	if identity.Name == "" && identity.Email == "" {
		identity = DemoAccount()
	}
	identity.IsLoggedIn = true
	if identity.Orders == nil {
		identity.Orders = []entity.OrderSummary{}
	}
	s.user = identity
}

// Logout resets to the guest record with an empty history.
func (s *Store) Logout() {
	s.user = Guest()
	s.tab = entity.ProfileTabProfile
}

// AddOrder prepends a history entry totalling subtotal+tax. It does nothing
// for guests and reports whether an entry was written.
func (s *Store) AddOrder(subtotal, tax decimal.Decimal) (entity.OrderSummary, bool) {
	if !s.user.IsLoggedIn {
		return entity.OrderSummary{}, false
	}
	entry := entity.OrderSummary{
		ID:     orderid.Issue(orderid.HistoryDigits),
		Date:   s.now().Format(time.DateOnly),
		Status: entity.OrderStatusProcessing,
		Total:  subtotal.Add(tax),
	}
	s.user.Orders = append([]entity.OrderSummary{entry}, s.user.Orders...)
	return entry, true
}

// UpdateUserData merges the set fields of u into the record.
func (s *Store) UpdateUserData(u entity.ProfileUpdate) {
	if u.Name != nil {
		s.user.Name = *u.Name
	}
	if u.Email != nil {
		s.user.Email = *u.Email
	}
	if u.Phone != nil {
		s.user.Phone = *u.Phone
	}
	if u.Address != nil {
		s.user.Address = *u.Address
	}
}

func (s *Store) Tab() entity.ProfileTab {
	return s.tab
}

func (s *Store) SelectTab(tab entity.ProfileTab) error {
	switch tab {
	case entity.ProfileTabProfile, entity.ProfileTabOrders, entity.ProfileTabSettings:
		s.tab = tab
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownTab, tab)
}
