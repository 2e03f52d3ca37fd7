package profile

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopease-service/internal/entity"
)

func TestNewStoreIsGuest(t *testing.T) {
	s := NewStore()
	u := s.User()

	assert.False(t, u.IsLoggedIn)
	assert.Equal(t, "Guest User", u.Name)
	assert.Empty(t, u.Orders)
}

func TestLoginDemoAccount(t *testing.T) {
	s := NewStore()
	s.Login(entity.UserProfile{})

	u := s.User()
	assert.True(t, u.IsLoggedIn)
	assert.Equal(t, "John Doe", u.Name)
	assert.Len(t, u.Orders, 2)
}

func TestAddOrderOnlyWhenLoggedIn(t *testing.T) {
	s := NewStore()
	_, ok := s.AddOrder(decimal.NewFromInt(180), decimal.NewFromInt(18))
	assert.False(t, ok)
	assert.Empty(t, s.User().Orders)

	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	s.Login(entity.UserProfile{Name: "Jane", Email: "jane@example.com"})

	first, ok := s.AddOrder(decimal.NewFromInt(10), decimal.NewFromInt(1))
	require.True(t, ok)
	second, ok := s.AddOrder(decimal.NewFromInt(180), decimal.NewFromInt(18))
	require.True(t, ok)

	orders := s.User().Orders
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{4}$`), second.ID)
	assert.Equal(t, "2026-10-16", second.Date)
	assert.Equal(t, entity.OrderStatusProcessing, second.Status)
	assert.Equal(t, "198", second.Total.String())
}

func TestLogoutResetsHistory(t *testing.T) {
	s := NewStore()
	s.Login(entity.UserProfile{})
	require.NoError(t, s.SelectTab(entity.ProfileTabOrders))
	s.Logout()

	u := s.User()
	assert.False(t, u.IsLoggedIn)
	assert.Empty(t, u.Orders)
	assert.Equal(t, entity.ProfileTabProfile, s.Tab())
}

func TestUpdateUserDataMergesSetFields(t *testing.T) {
	s := NewStore()
	s.Login(entity.UserProfile{})

	phone := "+62 812 0000 0000"
	s.UpdateUserData(entity.ProfileUpdate{Phone: &phone})

	u := s.User()
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john.doe@example.com", u.Email)
}

func TestUserReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Login(entity.UserProfile{})
	u := s.User()
	u.Orders[0].Status = "Lost"

	assert.Equal(t, "ORD-001", s.User().Orders[0].ID)
	assert.Equal(t, "Delivered", s.User().Orders[0].Status)
}

func TestSelectTab(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SelectTab(entity.ProfileTabSettings))
	assert.Equal(t, entity.ProfileTabSettings, s.Tab())
	assert.ErrorIs(t, s.SelectTab("billing"), ErrUnknownTab)
}
