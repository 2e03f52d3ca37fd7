package entity

type UserProfile struct {
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	IsLoggedIn bool           `json:"is_logged_in"`
	Orders     []OrderSummary `json:"orders"` // newest first
}

// ProfileUpdate is a partial profile; nil fields are left untouched.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ProfileTab string

const (
	ProfileTabProfile  ProfileTab = "profile"
	ProfileTabOrders   ProfileTab = "orders"
	ProfileTabSettings ProfileTab = "settings"
)
