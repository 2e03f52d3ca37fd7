package entity

type ViewState string

const (
	ViewShop          ViewState = "shop"
	ViewCheckout      ViewState = "checkout"
	ViewPayment       ViewState = "payment"
	ViewOrderComplete ViewState = "orderComplete"
)

// Overlay is the panel drawn above the active view. Only one can be open.
type Overlay string

const (
	OverlayNone    Overlay = "none"
	OverlayCart    Overlay = "cart"
	OverlayProfile Overlay = "profile"
)
