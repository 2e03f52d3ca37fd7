package service

import (
	"time"

	"github.com/shopspring/decimal"

	"shopease-service/internal/catalog"
	"shopease-service/internal/entity"
	"shopease-service/internal/payment"
	"shopease-service/internal/validation"
)

// ViewModel is everything the client needs to draw the current screen.
// Exactly one of Shop, Checkout, Payment and OrderComplete is set.
type ViewModel struct {
	SessionID     string             `json:"session_id"`
	View          entity.ViewState   `json:"view"`
	Overlay       entity.Overlay     `json:"overlay"`
	CartCount     int                `json:"cart_count"`
	User          UserBadge          `json:"user"`
	Shop          *ShopView          `json:"shop,omitempty"`
	Checkout      *CheckoutView      `json:"checkout,omitempty"`
	Payment       *PaymentView       `json:"payment,omitempty"`
	OrderComplete *OrderCompleteView `json:"order_complete,omitempty"`
	Cart          *CartView          `json:"cart,omitempty"`
	Profile       *ProfileView       `json:"profile,omitempty"`
}

type UserBadge struct {
	Name       string `json:"name"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

type ProductView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	FinalPrice  string `json:"final_price"`
	Discount    int    `json:"discount"`
	Rating      int    `json:"rating"`
	Stock       int    `json:"stock"`
	InStock     bool   `json:"in_stock"`
	IsNew       bool   `json:"is_new"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

type ShopView struct {
	Title          string        `json:"title"`
	Categories     []string      `json:"categories"`
	ActiveCategory string        `json:"active_category"`
	Query          string        `json:"query"`
	Products       []ProductView `json:"products"`
	ProductCount   int           `json:"product_count"`
	NoResults      bool          `json:"no_results"`
	ClearFilters   bool          `json:"clear_filters"` // show the "clear filters" action
}

type LineView struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type CartView struct {
	Lines     []LineView `json:"lines"`
	ItemCount int        `json:"item_count"`
	Subtotal  string     `json:"subtotal"`
	Empty     bool       `json:"empty"`
}

type ShippingOptionView struct {
	Method entity.ShippingMethod `json:"method"`
	Name   string                `json:"name"`
	Price  string                `json:"price"`
	Days   string                `json:"days"`
}

type SummaryView struct {
	Lines    []LineView `json:"lines"`
	Subtotal string     `json:"subtotal"`
	Shipping string     `json:"shipping"`
	Tax      string     `json:"tax,omitempty"`
	Discount string     `json:"discount,omitempty"`
	Total    string     `json:"total"`
}

type CheckoutView struct {
	Form            entity.ShippingDetails `json:"form"`
	Errors          validation.FieldErrors `json:"errors"`
	ShippingOptions []ShippingOptionView   `json:"shipping_options"`
	ShippingMethod  entity.ShippingMethod  `json:"shipping_method"`
	Summary         SummaryView            `json:"summary"`
}

type PaymentView struct {
	Methods         []entity.PaymentMethod `json:"methods"`
	ActiveMethod    entity.PaymentMethod   `json:"active_method"`
	State           payment.State          `json:"state"`
	Processing      bool                   `json:"processing"`
	CanGoBack       bool                   `json:"can_go_back"`
	Errors          validation.FieldErrors `json:"errors"`
	GeneralError    string                 `json:"general_error,omitempty"`
	ShippingDetails entity.ShippingDetails `json:"shipping_details"`
	ShippingMethod  entity.ShippingMethod  `json:"shipping_method"`
	Summary         SummaryView            `json:"summary"`
}

type OrderCompleteView struct {
	OrderID         string                 `json:"order_id"`
	Date            time.Time              `json:"date"`
	PaymentMethod   entity.PaymentMethod   `json:"payment_method"`
	PaymentRef      string                 `json:"payment_reference"`
	ShippingDetails entity.ShippingDetails `json:"shipping_details"`
	ShippingMethod  entity.ShippingMethod  `json:"shipping_method"`
	Summary         SummaryView            `json:"summary"`
}

type OrderRow struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

type ProfileView struct {
	Tab        entity.ProfileTab `json:"tab"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Address    string            `json:"address"`
	IsLoggedIn bool              `json:"is_logged_in"`
	Orders     []OrderRow        `json:"orders"`
}

// money renders an amount for display; the only place cart sums are rounded.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func productView(p entity.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		FinalPrice:  money(p.UnitPrice()),
		Discount:    p.Discount,
		Rating:      p.Rating,
		Stock:       p.Stock,
		InStock:     p.Stock > 0,
		IsNew:       p.IsNew,
		Category:    p.Category,
		Image:       p.Image,
	}
}

func lineViews(lines []entity.CartLine) []LineView {
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineView{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Image:     l.Product.Image,
			UnitPrice: money(l.Product.UnitPrice()),
			Quantity:  l.Quantity,
			Total:     money(l.Total()),
		})
	}
	return out
}

func contextSummary(lines []entity.CartLine, c entity.CheckoutContext) SummaryView {
	return SummaryView{
		Lines:    lineViews(lines),
		Subtotal: money(c.Subtotal),
		Shipping: money(c.Draft.ShippingCost),
		Tax:      money(c.Tax),
		Discount: money(c.Discount),
		Total:    money(c.Total()),
	}
}

// buildViewModel must be called with s.mu held.
func (s *Session) buildViewModel() ViewModel {
	user := s.profile.User()
	vm := ViewModel{
		SessionID: s.id,
		View:      s.view.State(),
		Overlay:   s.view.Overlay(),
		CartCount: s.cart.ItemCount(),
		User:      UserBadge{Name: user.Name, IsLoggedIn: user.IsLoggedIn},
	}

	switch vm.View {
	case entity.ViewShop:
		vm.Shop = s.shopView()
	case entity.ViewCheckout:
		vm.Checkout = s.checkoutView()
	case entity.ViewPayment:
		vm.Payment = s.paymentView()
	case entity.ViewOrderComplete:
		vm.OrderComplete = s.orderCompleteView()
	}

	switch vm.Overlay {
	case entity.OverlayCart:
		vm.Cart = &CartView{
			Lines:     lineViews(s.cart.Lines()),
			ItemCount: s.cart.ItemCount(),
			Subtotal:  money(s.cart.Subtotal()),
			Empty:     s.cart.IsEmpty(),
		}
	case entity.OverlayProfile:
		vm.Profile = profileView(user, s.profile.Tab())
	}
	return vm
}

func (s *Session) shopView() *ShopView {
	res := s.catalog.FilteredProducts(s.category, s.query)
	products := make([]ProductView, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, productView(p))
	}
	return &ShopView{
		Title:          catalog.DisplayTitle(s.category, s.query),
		Categories:     s.catalog.Categories(),
		ActiveCategory: s.category,
		Query:          s.query,
		Products:       products,
		ProductCount:   len(products),
		NoResults:      res.NoResults(),
		ClearFilters:   res.NoResults(),
	}
}

func (s *Session) checkoutView() *CheckoutView {
	subtotal := s.cart.Subtotal()
	q := s.form.Quote(subtotal)
	opts := make([]ShippingOptionView, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, ShippingOptionView{Method: o.Method, Name: o.Name, Price: money(o.Price), Days: o.Days})
	}
	return &CheckoutView{
		Form:            s.form.Details(),
		Errors:          s.form.Errors(),
		ShippingOptions: opts,
		ShippingMethod:  q.Selected,
		Summary: SummaryView{
			Lines:    lineViews(s.cart.Lines()),
			Subtotal: money(q.Subtotal),
			Shipping: money(q.ShippingCost),
			Total:    money(q.TotalCost),
		},
	}
}

func (s *Session) paymentView() *PaymentView {
	pv := &PaymentView{
		Methods:      append([]entity.PaymentMethod(nil), payment.Methods...),
		ActiveMethod: s.payment.Method(),
		State:        s.payment.State(),
		Processing:   s.payment.Processing(),
		CanGoBack:    !s.payment.Processing(),
		Errors:       s.payment.Errors(),
		GeneralError: s.payment.GeneralError(),
	}
	if c := s.view.Checkout(); c != nil {
		pv.ShippingDetails = c.Draft.ShippingDetails
		pv.ShippingMethod = c.Draft.ShippingMethod
		pv.Summary = contextSummary(s.cart.Lines(), *c)
	}
	return pv
}

func (s *Session) orderCompleteView() *OrderCompleteView {
	o := s.view.Order()
	if o == nil {
		return &OrderCompleteView{}
	}
	return &OrderCompleteView{
		OrderID:         o.ID,
		Date:            o.CreatedAt,
		PaymentMethod:   o.Payment.Method,
		PaymentRef:      o.Payment.Reference,
		ShippingDetails: o.Checkout.Draft.ShippingDetails,
		ShippingMethod:  o.Checkout.Draft.ShippingMethod,
		Summary:         contextSummary(o.Items, o.Checkout),
	}
}

func profileView(u entity.UserProfile, tab entity.ProfileTab) *ProfileView {
	rows := make([]OrderRow, 0, len(u.Orders))
	for _, o := range u.Orders {
		rows = append(rows, OrderRow{ID: o.ID, Date: o.Date, Status: o.Status, Total: money(o.Total)})
	}
	return &ProfileView{
		Tab:        tab,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		IsLoggedIn: u.IsLoggedIn,
		Orders:     rows,
	}
}
