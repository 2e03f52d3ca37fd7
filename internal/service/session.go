package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shopease-service/internal/cart"
	"shopease-service/internal/catalog"
	"shopease-service/internal/checkout"
	"shopease-service/internal/entity"
	"shopease-service/internal/events"
	"shopease-service/internal/payment"
	"shopease-service/internal/profile"
	"shopease-service/internal/view"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrWrongView       = errors.New("action not available in the current view")
)

// Session owns the state of one shopper: filter, cart, view, checkout form,
// payment form and profile. Every operation runs under the session mutex so
// events are applied one at a time, like a UI event loop. Subscribers are
// called after the mutex is released.
type Session struct {
	id      string
	catalog *catalog.Store

	mu       sync.Mutex
	category string
	query    string
	cart     *cart.Cart
	view     *view.Controller
	form     *checkout.Form
	payment  *payment.Orchestrator
	profile  *profile.Store
	lastSeen time.Time

	subscribers map[int]func(events.Event)
	nextSub     int
	pending     []events.Event
}

func NewSession(id string, store *catalog.Store, gateway payment.Gateway) *Session {
	return &Session{
		id:          id,
		catalog:     store,
		category:    catalog.AllCategories,
		cart:        cart.New(),
		view:        view.NewController(),
		form:        checkout.NewForm(),
		payment:     payment.NewOrchestrator(gateway),
		profile:     profile.NewStore(),
		lastSeen:    time.Now(),
		subscribers: make(map[int]func(events.Event)),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Subscribe registers fn for every event of this session and returns a func
// that removes it.
func (s *Session) Subscribe(fn func(events.Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) lock() {
	s.mu.Lock()
	s.lastSeen = time.Now()
}

// unlock releases the mutex and then delivers the events queued while it was
// held.
func (s *Session) unlock() {
	pending := s.pending
	s.pending = nil
	subs := make([]func(events.Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, evt := range pending {
		for _, fn := range subs {
			fn(evt)
		}
	}
}

func (s *Session) emit(t events.Type) {
	s.pending = append(s.pending, events.Event{
		Type:      t,
		SessionID: s.id,
		View:      s.view.State(),
		At:        time.Now(),
	})
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SelectCategory sets the active category; "" means all.
func (s *Session) SelectCategory(category string) {
	s.lock()
	defer s.unlock()
	if category == "" {
		category = catalog.AllCategories
	}
	s.category = category
}

func (s *Session) Search(query string) {
	s.lock()
	defer s.unlock()
	s.query = query
}

// ClearFilters resets category and query, the "clear filters" affordance of
// an empty listing.
func (s *Session) ClearFilters() {
	s.lock()
	defer s.unlock()
	s.category = catalog.AllCategories
	s.query = ""
}

// The cart and its panel belong to the shop view. Once checkout has started
// the cart stays as it was priced.
func (s *Session) cartEditable() error {
	if !s.view.Is(entity.ViewShop) {
		return ErrWrongView
	}
	return nil
}

func (s *Session) AddToCart(productID int) error {
	s.lock()
	defer s.unlock()

	if err := s.cartEditable(); err != nil {
		return err
	}
	p, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	s.cart.AddItem(p)
	s.cartChanged()
	return nil
}

func (s *Session) UpdateQuantity(productID, quantity int) error {
	s.lock()
	defer s.unlock()

	if err := s.cartEditable(); err != nil {
		return err
	}
	s.cart.SetQuantity(productID, quantity)
	s.cartChanged()
	return nil
}

func (s *Session) RemoveFromCart(productID int) error {
	s.lock()
	defer s.unlock()

	if err := s.cartEditable(); err != nil {
		return err
	}
	s.cart.RemoveItem(productID)
	s.cartChanged()
	return nil
}

func (s *Session) cartChanged() {
	s.form.Reprice(s.cart.Subtotal())
	s.emit(events.CartUpdated)
}

func (s *Session) ToggleCart() error {
	s.lock()
	defer s.unlock()

	if err := s.cartEditable(); err != nil {
		return err
	}
	s.view.ToggleCart()
	return nil
}

func (s *Session) ToggleProfile() {
	s.lock()
	defer s.unlock()
	s.view.ToggleProfile()
}

func (s *Session) CloseOverlay() {
	s.lock()
	defer s.unlock()
	s.view.CloseOverlay()
}

// GoToCheckout moves from the shop (closing the cart panel) or back from
// payment.
func (s *Session) GoToCheckout() error {
	s.lock()
	defer s.unlock()

	if s.payment.Processing() {
		return payment.ErrPaymentInProgress
	}
	if err := s.view.GoToCheckout(); err != nil {
		return err
	}
	s.emit(events.ViewChanged)
	return nil
}

// GoToShop returns to the product grid and resets the search query.
func (s *Session) GoToShop() error {
	s.lock()
	defer s.unlock()

	if err := s.view.GoToShop(); err != nil {
		return err
	}
	s.query = ""
	s.emit(events.ViewChanged)
	return nil
}

// Back follows the back edge of the current view. It is refused while a
// payment is processing.
func (s *Session) Back() error {
	s.lock()
	defer s.unlock()

	if s.payment.Processing() {
		return payment.ErrPaymentInProgress
	}
	var err error
	switch s.view.State() {
	case entity.ViewCheckout, entity.ViewOrderComplete:
		if err = s.view.GoToShop(); err == nil {
			s.query = ""
		}
	case entity.ViewPayment:
		err = s.view.GoToCheckout()
	default:
		err = fmt.Errorf("%w: no way back from %s", view.ErrInvalidTransition, s.view.State())
	}
	if err != nil {
		return err
	}
	s.emit(events.ViewChanged)
	return nil
}

func (s *Session) SelectShipping(method entity.ShippingMethod) error {
	s.lock()
	defer s.unlock()

	if !s.view.Is(entity.ViewCheckout) {
		return ErrWrongView
	}
	return s.form.SelectShipping(method, s.cart.Subtotal())
}

// SubmitCheckout validates the shipping form and, when it passes, moves to
// payment with the cart subtotal. Invalid forms return
// validation.FieldErrors and leave the view unchanged.
func (s *Session) SubmitCheckout(details entity.ShippingDetails) error {
	s.lock()
	defer s.unlock()

	if !s.view.Is(entity.ViewCheckout) {
		return ErrWrongView
	}
	subtotal := s.cart.Subtotal()
	draft, err := s.form.Submit(details, subtotal)
	if err != nil {
		return err
	}
	if err := s.view.GoToPayment(draft, subtotal); err != nil {
		return err
	}
	s.payment.Reset()
	s.emit(events.ViewChanged)
	return nil
}

func (s *Session) SelectPaymentMethod(method entity.PaymentMethod) error {
	s.lock()
	defer s.unlock()

	if !s.view.Is(entity.ViewPayment) {
		return ErrWrongView
	}
	return s.payment.SelectMethod(method)
}

// SubmitPayment validates details, charges them through the gateway and
// commits the order. The gateway call runs without the session lock and
// cannot be canceled by ctx; duplicate submissions meanwhile get
// payment.ErrPaymentInProgress.
//
// On success the history entry, the cleared cart and the order-complete view
// are applied under a single lock, so no reader sees them half done.
func (s *Session) SubmitPayment(ctx context.Context, details entity.PaymentDetails) (*entity.Order, error) {
	s.lock()
	if !s.view.Is(entity.ViewPayment) || s.view.Checkout() == nil {
		s.unlock()
		return nil, ErrWrongView
	}
	req, err := s.payment.Begin(details, *s.view.Checkout(), s.cart.Lines())
	s.unlock()
	if err != nil {
		return nil, err
	}

	order, err := s.payment.Process(context.WithoutCancel(ctx), req)

	s.lock()
	defer s.unlock()
	if err != nil {
		s.payment.Fail()
		logger.Error().Err(err).Str("session_id", s.id).Msg("payment processing failed")
		return nil, err
	}
	s.payment.Complete()
	s.completeOrder(*order)
	return order, nil
}

func (s *Session) completeOrder(order entity.Order) {
	checkoutCtx := order.Checkout
	history, recorded := s.profile.AddOrder(checkoutCtx.Subtotal, checkoutCtx.Tax)
	s.cart.Clear()
	if err := s.view.GoToOrderComplete(order); err != nil {
		// the view cannot leave payment while processing
		logger.Error().Err(err).Str("session_id", s.id).Msg("order completed outside payment view")
	}
	s.form = checkout.NewForm()

	evt := events.Event{
		Type:      events.OrderCompleted,
		SessionID: s.id,
		View:      s.view.State(),
		Order:     &order,
		At:        time.Now(),
	}
	if recorded {
		evt.History = &history
	}
	s.pending = append(s.pending, evt)
	logger.Info().Str("session_id", s.id).Str("order_id", order.ID).Str("total", order.TotalAmount.StringFixed(2)).Msg("order completed")
}

// Login logs in with identity, or the demo account when it is empty.
func (s *Session) Login(identity entity.UserProfile) {
	s.lock()
	defer s.unlock()
	s.profile.Login(identity)
	s.emit(events.ProfileUpdated)
}

// Logout resets the profile and closes the profile panel.
func (s *Session) Logout() {
	s.lock()
	defer s.unlock()
	s.profile.Logout()
	if s.view.Overlay() == entity.OverlayProfile {
		s.view.CloseOverlay()
	}
	s.emit(events.ProfileUpdated)
}

func (s *Session) UpdateProfile(u entity.ProfileUpdate) {
	s.lock()
	defer s.unlock()
	s.profile.UpdateUserData(u)
	s.emit(events.ProfileUpdated)
}

func (s *Session) SelectProfileTab(tab entity.ProfileTab) error {
	s.lock()
	defer s.unlock()
	return s.profile.SelectTab(tab)
}

// ViewModel derives the output for the active view.
func (s *Session) ViewModel() ViewModel {
	s.lock()
	defer s.unlock()
	return s.buildViewModel()
}
