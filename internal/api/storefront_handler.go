package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"shopease-service/internal/checkout"
	"shopease-service/internal/entity"
	"shopease-service/internal/idempotency"
	"shopease-service/internal/payment"
	"shopease-service/internal/pricing"
	"shopease-service/internal/profile"
	"shopease-service/internal/service"
	"shopease-service/internal/validation"
	"shopease-service/internal/view"
)

const (
	sessionKey           = "session"
	headerIdempotencyKey = "Idempotency-Key"
)

type StorefrontHandler struct {
	storefront *service.StorefrontService
}

// NewStorefrontHandler creates a new instance of StorefrontHandler
func NewStorefrontHandler(storefront *service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// Register mounts the public routes on e and the session routes, guarded by
// the session token, under /session.
func (h *StorefrontHandler) Register(e *echo.Echo) {
	e.POST("/sessions", h.OpenSession)
	e.GET("/catalog/categories", h.Categories)

	g := e.Group("/session")
	g.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: h.storefront.SigningKey(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or missing session token"})
		},
	}))
	g.Use(h.loadSession)

	g.GET("", h.GetView)
	g.DELETE("", h.CloseSession)

	g.PUT("/filter/category", h.SelectCategory)
	g.PUT("/filter/query", h.Search)
	g.DELETE("/filter", h.ClearFilters)

	g.POST("/cart/items", h.AddToCart)
	g.PUT("/cart/items/:id", h.UpdateQuantity)
	g.DELETE("/cart/items/:id", h.RemoveFromCart)

	g.POST("/overlay/cart", h.ToggleCart)
	g.POST("/overlay/profile", h.ToggleProfile)
	g.DELETE("/overlay", h.CloseOverlay)

	g.POST("/checkout", h.GoToCheckout)
	g.PUT("/checkout/shipping", h.SelectShipping)
	g.POST("/checkout/submit", h.SubmitCheckout)

	g.PUT("/payment/method", h.SelectPaymentMethod)
	g.POST("/payment", h.SubmitPayment)

	g.POST("/back", h.Back)
	g.POST("/shop", h.GoToShop)

	g.POST("/profile/login", h.Login)
	g.POST("/profile/logout", h.Logout)
	g.PATCH("/profile", h.UpdateProfile)
	g.PUT("/profile/tab", h.SelectProfileTab)
}

// loadSession resolves the session named by the verified token.
func (h *StorefrontHandler) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		claims, ok := token.Claims.(*service.SessionClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		sess, err := h.storefront.Session(claims.SessionID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		c.Set(sessionKey, sess)
		return next(c)
	}
}

func currentSession(c echo.Context) *service.Session {
	return c.Get(sessionKey).(*service.Session)
}

// respond writes the view model after a successful event, or maps err to a
// status code.
func respond(c echo.Context, sess *service.Session, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, sess.ViewModel())
	}

	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": fieldErrs})
	case errors.Is(err, payment.ErrPaymentFailed):
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error": payment.GeneralErrorMessage,
			"view":  sess.ViewModel(),
		})
	case errors.Is(err, service.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, view.ErrInvalidTransition),
		errors.Is(err, service.ErrWrongView),
		errors.Is(err, payment.ErrPaymentInProgress),
		errors.Is(err, idempotency.ErrDuplicateKey):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, pricing.ErrUnknownShippingMethod),
		errors.Is(err, pricing.ErrShippingUnavailable),
		errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, profile.ErrUnknownTab):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
}

// OpenSession starts a session --> POST /sessions
func (h *StorefrontHandler) OpenSession(c echo.Context) error {
	sess, token, err := h.storefront.OpenSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": token,
		"view":  sess.ViewModel(),
	})
}

// Categories lists the catalog categories --> GET /catalog/categories
func (h *StorefrontHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.storefront.Catalog().Categories())
}

func (h *StorefrontHandler) GetView(c echo.Context) error {
	return respond(c, currentSession(c), nil)
}

func (h *StorefrontHandler) CloseSession(c echo.Context) error {
	h.storefront.CloseSession(currentSession(c).ID())
	return c.NoContent(http.StatusNoContent)
}

func (h *StorefrontHandler) SelectCategory(c echo.Context) error {
	req := struct {
		Category string `json:"category"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	sess.SelectCategory(req.Category)
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) Search(c echo.Context) error {
	req := struct {
		Query string `json:"query"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	sess.Search(req.Query)
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) ClearFilters(c echo.Context) error {
	sess := currentSession(c)
	sess.ClearFilters()
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) AddToCart(c echo.Context) error {
	req := struct {
		ProductID int `json:"product_id"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.AddToCart(req.ProductID))
}

func (h *StorefrontHandler) UpdateQuantity(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.UpdateQuantity(id, req.Quantity))
}

func (h *StorefrontHandler) RemoveFromCart(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	sess := currentSession(c)
	return respond(c, sess, sess.RemoveFromCart(id))
}

func (h *StorefrontHandler) ToggleCart(c echo.Context) error {
	sess := currentSession(c)
	return respond(c, sess, sess.ToggleCart())
}

func (h *StorefrontHandler) ToggleProfile(c echo.Context) error {
	sess := currentSession(c)
	sess.ToggleProfile()
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) CloseOverlay(c echo.Context) error {
	sess := currentSession(c)
	sess.CloseOverlay()
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) GoToCheckout(c echo.Context) error {
	sess := currentSession(c)
	return respond(c, sess, sess.GoToCheckout())
}

func (h *StorefrontHandler) SelectShipping(c echo.Context) error {
	req := struct {
		Method entity.ShippingMethod `json:"method"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.SelectShipping(req.Method))
}

func (h *StorefrontHandler) SubmitCheckout(c echo.Context) error {
	details := entity.ShippingDetails{Country: checkout.DefaultCountry}
	if err := c.Bind(&details); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.SubmitCheckout(details))
}

func (h *StorefrontHandler) SelectPaymentMethod(c echo.Context) error {
	req := struct {
		Method entity.PaymentMethod `json:"method"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.SelectPaymentMethod(req.Method))
}

// SubmitPayment charges the payment form --> POST /session/payment
// The request returns once the payment resolved.
func (h *StorefrontHandler) SubmitPayment(c echo.Context) error {
	details := entity.PaymentDetails{}
	if err := c.Bind(&details); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	key := c.Request().Header.Get(headerIdempotencyKey)
	_, err := h.storefront.SubmitPayment(c.Request().Context(), sess, key, details)
	return respond(c, sess, err)
}

func (h *StorefrontHandler) Back(c echo.Context) error {
	sess := currentSession(c)
	return respond(c, sess, sess.Back())
}

func (h *StorefrontHandler) GoToShop(c echo.Context) error {
	sess := currentSession(c)
	return respond(c, sess, sess.GoToShop())
}

// Login accepts an optional identity; an empty body logs in the demo account.
func (h *StorefrontHandler) Login(c echo.Context) error {
	identity := entity.UserProfile{}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&identity); err != nil {
			return invalidPayload(c)
		}
	}
	sess := currentSession(c)
	sess.Login(identity)
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) Logout(c echo.Context) error {
	sess := currentSession(c)
	sess.Logout()
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) UpdateProfile(c echo.Context) error {
	update := entity.ProfileUpdate{}
	if err := c.Bind(&update); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	sess.UpdateProfile(update)
	return respond(c, sess, nil)
}

func (h *StorefrontHandler) SelectProfileTab(c echo.Context) error {
	req := struct {
		Tab entity.ProfileTab `json:"tab"`
	}{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	sess := currentSession(c)
	return respond(c, sess, sess.SelectProfileTab(req.Tab))
}

// Health reports liveness --> GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "shopease-service",
		"time":    time.Now().Format(time.RFC3339),
	})
}
