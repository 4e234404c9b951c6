package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bazaar/config"
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = mustParsePages("login", "register", "admin", "user", "reviews", "notfound")

func mustParsePages(names ...string) map[string]*template.Template {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		pages[name] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}

	return pages
}

// pageData is the payload every HTML template is rendered with.
type pageData struct {
	Title       string
	Principal   *entity.Principal
	Error       string
	Products    []*entity.RatedProduct
	Product     *entity.RatedProduct
	Reviews     []*entity.Review
	HasReviewed bool
}

// WebHandler serves the server-rendered HTML surface: login, registration,
// the role-gated admin and user pages, and the review page per product.
type WebHandler struct {
	accounts usecase.AccountUsecase
	catalog  usecase.CatalogUsecase
	reviews  usecase.ReviewUsecase
	cfg      *config.Config
	logger   *slog.Logger
}

// NewWebHandler is the constructor for WebHandler, injected by Fx.
func NewWebHandler(
	accounts usecase.AccountUsecase,
	catalog usecase.CatalogUsecase,
	reviews usecase.ReviewUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) *WebHandler {
	return &WebHandler{
		accounts: accounts,
		catalog:  catalog,
		reviews:  reviews,
		cfg:      cfg,
		logger:   logger,
	}
}

func (h *WebHandler) render(c echo.Context, status int, page string, data pageData) error {
	tmpl, ok := pageTemplates[page]
	if !ok {
		return errors.Errorf("unknown page template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.WithStack(err)
	}

	return c.HTMLBlob(status, buf.Bytes())
}

// LoginPage renders the login form. A caller who already holds a valid
// session is sent straight to their role's page.
func (h *WebHandler) LoginPage(c echo.Context) error {
	if principal, ok := middleware.GetPrincipal(c); ok {
		return c.Redirect(http.StatusSeeOther, rolePage(principal))
	}

	return h.render(c, http.StatusOK, "login", pageData{Title: "Log in"})
}

// Login handles the login form post: establish a session, set the cookie and
// redirect by role. Admins land on the management page, users on the catalog.
func (h *WebHandler) Login(c echo.Context) error {
	input := &usecase.LoginInput{
		Username: strings.TrimSpace(c.FormValue("username")),
		Password: c.FormValue("password"),
	}

	output, err := h.accounts.Login(c.Request().Context(), input)
	if err != nil {
		return h.render(c, http.StatusBadRequest, "login", pageData{
			Title: "Log in",
			Error: "Invalid username or password.",
		})
	}

	c.SetCookie(h.sessionCookie(output.SessionToken))

	role, _ := output.User.Role()

	return c.Redirect(http.StatusSeeOther, rolePage(&entity.Principal{Role: role, HasRole: true}))
}

// RegisterPage renders the registration form.
func (h *WebHandler) RegisterPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", pageData{Title: "Register"})
}

// Register handles the registration form post and redirects to the login
// page on success.
func (h *WebHandler) Register(c echo.Context) error {
	input := &usecase.RegisterInput{
		Username: strings.TrimSpace(c.FormValue("username")),
		Password: c.FormValue("password"),
		Role:     c.FormValue("role"),
	}
	if err := c.Validate(input); err != nil {
		return h.render(c, http.StatusBadRequest, "register", pageData{
			Title: "Register",
			Error: "Please fill in every field: username (3-150 characters), password (at least 4), and a role.",
		})
	}

	if _, err := h.accounts.Register(c.Request().Context(), input); err != nil {
		message := "Registration failed. Please try again."
		if errors.Is(err, domainerrors.ErrUsernameTaken) {
			message = "That username is already taken."
		}

		return h.render(c, http.StatusBadRequest, "register", pageData{
			Title: "Register",
			Error: message,
		})
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout deletes the session, clears the cookie and returns to the login page.
func (h *WebHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.accounts.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn("Failed to invalidate session on logout", "error", err.Error())
		}
	}

	expired := h.sessionCookie("")
	expired.MaxAge = -1
	c.SetCookie(expired)

	return c.Redirect(http.StatusSeeOther, "/")
}

// AdminPage renders the catalog management page. Reached only through the
// admin role gate.
func (h *WebHandler) AdminPage(c echo.Context) error {
	return h.renderAdmin(c, "")
}

// AdminAction dispatches the management form posts: create, update or delete
// a product, then re-render the page.
func (h *WebHandler) AdminAction(c echo.Context) error {
	principal, _ := middleware.GetPrincipal(c)
	ctx := c.Request().Context()

	switch action := c.FormValue("action"); action {
	case "create":
		input, err := h.bindProductForm(c)
		if err != nil {
			return h.renderAdmin(c, "Product needs a name and a non-negative price.")
		}
		if _, err := h.catalog.CreateProduct(ctx, principal, input); err != nil {
			return h.renderAdmin(c, "Could not create the product.")
		}
	case "update":
		productID, err := formProductID(c)
		if err != nil {
			return h.renderAdmin(c, "Unknown product.")
		}
		input, err := h.bindProductForm(c)
		if err != nil {
			return h.renderAdmin(c, "Product needs a name and a non-negative price.")
		}
		if _, err := h.catalog.UpdateProduct(ctx, principal, productID, input); err != nil {
			return h.renderAdmin(c, "Could not update the product.")
		}
	case "delete":
		productID, err := formProductID(c)
		if err != nil {
			return h.renderAdmin(c, "Unknown product.")
		}
		if err := h.catalog.DeleteProduct(ctx, principal, productID); err != nil {
			return h.renderAdmin(c, "Could not delete the product.")
		}
	default:
		return h.renderAdmin(c, "Unknown action.")
	}

	return c.Redirect(http.StatusSeeOther, "/admin-page")
}

// UserPage renders the catalog with ratings for regular users. Reached only
// through the user role gate; admins are rejected, there is no inheritance.
func (h *WebHandler) UserPage(c echo.Context) error {
	principal, _ := middleware.GetPrincipal(c)

	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return h.render(c, http.StatusOK, "user", pageData{
		Title:     "Products",
		Principal: principal,
		Products:  products,
	})
}

// ReviewsPage renders a product's reviews. Readable by anyone; the submission
// form appears only for logged-in callers.
func (h *WebHandler) ReviewsPage(c echo.Context) error {
	return h.renderReviews(c, "")
}

// SubmitReview handles the review form post and re-renders the page.
func (h *WebHandler) SubmitReview(c echo.Context) error {
	principal, _ := middleware.GetPrincipal(c)

	productID, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c, principal)
	}

	rating, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil || !entity.ValidRating(rating) {
		return h.renderReviews(c, "Rating must be a whole number between 1 and 5.")
	}

	input := &usecase.SubmitReviewInput{
		Rating:  rating,
		Comment: strings.TrimSpace(c.FormValue("comment")),
	}

	if _, err := h.reviews.SubmitReview(c.Request().Context(), principal, productID, input); err != nil {
		message := "Could not submit the review."
		if errors.Is(err, domainerrors.ErrDuplicateReview) {
			message = "You have already reviewed this product."
		}

		return h.renderReviews(c, message)
	}

	return c.Redirect(http.StatusSeeOther, "/products/"+productID.String()+"/reviews")
}

func (h *WebHandler) renderAdmin(c echo.Context, errorMessage string) error {
	principal, _ := middleware.GetPrincipal(c)

	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if errorMessage != "" {
		status = http.StatusBadRequest
	}

	return h.render(c, status, "admin", pageData{
		Title:     "Catalog management",
		Principal: principal,
		Error:     errorMessage,
		Products:  products,
	})
}

func (h *WebHandler) renderReviews(c echo.Context, errorMessage string) error {
	principal, _ := middleware.GetPrincipal(c)

	productID, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c, principal)
	}

	ctx := c.Request().Context()

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProductNotFound) {
			return h.renderNotFound(c, principal)
		}

		return errors.WithStack(err)
	}

	reviews, err := h.reviews.ListReviews(ctx, productID)
	if err != nil {
		return errors.WithStack(err)
	}

	hasReviewed := false
	if principal != nil {
		for _, review := range reviews {
			if review.UserID == principal.UserID {
				hasReviewed = true

				break
			}
		}
	}

	status := http.StatusOK
	if errorMessage != "" {
		status = http.StatusBadRequest
	}

	return h.render(c, status, "reviews", pageData{
		Title:       product.Name,
		Principal:   principal,
		Error:       errorMessage,
		Product:     product,
		Reviews:     reviews,
		HasReviewed: hasReviewed,
	})
}

// renderNotFound keeps the HTML surface in HTML: a bad or unknown product id
// gets a 404 page instead of the API's JSON envelope.
func (h *WebHandler) renderNotFound(c echo.Context, principal *entity.Principal) error {
	return h.render(c, http.StatusNotFound, "notfound", pageData{
		Title:     "Not found",
		Principal: principal,
	})
}

// formProductID reads the product id the management forms carry as a hidden
// field; these forms post to /admin-page itself, so there is no route param.
func formProductID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.FormValue("id"))
}

func (h *WebHandler) bindProductForm(c echo.Context) (*usecase.ProductInput, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return nil, domainerrors.ErrValidationFailed
	}

	input := &usecase.ProductInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Price:       price,
	}
	if input.Name == "" {
		return nil, domainerrors.ErrValidationFailed
	}

	return input, nil
}

func (h *WebHandler) sessionCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.Auth.SessionTTL.Seconds()),
	}
}

func rolePage(principal *entity.Principal) string {
	if principal.HasRole && principal.Role == entity.RoleAdmin {
		return "/admin-page"
	}

	return "/user-page"
}
