package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomies/internal/app/dto"
	listingapp "roomies/internal/app/handlers/listings"
	"roomies/internal/app/queries"
	domainlistings "roomies/internal/domain/listings"
	"roomies/internal/infra/geoip"
)

type ListingHTTP interface {
	Home(c *gin.Context)
	Nearby(c *gin.Context)
	Detail(c *gin.Context)
	Search(c *gin.Context)
}

// ListingHandler wires listing queries to HTTP.
type ListingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h ListingHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "index.html", dto.HomePage{LoggedIn: loggedIn(c)})
}

// Nearby lists the listings closest to the signed-in visitor.
func (h ListingHandler) Nearby(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	query := listingapp.NearbyQuery{ClientIP: geoip.ClientIP(c.Request)}
	page, err := queries.Ask[listingapp.NearbyQuery, dto.NearbyPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		// This is where listing errors redirect to, so it cannot redirect itself.
		h.logFailure("nearby listings failed", err)
		renderError(c, http.StatusServiceUnavailable, "listings are temporarily unavailable")
		return
	}
	p, _ := currentPrincipal(c)
	page.UserName = p.Name
	page.LoggedIn = true
	render(c, http.StatusOK, "home.html", page)
}

func (h ListingHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	query := listingapp.GetDetailQuery{ListingID: c.Param("id")}
	detail, err := queries.Ask[listingapp.GetDetailQuery, dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	detail.LoggedIn = loggedIn(c)
	render(c, http.StatusOK, "property.html", detail)
}

// Search reads its parameters from the query string; POSTed forms may
// carry them in the body instead.
func (h ListingHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	query := listingapp.SearchQuery{
		Request: domainlistings.SearchRequest{
			Query:  param(c, "query"),
			Filter: param(c, "filter"),
			Sort:   param(c, "sort"),
			Limit:  param(c, "limit"),
		},
		ClientIP: geoip.ClientIP(c.Request),
	}
	page, err := queries.Ask[listingapp.SearchQuery, dto.SearchPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	page.LoggedIn = loggedIn(c)
	render(c, http.StatusOK, "search.html", page)
}

func (h ListingHandler) respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainlistings.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainlistings.ErrNotFound):
		redirect(c, "/properties")
	case errors.Is(err, domainlistings.ErrRepository):
		h.logFailure("listing store failed", err)
		redirect(c, "/properties")
	default:
		h.logFailure("listing query failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h ListingHandler) logFailure(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

// param distinguishes an absent parameter (nil) from an empty one.
func param(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	if c.Request.Method == http.MethodPost {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
	}
	return nil
}

var _ ListingHTTP = ListingHandler{}
