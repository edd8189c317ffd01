package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/storefront/internal/api/metrics"
	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type ListingHandler struct {
	catalog         ports.Catalog
	feedbackService ports.FeedbackService
}

func NewListingHandler(catalog ports.Catalog, feedbackService ports.FeedbackService) *ListingHandler {
	return &ListingHandler{catalog: catalog, feedbackService: feedbackService}
}

type listingsResponse struct {
	Listings []domain.Listing `json:"listings"`
}

type feedbackRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// List returns every listing in the catalog.
//
// @Summary      List listings
// @Tags         listings
// @Produce      json
// @Success      200  {object}  listingsResponse
// @Router       /listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, listingsResponse{Listings: h.catalog.List()})
}

// Get returns one listing.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      int  true  "Listing id"
// @Success      200  {object}  domain.Listing
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := listingParam(c)
	if err != nil {
		return err
	}
	listing, err := h.catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// ListFeedback returns a listing's feedback with its average rating.
//
// @Summary      Listing feedback
// @Tags         feedback
// @Produce      json
// @Param        id   path      int  true  "Listing id"
// @Success      200  {object}  ports.ListingFeedback
// @Failure      400  {object}  map[string]string
// @Router       /listings/{id}/feedback [get]
func (h *ListingHandler) ListFeedback(c echo.Context) error {
	id, err := listingParam(c)
	if err != nil {
		return err
	}
	view, err := h.feedbackService.ListFeedback(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SubmitFeedback rates a listing. Each account may rate a listing once.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Listing id"
// @Param        body  body      feedbackRequest  true  "Rating and optional review"
// @Success      201   {object}  ports.ListingFeedback
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /listings/{id}/feedback [post]
func (h *ListingHandler) SubmitFeedback(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listingID, err := listingParam(c)
	if err != nil {
		return err
	}
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.feedbackService.SubmitFeedback(c.Request().Context(), ports.SubmitFeedbackInput{
		Identity:  identity,
		ListingID: listingID,
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		return err
	}
	metrics.FeedbackSubmittedTotal.WithLabelValues(strconv.Itoa(req.Rating)).Inc()
	return c.JSON(http.StatusCreated, view)
}
