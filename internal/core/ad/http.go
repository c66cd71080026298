// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ad

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sakan/internal/platform/request"
	"github.com/taibuivan/sakan/internal/platform/respond"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/locale"
	"github.com/taibuivan/sakan/pkg/pagination"
	"github.com/taibuivan/sakan/pkg/slice"
)

// Handler implements the listing endpoints.
type Handler struct {
	adService   *Service
	requireAuth func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{adService: service, requireAuth: requireAuth}
}

// Routes returns a [chi.Router] configured with ad routes.
//
// # Endpoints
//   - POST /create    : Publishes an ad (user session).
//   - POST /find-many : Lists ads, paginated by {page, limit}.
//   - GET  /{id}      : Returns one ad.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.requireAuth, auth.RequireKinds(auth.SessionConsumer, auth.SessionSeller)).
		Post("/create", handler.create)
	router.Post("/find-many", handler.findMany)
	router.Get("/{id}", handler.findByID)

	return router
}

type bedroomRequest struct {
	Occupancy locale.Text `json:"occupancy"`
	Rate      int64       `json:"rate"`
}

type createRequest struct {
	Location           Point             `json:"location"`
	AddressDetails     locale.Text       `json:"addressDetails"`
	ApartmentType      locale.Text       `json:"apartmentType"`
	IsFurnished        bool              `json:"isFurnished"`
	OccupierCategory   locale.Text       `json:"occupierCategory"`
	Level              locale.Text       `json:"level"`
	Amenities          locale.Text       `json:"amenities"`
	BathroomCount      int               `json:"bathroomCount"`
	RateIncludes       *locale.Text      `json:"rateIncludes"`
	AdministrativeFees int64             `json:"administrativeFees"`
	Insurance          int64             `json:"insurance"`
	Rate               int64             `json:"rate"`
	AdditionalDetails  *locale.Text      `json:"additionalDetails"`
	Images             []storage.FileRef `json:"images"`
	AdBedrooms         []bedroomRequest  `json:"adBedrooms"`
}

func (request createRequest) input() CreateInput {
	return CreateInput{
		Location:           request.Location,
		AddressDetails:     request.AddressDetails,
		ApartmentType:      request.ApartmentType,
		IsFurnished:        request.IsFurnished,
		OccupierCategory:   request.OccupierCategory,
		Level:              request.Level,
		Amenities:          request.Amenities,
		BathroomCount:      request.BathroomCount,
		RateIncludes:       request.RateIncludes,
		AdministrativeFees: request.AdministrativeFees,
		Insurance:          request.Insurance,
		Rate:               request.Rate,
		AdditionalNotes:    request.AdditionalDetails,
		Images:             request.Images,
		Bedrooms: slice.Map(request.AdBedrooms, func(bedroom bedroomRequest) BedroomInput {
			return BedroomInput{Occupancy: bedroom.Occupancy, Rate: bedroom.Rate}
		}),
	}
}

/*
POST /api/v1/ad/create

Request:
  - Body: createRequest

Response:
  - 201: Ad
  - 400: Validation / Invalid upload type
  - 401: No or invalid session
  - 403: Admin session
  - 404: Image not uploaded
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := auth.PrincipalFrom(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ad, err := handler.adService.Create(request.Context(), principal, input.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ad)
}

/*
POST /api/v1/ad/find-many

Request:
  - Body: pagination.Params (optional)

Response:
  - 200: []Ad with pagination metadata
*/
func (handler *Handler) findMany(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	if err := requestutil.DecodeJSON(request, &params); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ads, meta, err := handler.adService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, ads, meta)
}

/*
GET /api/v1/ad/{id}

Response:
  - 200: Ad
  - 400: Invalid id
  - 404: NotFound
*/
func (handler *Handler) findByID(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ParamInt64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ad, err := handler.adService.FindByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ad)
}
