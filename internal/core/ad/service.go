// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ad

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	"github.com/taibuivan/sakan/internal/platform/validate"
	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/pagination"
	"github.com/taibuivan/sakan/pkg/slice"
)

// Field names used in validation errors.
const (
	FieldAddressDetails     = "addressDetails"
	FieldApartmentType      = "apartmentType"
	FieldOccupierCategory   = "occupierCategory"
	FieldLevel              = "level"
	FieldAmenities          = "amenities"
	FieldBathroomCount      = "bathroomCount"
	FieldRateIncludes       = "rateIncludes"
	FieldAdministrativeFees = "administrativeFees"
	FieldInsurance          = "insurance"
	FieldRate               = "rate"
	FieldAdditionalNotes    = "additionalDetails"
	FieldImages             = "images"
	FieldBedrooms           = "adBedrooms"
)

// maxColumnValue is the upper bound of the INTEGER columns counts and amounts are stored in.
const maxColumnValue = math.MaxInt32

// FileVerifier confirms that referenced files were uploaded for a purpose.
type FileVerifier interface {
	VerifyFileUploads(context context.Context, refs []storage.FileRef, uploadType storage.UploadType) error
}

// Service orchestrates listing use cases.
type Service struct {
	repository Repository
	files      FileVerifier
	metrics    *metrics.Metrics
}

// NewService constructs a new ad [Service].
func NewService(repository Repository, files FileVerifier, recorder *metrics.Metrics) *Service {
	return &Service{repository: repository, files: files, metrics: recorder}
}

func validateCreate(input CreateInput) error {
	validator := &validate.Validator{}
	validator.
		Text(FieldAddressDetails, input.AddressDetails).
		Text(FieldApartmentType, input.ApartmentType).
		Text(FieldOccupierCategory, input.OccupierCategory).
		Text(FieldLevel, input.Level).
		Text(FieldAmenities, input.Amenities).
		Range(FieldBathroomCount, int64(input.BathroomCount), 0, maxColumnValue).
		Range(FieldAdministrativeFees, input.AdministrativeFees, 0, maxColumnValue).
		Range(FieldInsurance, input.Insurance, 0, maxColumnValue).
		Range(FieldRate, input.Rate, 0, maxColumnValue).
		MinItems(FieldImages, len(input.Images), 1).
		MinItems(FieldBedrooms, len(input.Bedrooms), 1)

	if input.RateIncludes != nil {
		validator.Text(FieldRateIncludes, *input.RateIncludes)
	}
	if input.AdditionalNotes != nil {
		validator.Text(FieldAdditionalNotes, *input.AdditionalNotes)
	}

	for i, image := range input.Images {
		validator.Required(fmt.Sprintf("%s[%d].path", FieldImages, i), image.Path)
	}
	for i, bedroom := range input.Bedrooms {
		field := fmt.Sprintf("%s[%d]", FieldBedrooms, i)
		validator.Text(field+".occupancy", bedroom.Occupancy).
			Range(field+".rate", bedroom.Rate, 0, maxColumnValue)
	}

	return validator.Err()
}

/*
Create publishes a listing for the calling user.

Description: Admin principals are refused. Every image must be a verified
AD_IMAGE upload before anything is written.

Parameters:
  - context: context.Context
  - principal: *auth.Principal
  - input: CreateInput

Returns:
  - *Ad: The stored ad with its bedrooms
  - error: Forbidden, validation, file verification or storage failures
*/
func (service *Service) Create(context context.Context, principal *auth.Principal, input CreateInput) (*Ad, error) {
	if principal == nil || principal.User == nil {
		return nil, apperr.Forbidden("Only users can post ads")
	}

	if err := validateCreate(input); err != nil {
		return nil, err
	}

	if err := service.files.VerifyFileUploads(context, input.Images, storage.UploadAdImage); err != nil {
		return nil, err
	}

	ad := &Ad{
		UserID:             principal.User.ID,
		Location:           input.Location,
		AddressDetails:     input.AddressDetails,
		ApartmentType:      input.ApartmentType,
		IsFurnished:        input.IsFurnished,
		OccupierCategory:   input.OccupierCategory,
		Level:              input.Level,
		Amenities:          input.Amenities,
		Bathrooms:          input.BathroomCount,
		RateIncludes:       input.RateIncludes,
		AdministrativeFees: input.AdministrativeFees,
		Insurance:          input.Insurance,
		Rate:               input.Rate,
		AdditionalNotes:    input.AdditionalNotes,
		Images:             input.Images,
		Bedrooms: slice.Map(input.Bedrooms, func(bedroom BedroomInput) *Bedroom {
			return &Bedroom{Occupancy: bedroom.Occupancy, Rate: bedroom.Rate}
		}),
	}

	if err := service.repository.Create(context, ad); err != nil {
		return nil, err
	}

	service.metrics.RecordAdCreated()
	ctxutil.GetLogger(context).InfoContext(context, "ad_created",
		slog.Int64("ad_id", ad.ID),
		slog.Int64("user_id", ad.UserID),
		slog.Int("bedrooms", len(ad.Bedrooms)),
	)

	return ad, nil
}

// List returns a page of ads and its pagination metadata.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Ad, pagination.Meta, error) {
	params = params.Normalize()

	ads, total, err := service.repository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return ads, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// FindByID returns a single ad or NotFound("Ad").
func (service *Service) FindByID(context context.Context, id int64) (*Ad, error) {
	return service.repository.FindByID(context, id)
}
