// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ad implements rental listings.

Sellers and consumers publish an apartment with its location, pricing, images
and the bedrooms on offer. Images must have been uploaded through the storage
module as AD_IMAGE before an ad may reference them.

Architecture:

  - Entities: Ad, Bedroom, Owner.
  - Service: Validation, image verification and orchestration.
  - Repository: Postgres, with the ad and its bedrooms written in one transaction.
*/
package ad

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/sakan/internal/storage"
	"github.com/taibuivan/sakan/pkg/locale"
)

// # Entities

// Point is a geographic coordinate stored as a Postgres POINT (x=longitude, y=latitude).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (point Point) pg() pgtype.Point {
	return pgtype.Point{P: pgtype.Vec2{X: point.X, Y: point.Y}, Valid: true}
}

func pointFrom(value pgtype.Point) Point {
	return Point{X: value.P.X, Y: value.P.Y}
}

// Ad is a rental listing.
type Ad struct {
	ID                 int64             `json:"id"`
	UserID             int64             `json:"userId"`
	Location           Point             `json:"location"`
	AddressDetails     locale.Text       `json:"addressDetails"`
	ApartmentType      locale.Text       `json:"apartmentType"`
	IsFurnished        bool              `json:"isFurnished"`
	OccupierCategory   locale.Text       `json:"occupierCategory"`
	Level              locale.Text       `json:"level"`
	Amenities          locale.Text       `json:"amenities"`
	Bathrooms          int               `json:"bathrooms"`
	RateIncludes       *locale.Text      `json:"rateIncludes"`
	AdministrativeFees int64             `json:"administrativeFees"`
	Insurance          int64             `json:"insurance"`
	Rate               int64             `json:"rate"`
	AdditionalNotes    *locale.Text      `json:"additionalNotes"`
	Images             []storage.FileRef `json:"images"`
	IsAccepted         bool              `json:"isAccepted"`
	IsDeleted          bool              `json:"isDeleted"`
	IsSponsored        bool              `json:"isSponsored"`
	CreatedAt          time.Time         `json:"createdAt"`

	Bedrooms []*Bedroom `json:"bedrooms"`
	Owner    *Owner     `json:"user,omitempty"`
}

// Bedroom is one room of an ad with its own occupancy and rate.
type Bedroom struct {
	ID        int64       `json:"id"`
	AdID      int64       `json:"adId"`
	Occupancy locale.Text `json:"occupancy"`
	Rate      int64       `json:"rate"`
}

// Owner is the public summary of the user who posted an ad.
type Owner struct {
	ID         int64            `json:"id"`
	Type       string           `json:"type"`
	SubType    *string          `json:"subType"`
	Name       locale.Text      `json:"name"`
	Image      *storage.FileRef `json:"image"`
	WhatsApp   *string          `json:"whatsapp"`
	IsVerified bool             `json:"isVerified"`
}

// # Inputs

// CreateInput carries a new ad as submitted by its owner.
type CreateInput struct {
	Location           Point
	AddressDetails     locale.Text
	ApartmentType      locale.Text
	IsFurnished        bool
	OccupierCategory   locale.Text
	Level              locale.Text
	Amenities          locale.Text
	BathroomCount      int
	RateIncludes       *locale.Text
	AdministrativeFees int64
	Insurance          int64
	Rate               int64
	AdditionalNotes    *locale.Text
	Images             []storage.FileRef
	Bedrooms           []BedroomInput
}

// BedroomInput is one bedroom of a [CreateInput].
type BedroomInput struct {
	Occupancy locale.Text
	Rate      int64
}
