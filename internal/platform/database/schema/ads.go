// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdsTable represents the 'ads' table
type AdsTable struct {
	Table              string
	ID                 string
	UserID             string
	Location           string
	AddressDetails     string
	ApartmentType      string
	IsFurnished        string
	OccupierCategory   string
	Level              string
	Amenities          string
	Bathrooms          string
	RateIncludes       string
	AdministrativeFees string
	Insurance          string
	Rate               string
	AdditionalNotes    string
	Images             string
	IsAccepted         string
	IsDeleted          string
	IsSponsored        string
	CreatedAt          string
}

// Ads is the schema definition for ads
var Ads = AdsTable{
	Table:              "ads",
	ID:                 "id",
	UserID:             "user_id",
	Location:           "location",
	AddressDetails:     "address_details",
	ApartmentType:      "apartment_type",
	IsFurnished:        "is_furnished",
	OccupierCategory:   "occupier_category",
	Level:              "level",
	Amenities:          "amenities",
	Bathrooms:          "bathrooms",
	RateIncludes:       "rate_includes",
	AdministrativeFees: "administrative_fees",
	Insurance:          "insurance",
	Rate:               "rate",
	AdditionalNotes:    "additional_notes",
	Images:             "images",
	IsAccepted:         "is_accepted",
	IsDeleted:          "is_deleted",
	IsSponsored:        "is_sponsored",
	CreatedAt:          "created_at",
}

// Columns returns all standard column names
func (t AdsTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Location, t.AddressDetails, t.ApartmentType, t.IsFurnished,
		t.OccupierCategory, t.Level, t.Amenities, t.Bathrooms, t.RateIncludes,
		t.AdministrativeFees, t.Insurance, t.Rate, t.AdditionalNotes, t.Images,
		t.IsAccepted, t.IsDeleted, t.IsSponsored, t.CreatedAt,
	}
}

// AdBedroomsTable represents the 'ads_bed_rooms' table
type AdBedroomsTable struct {
	Table     string
	ID        string
	AdID      string
	Occupancy string
	Rate      string
}

// AdBedrooms is the schema definition for ads_bed_rooms
var AdBedrooms = AdBedroomsTable{
	Table:     "ads_bed_rooms",
	ID:        "id",
	AdID:      "ad_id",
	Occupancy: "occupancy",
	Rate:      "rate",
}

// Columns returns all standard column names
func (t AdBedroomsTable) Columns() []string {
	return []string{t.ID, t.AdID, t.Occupancy, t.Rate}
}
