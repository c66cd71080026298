// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ad

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/sakan/internal/platform/database/schema"
	"github.com/taibuivan/sakan/internal/platform/dberr"
	"github.com/taibuivan/sakan/internal/platform/postgres"
	"github.com/taibuivan/sakan/pkg/slice"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed ad store.
func NewPostgresRepository(pool postgres.DB) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Building

// adColumns qualifies every ads column with the alias used in reads.
func adColumns(alias string) string {
	qualified := slice.Map(schema.Ads.Columns(), func(column string) string {
		return alias + "." + column
	})
	return strings.Join(qualified, ", ")
}

// ownerJSON builds the public owner summary in a single column.
var ownerJSON = fmt.Sprintf(
	`json_build_object('id', u.%s, 'type', u.%s, 'subType', u.%s, 'name', u.%s, 'image', u.%s, 'whatsapp', u.%s, 'isVerified', u.%s)`,
	schema.Users.ID, schema.Users.Type, schema.Users.SubType, schema.Users.Name,
	schema.Users.Image, schema.Users.WhatsApp, schema.Users.IsVerified,
)

// bedroomsJSON aggregates the bedrooms of the outer ad row.
var bedroomsJSON = fmt.Sprintf(
	`COALESCE((SELECT json_agg(json_build_object('id', b.%s, 'adId', b.%s, 'occupancy', b.%s, 'rate', b.%s) ORDER BY b.%s)
		FROM %s b WHERE b.%s = a.%s), '[]'::json)`,
	schema.AdBedrooms.ID, schema.AdBedrooms.AdID, schema.AdBedrooms.Occupancy, schema.AdBedrooms.Rate, schema.AdBedrooms.ID,
	schema.AdBedrooms.Table, schema.AdBedrooms.AdID, schema.Ads.ID,
)

// adSelect is shared by List and FindByID; extra columns go before FROM.
func adSelect(extra string) string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s%s
		FROM %s a
		JOIN %s u ON u.%s = a.%s
		WHERE a.%s = FALSE`,
		adColumns("a"), ownerJSON, bedroomsJSON, extra,
		schema.Ads.Table,
		schema.Users.Table, schema.Users.ID, schema.Ads.UserID,
		schema.Ads.IsDeleted,
	)
}

// scanAd reads the columns produced by [adSelect] plus any trailing targets.
func scanAd(row pgx.Row, extra ...any) (*Ad, error) {
	ad := &Ad{}
	var location pgtype.Point
	var owner, bedrooms []byte

	targets := []any{
		&ad.ID,
		&ad.UserID,
		&location,
		&ad.AddressDetails,
		&ad.ApartmentType,
		&ad.IsFurnished,
		&ad.OccupierCategory,
		&ad.Level,
		&ad.Amenities,
		&ad.Bathrooms,
		&ad.RateIncludes,
		&ad.AdministrativeFees,
		&ad.Insurance,
		&ad.Rate,
		&ad.AdditionalNotes,
		&ad.Images,
		&ad.IsAccepted,
		&ad.IsDeleted,
		&ad.IsSponsored,
		&ad.CreatedAt,
		&owner,
		&bedrooms,
	}

	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}

	ad.Location = pointFrom(location)
	if err := json.Unmarshal(owner, &ad.Owner); err != nil {
		return nil, fmt.Errorf("decode ad owner: %w", err)
	}
	if err := json.Unmarshal(bedrooms, &ad.Bedrooms); err != nil {
		return nil, fmt.Errorf("decode ad bedrooms: %w", err)
	}
	return ad, nil
}

// # Retrieval

/*
List returns a page of ads with their owners and bedrooms.

Description: Uses COUNT(*) OVER() for the total so one round trip serves both
the page and its metadata.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Ad: The page, newest first
  - int: Total non-deleted ads
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Ad, int, error) {
	query := adSelect(", COUNT(*) OVER() AS total") +
		fmt.Sprintf(" ORDER BY a.%s DESC, a.%s DESC LIMIT $1 OFFSET $2", schema.Ads.CreatedAt, schema.Ads.ID)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Ad", "postgres_ad_repo_list_failed")
	}
	defer rows.Close()

	ads := []*Ad{}
	var total int
	for rows.Next() {
		ad, err := scanAd(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Ad", "postgres_ad_repo_scan_failed")
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Ad", "postgres_ad_repo_list_failed")
	}

	return ads, total, nil
}

// FindByID returns NotFound("Ad") for missing or deleted ads.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Ad, error) {
	query := adSelect("") + fmt.Sprintf(" AND a.%s = $1", schema.Ads.ID)

	ad, err := scanAd(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Ad", "postgres_ad_repo_find_failed")
	}
	return ad, nil
}

// # Mutation

/*
Create inserts the ad row and then its bedrooms inside one transaction.

Description: The deferred rollback is a no-op once the transaction commits;
on any earlier return it discards the ad row so no partial listing is visible.

Parameters:
  - context: context.Context
  - ad: *Ad

Returns:
  - error: Mapped constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, ad *Ad) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "Ad", "postgres_ad_repo_begin_failed")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s, %s`,
		schema.Ads.Table,
		schema.Ads.UserID, schema.Ads.Location, schema.Ads.AddressDetails, schema.Ads.ApartmentType,
		schema.Ads.IsFurnished, schema.Ads.OccupierCategory, schema.Ads.Level,
		schema.Ads.Amenities, schema.Ads.Bathrooms, schema.Ads.RateIncludes, schema.Ads.AdministrativeFees,
		schema.Ads.Insurance, schema.Ads.Rate, schema.Ads.AdditionalNotes, schema.Ads.Images,
		schema.Ads.ID, schema.Ads.CreatedAt,
	)

	err = transaction.QueryRow(context, query,
		ad.UserID,
		ad.Location.pg(),
		ad.AddressDetails,
		ad.ApartmentType,
		ad.IsFurnished,
		ad.OccupierCategory,
		ad.Level,
		ad.Amenities,
		ad.Bathrooms,
		ad.RateIncludes,
		ad.AdministrativeFees,
		ad.Insurance,
		ad.Rate,
		ad.AdditionalNotes,
		ad.Images,
	).Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Ad", "postgres_ad_repo_insert_failed")
	}

	if err := insertBedrooms(context, transaction, ad); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "Ad", "postgres_ad_repo_commit_failed")
	}

	return nil
}

// insertBedrooms writes every bedroom of ad in one multi-row INSERT and
// stores the generated ids back on the entities.
func insertBedrooms(context context.Context, transaction pgx.Tx, ad *Ad) error {
	if len(ad.Bedrooms) == 0 {
		return nil
	}

	values := make([]string, len(ad.Bedrooms))
	args := make([]any, 0, len(ad.Bedrooms)*3)
	for i, bedroom := range ad.Bedrooms {
		bedroom.AdID = ad.ID
		values[i] = fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, ad.ID, bedroom.Occupancy, bedroom.Rate)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES %s RETURNING %s`,
		schema.AdBedrooms.Table,
		schema.AdBedrooms.AdID, schema.AdBedrooms.Occupancy, schema.AdBedrooms.Rate,
		strings.Join(values, ", "),
		schema.AdBedrooms.ID,
	)

	rows, err := transaction.Query(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "Bedroom", "postgres_ad_repo_insert_bedrooms_failed")
	}
	defer rows.Close()

	for i := 0; rows.Next() && i < len(ad.Bedrooms); i++ {
		if err := rows.Scan(&ad.Bedrooms[i].ID); err != nil {
			return dberr.Wrap(err, "Bedroom", "postgres_ad_repo_scan_bedroom_failed")
		}
	}

	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "Bedroom", "postgres_ad_repo_insert_bedrooms_failed")
	}
	return nil
}
