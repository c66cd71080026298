// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ad

import (
	"context"
)

// Repository persists ads and their bedrooms.
type Repository interface {
	/*
		Create inserts an ad and its bedrooms atomically.

		Description: Fills ID, CreatedAt and the bedroom ids in place. Nothing is
		written when any insert fails.

		Parameters:
		  - context: context.Context
		  - ad: *Ad (with Bedrooms)

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, ad *Ad) error

	// List returns a page of ads, newest first, and the total count.
	List(context context.Context, limit, offset int) ([]*Ad, int, error)

	// FindByID returns a non-deleted ad with its owner and bedrooms.
	FindByID(context context.Context, id int64) (*Ad, error)
}
