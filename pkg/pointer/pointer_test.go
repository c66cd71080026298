// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sakan/pkg/pointer"
)

/*
TestPointer covers construction and nil-safe dereferencing.
*/
func TestPointer(t *testing.T) {
	email := pointer.To("owner@sakan.app")
	assert.Equal(t, "owner@sakan.app", *email)

	var missing *string
	assert.Equal(t, "", pointer.Val(missing))
	assert.Equal(t, "owner@sakan.app", pointer.Val(email))
	assert.Equal(t, "fallback", pointer.Fallback(missing, "fallback"))
	assert.Equal(t, "owner@sakan.app", pointer.Fallback(email, "fallback"))
}
