// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdminsTable represents the 'admins' table
type AdminsTable struct {
	Table     string
	ID        string
	SuperID   string
	Name      string
	Email     string
	Password  string
	CreatedAt string
}

// Admins is the schema definition for admins
var Admins = AdminsTable{
	Table:     "admins",
	ID:        "id",
	SuperID:   "super_id",
	Name:      "name",
	Email:     "email",
	Password:  "password",
	CreatedAt: "created_at",
}

// Columns returns all standard column names
func (t AdminsTable) Columns() []string {
	return []string{t.ID, t.SuperID, t.Name, t.Email, t.Password, t.CreatedAt}
}
