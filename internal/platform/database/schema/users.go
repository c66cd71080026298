// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the column descriptors of every table the stores touch.

Repositories build SQL with fmt.Sprintf over these descriptors instead of
repeating raw identifiers, so a renamed column is a one-line change here.
*/
package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table        string
	ID           string
	Type         string
	SubType      string
	Name         string
	Email        string
	Phone        string
	Image        string
	WhatsApp     string
	UniversityID string
	IsDeleted    string
	IsPremium    string
	IsVerified   string
	IsSuspended  string
	CreatedAt    string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Type:         "type",
	SubType:      "sub_type",
	Name:         "name",
	Email:        "email",
	Phone:        "phone",
	Image:        "image",
	WhatsApp:     "whatsapp",
	UniversityID: "university_id",
	IsDeleted:    "is_deleted",
	IsPremium:    "is_premium",
	IsVerified:   "is_verified",
	IsSuspended:  "is_suspended",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Type, t.SubType, t.Name, t.Email, t.Phone, t.Image, t.WhatsApp,
		t.UniversityID, t.IsDeleted, t.IsPremium, t.IsVerified, t.IsSuspended, t.CreatedAt,
	}
}
