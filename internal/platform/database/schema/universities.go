// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UniversitiesTable represents the 'universities' table
type UniversitiesTable struct {
	Table string
	ID    string
	Name  string
	Logo  string
}

// Universities is the schema definition for universities
var Universities = UniversitiesTable{
	Table: "universities",
	ID:    "id",
	Name:  "name",
	Logo:  "logo",
}

// Columns returns all standard column names
func (t UniversitiesTable) Columns() []string {
	return []string{t.ID, t.Name, t.Logo}
}
