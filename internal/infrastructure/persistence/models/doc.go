// Package models contains the GORM persistence models of the warehouse tables.
// Models carry every ORM tag; domain entities stay free of them, and each
// model converts with ToDomain / FromDomain. The SQL migrations under
// migrations/ are the schema of record; the tags here match them.
package models
