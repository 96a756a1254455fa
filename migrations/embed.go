// Package migrations embeds the SQL schema applied on startup.
package migrations

import "embed"

// FS holds every migration file; database.Migrate applies the *.up.sql ones.
//
//go:embed *.sql
var FS embed.FS
