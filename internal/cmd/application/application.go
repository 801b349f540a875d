// Package application provides the application interface for artcards commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested against a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (artcards.Client, error) {
//	        return client, nil
//	    },
//	}
//	cmd := summary.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/artcards"
)

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the artcards client, opening the workbook and the
	// state database on first use.
	Client() (artcards.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
