/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package testutil contains assertion helpers shared by tests of the module's packages.
package testutil

type tHelper interface {
	Helper()
}
