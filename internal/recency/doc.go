/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package recency provides a slice-backed doubly-linked list for tracking the order in which entries were used.
package recency
