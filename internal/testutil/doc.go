// Package testutil contains helper builders and fakes used across tests to
// reduce boilerplate when constructing percepts, belief stores and
// environments. They are not intended for production usage.
package testutil
