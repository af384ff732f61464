// Package testutil contains helpers shared by package tests: a sample book,
// temporary book files and configurable embedding stubs. They are not
// intended for production usage.
package testutil
