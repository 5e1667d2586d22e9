// Package helper provides fixtures and observability test doubles shared by the tests of all packages.
package helper
