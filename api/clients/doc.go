// Package clients provides an HTTP client for the BlockWard API.
package clients
