// Package mockapi is an in-process stand-in for the CSV backend. It serves
// every endpoint the client calls, under /api, with the same payload shapes
// and error bodies, and keeps uploads in memory. It backs csvdesk-mock and
// the end-to-end tests.
package mockapi
