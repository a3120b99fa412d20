// Package store is the client's durable local key/value storage, the
// equivalent of a browser's local storage. The session keeps its auth token
// here so a signed-in user stays signed in across process restarts.
package store

// DefaultDBPath is the default relative path for the SQLite DB.
// Open creates the parent directory if it does not exist.
const DefaultDBPath = ".csvdesk/session.db"

// AuthTokenKey is the well-known key holding the persisted auth token.
const AuthTokenKey = "authToken"

// Store is durable string storage keyed by name. Absence of a key is not an
// error: Get reports it through ok.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}
