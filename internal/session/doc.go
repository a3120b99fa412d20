// Package session holds the two client-side state slices a flow can touch:
//
//   - Auth: token, user and signed-in flag. The token is persisted to a
//     store.Store so it survives restarts.
//   - WorkingSet: the current CSV rows with the file name, stats and column
//     descriptions that describe them. Memory only.
//
// Both are plain values passed by reference to the flows that need them.
package session
