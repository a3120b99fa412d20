// Package flow holds the user-facing workflows: upload, preview and
// download, analyze and validate, feedback, and login. Each flow owns its
// own transient view state (error text, in-flight flag, open panel) and
// reads or writes the shared session slices it is handed.
//
// Flows are single-flight: while an operation is in progress a second call
// returns ErrBusy without side effects. Every flow can be unmounted, after
// which results arriving from the network are no longer applied.
package flow
