// Package api is the HTTP client for the CSV analyzer backend.
//
// Usage:
//
//	client, err := api.New("http://localhost:5000/api", api.WithLogger(logger))
//	res, err := client.UploadFile(ctx, file)
//	blob, err := client.Download(ctx, res.Data, res.Filename)
//
// Every operation returns either its decoded success payload or an error.
// Non-2xx responses become *APIError carrying the body's "error" field (or a
// per-operation default); network and decoding failures become
// *TransportError. Message extracts the user-facing text from either.
package api
