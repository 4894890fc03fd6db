// Package storage reads and writes files for streaming responses.
//
// S3 talks to any S3-compatible service through aws-sdk-go-v2; Dir keeps
// files on local disk. Both return Object metadata (size, content type,
// ETag, modification time) alongside the body so handlers can answer
// conditional requests and set download headers.
//
//	store, err := storage.NewS3(cfg)
//	body, obj, err := store.Open(ctx, "invoices/2024-01.pdf")
package storage
