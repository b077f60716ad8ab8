package storage

import "io"

// BlobStore holds artifact attachments. Keys are namespaced by artifact id
// ("artifacts/<id>/<filename>").
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
