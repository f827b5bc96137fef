package service

import (
	"net/url"
)

// Image sizes served by the image proxy
const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"
	SizeFull   = "full"
)

// SourceResolver turns an image reference into the URL the host loads
type SourceResolver func(ref, size string) string

// DirectSources hands image references to the host unchanged
func DirectSources(ref, _ string) string {
	return ref
}

// ProxySources routes image references through the image proxy mounted at path
func ProxySources(path string) SourceResolver {
	return func(ref, size string) string {
		q := url.Values{}
		q.Set("src", ref)
		q.Set("size", size)
		return path + "?" + q.Encode()
	}
}
