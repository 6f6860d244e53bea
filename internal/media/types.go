package media

import "errors"

// DefaultInstanceID is used when a request does not name a gateway instance.
const DefaultInstanceID = "default"

// ErrNoMediaData reports that the gateway returned no usable payload for the
// message. Distinct from fetch/decode/write failures: there is nothing to fetch.
var ErrNoMediaData = errors.New("no media data available")

// Classification maps a declared content type to a storage subdirectory and
// file extension. Every content type maps to exactly one pair.
type Classification struct {
	Subdir string
	Ext    string
}

// Request identifies the media message to materialize.
type Request struct {
	MessageID  string
	InstanceID string
	// Filename overrides the default {messageID}.{ext} destination name.
	Filename string
}

// StoredFile is the written artifact: its path and exact byte length.
type StoredFile struct {
	Path      string
	SizeBytes int64
}
