package media

import "strings"

// Fallback extensions per media family when the content type has no subtype.
const (
	fallbackImageExt    = "jpg"
	fallbackVideoExt    = "mp4"
	fallbackAudioExt    = "mp3"
	fallbackDocumentExt = "bin"
	stickerExt          = "webp"
)

// Storage subdirectories under the media root.
const (
	SubdirImages    = "media/images"
	SubdirVideos    = "media/videos"
	SubdirAudio     = "media/audio"
	SubdirStickers  = "media/stickers"
	SubdirDocuments = "media/documents"
	SubdirDownloads = "downloads"
)

// Classify maps a declared content type to a subdirectory and extension.
// Rules apply in order, first match wins: the image/video/audio prefix checks
// run before the sticker substring check, so a type like "image/webp-sticker"
// classifies as an image. Prefix checks are case-sensitive; the sticker
// substring check is not. Unknown or empty types fall back to downloads/bin.
func Classify(contentType string) Classification {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return Classification{Subdir: SubdirImages, Ext: subtypeOr(contentType, fallbackImageExt)}
	case strings.HasPrefix(contentType, "video/"):
		return Classification{Subdir: SubdirVideos, Ext: subtypeOr(contentType, fallbackVideoExt)}
	case strings.HasPrefix(contentType, "audio/"):
		return Classification{Subdir: SubdirAudio, Ext: subtypeOr(contentType, fallbackAudioExt)}
	case strings.Contains(strings.ToLower(contentType), "sticker"):
		return Classification{Subdir: SubdirStickers, Ext: stickerExt}
	case strings.HasPrefix(contentType, "application/") || strings.HasPrefix(contentType, "text/"):
		return Classification{Subdir: SubdirDocuments, Ext: subtypeOr(contentType, fallbackDocumentExt)}
	default:
		return Classification{Subdir: SubdirDownloads, Ext: fallbackDocumentExt}
	}
}

// subtypeOr returns the substring after the first "/", or fallback when empty.
func subtypeOr(contentType, fallback string) string {
	idx := strings.Index(contentType, "/")
	if idx < 0 || idx == len(contentType)-1 {
		return fallback
	}
	return contentType[idx+1:]
}
