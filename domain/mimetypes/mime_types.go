package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"
	ImageHEIC MIME = "image/heic"
)

// ProfilePicture lists the formats accepted for a profile picture, with the
// file extension used when storing them.
var ProfilePicture = map[MIME]string{
	ImagePNG:  "png",
	ImageJPEG: "jpg",
	ImageGIF:  "gif",
	ImageWebP: "webp",
	ImageHEIC: "heic",
}

// ToMIME drops the parameters of a detected media type, e.g. a charset.
func ToMIME(detected string) MIME {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown
	}
	return MIME(mt)
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt := ToMIME(detected)
	if mt == Unknown {
		return Unknown, false
	}
	return expected, mt == expected
}

// Extension returns the stored extension of an accepted picture format.
func Extension(detected string) (string, bool) {
	ext, ok := ProfilePicture[ToMIME(detected)]
	return ext, ok
}
