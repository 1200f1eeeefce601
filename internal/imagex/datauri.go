package imagex

import "regexp"

// Embedded photos are rendered straight into markup, so anything that is not
// a known raster image prefix is treated as absent instead of displayed.
var allowedDataURI = regexp.MustCompile(`^data:image/(jpeg|png|gif|webp)`)

// AllowedDataURI reports whether s starts with an embeddable image media
// type. It is a prefix check, not a full decode; display code must call it
// before using a persisted photo.
func AllowedDataURI(s string) bool {
	return allowedDataURI.MatchString(s)
}
