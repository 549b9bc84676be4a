package vision

import "strings"

// NotFoundReply is the literal the model is told to answer when no track
// is visible.
const NotFoundReply = "Unable to Find Song"

// Descriptor identifies a track. Raw is the verbatim trimmed reply; Title
// and Artist are only set when Raw splits into exactly two parts on " by ".
type Descriptor struct {
	Raw    string
	Title  string
	Artist string
}

// ParseDescriptor never fails: replies that do not match "<title> by
// <artist>" are kept as an opaque display string.
func ParseDescriptor(raw string) Descriptor {
	raw = strings.TrimSpace(raw)
	d := Descriptor{Raw: raw}
	parts := strings.Split(raw, " by ")
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "" {
		d.Title = strings.TrimSpace(parts[0])
		d.Artist = strings.TrimSpace(parts[1])
	}
	return d
}

// Structured reports whether Title and Artist were recovered.
func (d Descriptor) Structured() bool {
	return d.Title != "" && d.Artist != ""
}

func (d Descriptor) String() string {
	return d.Raw
}

// Identification is the outcome of one vision call: either a descriptor or
// not found.
type Identification struct {
	Descriptor Descriptor
	Found      bool
}

// Resolve maps a raw reply onto an Identification.
func Resolve(reply string) Identification {
	reply = strings.TrimSpace(reply)
	if reply == NotFoundReply {
		return Identification{}
	}
	return Identification{Descriptor: ParseDescriptor(reply), Found: true}
}
