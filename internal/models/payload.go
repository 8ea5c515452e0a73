package models

// PayloadKind tags what, if anything, was extracted from an uploaded file.
type PayloadKind string

const (
	KindNone        PayloadKind = "none"
	KindText        PayloadKind = "text"
	KindImage       PayloadKind = "image"
	KindVideoFrames PayloadKind = "video_frames"
)

// Frame is a single still image sampled from a video, base64-encoded.
// Index is the timestamp index the frame was sampled at; frames are stored
// in completion order, so Index is the only chronological handle.
type Frame struct {
	Index int    `json:"index"`
	Data  string `json:"data"`
}

// ContextPayload is the normalized result of processing an uploaded file.
// Kind determines which content field is populated:
// KindText uses Text, KindImage uses Image+MimeType, KindVideoFrames uses
// Frames, KindNone carries nothing.
type ContextPayload struct {
	Kind     PayloadKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Image    string      `json:"image,omitempty"`
	MimeType string      `json:"mime_type,omitempty"`
	Frames   []Frame     `json:"frames,omitempty"`
}

// Empty reports whether the payload carries no usable content.
func (p ContextPayload) Empty() bool {
	switch p.Kind {
	case KindText:
		return p.Text == ""
	case KindImage:
		return p.Image == ""
	case KindVideoFrames:
		return len(p.Frames) == 0
	default:
		return true
	}
}
