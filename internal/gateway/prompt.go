package gateway

import (
	"fmt"

	"chatlens/internal/models"

	"github.com/cloudwego/eino/schema"
)

const systemPrompt = "You are a helpful assistant. Answer in the language the user writes in. " +
	"When document content, an image, or video frames are provided alongside the message, " +
	"base your answer on them. Describe general conditions; do not assume temporal order " +
	"between video frames."

const documentMarker = "Document content:"

// composeMessages builds the request: the fixed system instruction plus a
// single user turn whose parts are the user's text first, followed by any
// context-derived parts in the payload's stored order.
func composeMessages(message string, payload models.ContextPayload) []*schema.Message {
	parts := []schema.ChatMessagePart{{
		Type: schema.ChatMessagePartTypeText,
		Text: message,
	}}

	if !payload.Empty() {
		switch payload.Kind {
		case models.KindText:
			parts = append(parts, schema.ChatMessagePart{
				Type: schema.ChatMessagePartTypeText,
				Text: fmt.Sprintf("%s\n%s", documentMarker, payload.Text),
			})
		case models.KindImage:
			parts = append(parts, imagePart(payload.Image, payload.MimeType))
		case models.KindVideoFrames:
			parts = append(parts, schema.ChatMessagePart{
				Type: schema.ChatMessagePartTypeText,
				Text: fmt.Sprintf("The following %d images are frames sampled from a video:", len(payload.Frames)),
			})
			for _, frame := range payload.Frames {
				parts = append(parts, imagePart(frame.Data, "image/jpeg"))
			}
		}
	}

	return []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, MultiContent: parts},
	}
}

// imagePart wraps base64 image data as an inline data URI part.
func imagePart(data, mimeType string) schema.ChatMessagePart {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeImageURL,
		ImageURL: &schema.ChatMessageImageURL{
			URL:      fmt.Sprintf("data:%s;base64,%s", mimeType, data),
			MIMEType: mimeType,
		},
	}
}
