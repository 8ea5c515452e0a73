package gateway

import (
	"strings"
	"testing"

	"chatlens/internal/models"

	"github.com/cloudwego/eino/schema"
)

func userParts(t *testing.T, msgs []*schema.Message) []schema.ChatMessagePart {
	t.Helper()
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	return msgs[1].MultiContent
}

func TestComposeUserTextAlwaysFirst(t *testing.T) {
	for _, payload := range []models.ContextPayload{
		{Kind: models.KindNone},
		{Kind: models.KindText, Text: "isi"},
		{Kind: models.KindImage, Image: "abc", MimeType: "image/png"},
		{Kind: models.KindVideoFrames, Frames: []models.Frame{{Data: "abc"}}},
	} {
		parts := userParts(t, composeMessages("pertanyaan saya", payload))
		if parts[0].Type != schema.ChatMessagePartTypeText || parts[0].Text != "pertanyaan saya" {
			t.Fatalf("kind %s: user text must be the first part, got %+v", payload.Kind, parts[0])
		}
	}
}

func TestComposeNoneAppendsNothing(t *testing.T) {
	parts := userParts(t, composeMessages("halo", models.ContextPayload{Kind: models.KindNone}))
	if len(parts) != 1 {
		t.Fatalf("expected only the user text part, got %d", len(parts))
	}
}

func TestComposeDocumentMarker(t *testing.T) {
	parts := userParts(t, composeMessages("cek dokumen", models.ContextPayload{
		Kind: models.KindText,
		Text: "laporan penjualan",
	}))
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if !strings.HasPrefix(parts[1].Text, documentMarker) {
		t.Fatalf("document part must carry the marker: %q", parts[1].Text)
	}
	if !strings.Contains(parts[1].Text, "laporan penjualan") {
		t.Fatalf("document content missing: %q", parts[1].Text)
	}
}

func TestComposeImageInlineData(t *testing.T) {
	parts := userParts(t, composeMessages("analisa", models.ContextPayload{
		Kind:     models.KindImage,
		Image:    "base64data",
		MimeType: "image/png",
	}))
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	img := parts[1]
	if img.Type != schema.ChatMessagePartTypeImageURL || img.ImageURL == nil {
		t.Fatalf("expected image part, got %+v", img)
	}
	if img.ImageURL.URL != "data:image/png;base64,base64data" {
		t.Fatalf("unexpected data URI: %q", img.ImageURL.URL)
	}
	if img.ImageURL.MIMEType != "image/png" {
		t.Fatalf("unexpected mime: %q", img.ImageURL.MIMEType)
	}
}

func TestComposeEmptyPayloadsAppendNothing(t *testing.T) {
	for _, payload := range []models.ContextPayload{
		{Kind: models.KindImage},
		{Kind: models.KindText},
		{Kind: models.KindVideoFrames},
	} {
		parts := userParts(t, composeMessages("analisa", payload))
		if len(parts) != 1 {
			t.Fatalf("kind %s: empty payload must not produce extra parts, got %d", payload.Kind, len(parts))
		}
	}
}

func TestComposeVideoFramesAnnounceThenFrames(t *testing.T) {
	parts := userParts(t, composeMessages("lihat video", models.ContextPayload{
		Kind: models.KindVideoFrames,
		Frames: []models.Frame{
			{Index: 1, Data: "bbb"},
			{Index: 0, Data: "aaa"},
			{Index: 2, Data: "ccc"},
		},
	}))
	if len(parts) != 5 {
		t.Fatalf("expected text + announce + 3 frames, got %d", len(parts))
	}
	if !strings.Contains(parts[1].Text, "3 images") {
		t.Fatalf("announce part must state the frame count: %q", parts[1].Text)
	}
	// Frames keep the payload's stored order.
	wantOrder := []string{"bbb", "aaa", "ccc"}
	for i, want := range wantOrder {
		part := parts[2+i]
		if part.ImageURL == nil || !strings.Contains(part.ImageURL.URL, want) {
			t.Fatalf("frame %d out of order: %+v", i, part)
		}
		if part.ImageURL.MIMEType != "image/jpeg" {
			t.Fatalf("frames are jpeg stills, got %q", part.ImageURL.MIMEType)
		}
	}
}
