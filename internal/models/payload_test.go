package models

import "testing"

func TestContextPayloadEmpty(t *testing.T) {
	cases := []struct {
		name    string
		payload ContextPayload
		want    bool
	}{
		{"none", ContextPayload{Kind: KindNone}, true},
		{"text with content", ContextPayload{Kind: KindText, Text: "isi"}, false},
		{"text blank", ContextPayload{Kind: KindText}, true},
		{"image with content", ContextPayload{Kind: KindImage, Image: "abc"}, false},
		{"image blank", ContextPayload{Kind: KindImage}, true},
		{"frames present", ContextPayload{Kind: KindVideoFrames, Frames: []Frame{{Data: "abc"}}}, false},
		{"frames absent", ContextPayload{Kind: KindVideoFrames}, true},
		{"zero value", ContextPayload{}, true},
	}
	for _, tc := range cases {
		if got := tc.payload.Empty(); got != tc.want {
			t.Fatalf("%s: Empty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
