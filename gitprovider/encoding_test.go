/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gitprovider

import (
	"testing"

	"github.com/fluxcd/go-git-backup/validation"
)

func TestEncodeContent(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{content: "", want: ""},
		{content: `{"a":1}`, want: "eyJhIjoxfQ=="},
		{content: "héllo ✓", want: "aMOpbGxvIOKckw=="},
	}
	for _, tt := range tests {
		if got := EncodeContent(tt.content); got != tt.want {
			t.Errorf("EncodeContent(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		encoding     string
		want         string
		expectedErrs []error
	}{
		{
			name:     "base64",
			content:  "eyJhIjoxfQ==",
			encoding: EncodingBase64,
			want:     `{"a":1}`,
		},
		{
			name:     "base64 with line breaks",
			content:  "aMOpbGxv\nIOKckw==\n",
			encoding: EncodingBase64,
			want:     "héllo ✓",
		},
		{
			name:    "no encoding means base64",
			content: "eyJhIjoxfQ==",
			want:    `{"a":1}`,
		},
		{
			name:     "utf-8",
			content:  "plain",
			encoding: EncodingUTF8,
			want:     "plain",
		},
		{
			name:         "unknown encoding",
			content:      "plain",
			encoding:     "rot13",
			expectedErrs: []error{ErrInvalidServerData},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeContent(tt.content, tt.encoding)
			validation.TestExpectErrors(t, "DecodeContent", err, tt.expectedErrs...)
			if got != tt.want {
				t.Errorf("DecodeContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeContent_invalidBase64(t *testing.T) {
	if _, err := DecodeContent("not base64!", EncodingBase64); err == nil {
		t.Error("DecodeContent() expected an error")
	}
}

func TestEncodeContent_roundTrip(t *testing.T) {
	for _, content := range []string{"", "{}", "żółw 🐢 Ünïcödé", "line\nbreaks\r\n"} {
		got, err := DecodeContent(EncodeContent(content), EncodingBase64)
		if err != nil {
			t.Fatal(err)
		}
		if got != content {
			t.Errorf("round trip of %q gave %q", content, got)
		}
	}
}
