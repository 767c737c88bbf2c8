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
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// EncodingBase64 is the blob encoding providers use by default.
	EncodingBase64 = "base64"
	// EncodingUTF8 is used for blobs returned as plain text.
	EncodingUTF8 = "utf-8"
)

// EncodeContent returns content as standard, padded base64, the form the contents APIs expect.
func EncodeContent(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

// DecodeContent decodes a blob's content given in encoding. Line breaks in base64
// content, as inserted by GitHub every 60 characters, are ignored. An empty encoding
// means base64.
func DecodeContent(content, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return "", fmt.Errorf("failed to decode blob content: %w", err)
		}
		return string(decoded), nil
	case EncodingUTF8:
		return content, nil
	}
	return "", fmt.Errorf("unsupported blob encoding %q: %w", encoding, ErrInvalidServerData)
}
