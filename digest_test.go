/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package warcproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDigest(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		content   string
		want      string
		wantErr   error
	}{
		{"md5", "md5", "Some content", "md5:B53227DA4280F0E18270F21DD77C91D0", nil},
		{"sha1", "sha1", "Some content", "sha1:9F1A6ECF74E9F9B1AE52E8EB581D420E63E8453A", nil},
		{"sha-1", "sha-1", "Some content", "sha-1:9F1A6ECF74E9F9B1AE52E8EB581D420E63E8453A", nil},
		{"default is sha1", "", "Some content", "sha1:9F1A6ECF74E9F9B1AE52E8EB581D420E63E8453A", nil},
		{"sha256", "sha256", "Some content", "sha256:9C6609FC5111405EA3F5BB3D1F6B5A5EFD19A0CEC53D85893FD96D265439CD5B", nil},
		{"sha512", "sha512", "Some content", "sha512:B20D977718ED67F2BF7620EE2D982FD850C4883EC8D048440FE7B6A86CF6322FD791C47B0C7469DBEEF3E339032E1ABC4BCEBE5EFC104BC19A117BFEF4478605", nil},
		{"sha3-256", "sha3-256", "Some content", "sha3-256:E03DE96A3C08F5578CFDE66CD957B327396D691EAAD6F9008DA642E9C033F401", nil},
		{"empty content", "sha1", "", "sha1:DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", nil},
		{"unsupported", "crc32", "Some content", "", ErrUnsupportedDigest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDigest(DefaultDigestProvider{}, tt.algorithm, []byte(tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyDigest(t *testing.T) {
	content := []byte("Some content")
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{"match", "sha1:9F1A6ECF74E9F9B1AE52E8EB581D420E63E8453A", nil},
		{"lower case", "sha1:9f1a6ecf74e9f9b1ae52e8eb581d420e63e8453a", nil},
		{"base32", "sha1:T4NG5T3U5H43DLSS5DVVQHKCBZR6QRJ2", nil},
		{"mismatch", "sha1:0000000000000000000000000000000000000000", ErrDigestMismatch},
		{"no algorithm", "9F1A6ECF74E9F9B1AE52E8EB581D420E63E8453A", ErrInvalidFieldValue},
		{"unsupported", "crc32:1234", ErrUnsupportedDigest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyDigest(DefaultDigestProvider{}, tt.value, content)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
