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
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// DefaultDigestAlgorithm is used when no algorithm is given to a record.
const DefaultDigestAlgorithm = "sha1"

// DigestProvider computes a hex encoded digest of a byte slice using a named algorithm.
//
// An unknown algorithm must result in an error wrapping ErrUnsupportedDigest.
type DigestProvider interface {
	Digest(algorithm string, p []byte) (string, error)
}

// DefaultDigestProvider supports md5, sha1, sha256, sha512, sha3-256 and sha3-512.
// Digests are encoded as upper case Base16.
type DefaultDigestProvider struct{}

func (DefaultDigestProvider) Digest(algorithm string, p []byte) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}
	h.Write(p)
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "md5":
		return md5.New(), nil
	case "sha1", "sha-1":
		return sha1.New(), nil
	case "sha256", "sha-256":
		return sha256.New(), nil
	case "sha512", "sha-512":
		return sha512.New(), nil
	case "sha3-256":
		return sha3.New256(), nil
	case "sha3-512":
		return sha3.New512(), nil
	default:
		return nil, fmt.Errorf("warcproto: '%s': %w", algorithm, ErrUnsupportedDigest)
	}
}

// ComputeDigest returns the digest of p formatted as a WARC digest field value, i.e. "<algorithm>:<digest>".
func ComputeDigest(provider DigestProvider, algorithm string, p []byte) (string, error) {
	if algorithm == "" {
		algorithm = DefaultDigestAlgorithm
	}
	d, err := provider.Digest(algorithm, p)
	if err != nil {
		return "", err
	}
	return algorithm + ":" + d, nil
}

// VerifyDigest checks that value, formatted as "<algorithm>:<digest>", is the digest of p.
// The digest may be Base16 or Base32 encoded and is compared case-insensitively.
func VerifyDigest(provider DigestProvider, value string, p []byte) error {
	algorithm, expected, found := strings.Cut(value, ":")
	if !found {
		return fmt.Errorf("warcproto: malformed digest '%s': %w", value, ErrInvalidFieldValue)
	}
	computed, err := provider.Digest(algorithm, p)
	if err != nil {
		return err
	}
	if !strings.EqualFold(computed, expected) && !strings.EqualFold(base32Of(computed), expected) {
		return fmt.Errorf("warcproto: wrong digest: expected %s:%s, computed: %s:%s: %w", algorithm, expected, algorithm, computed, ErrDigestMismatch)
	}
	return nil
}

// base32Of re-encodes a Base16 digest as Base32.
func base32Of(hexDigest string) string {
	b, err := hex.DecodeString(hexDigest)
	if err != nil {
		return ""
	}
	return base32.StdEncoding.EncodeToString(b)
}
