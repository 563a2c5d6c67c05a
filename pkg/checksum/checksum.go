// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package checksum provides content-identity checks used to avoid
// redundant copies. MD5 is used for change detection only, nothing here
// is security sensitive.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// chunkSize is the read buffer size used when streaming a file through
// the hash.
const chunkSize = 4096

// 🔢 File computes the hex MD5 digest of a file's content.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", errors.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// 🔍 SameContent reports whether two files have identical content.
// A missing file or a checksum failure on either side counts as "not
// identical" so that callers prefer a re-copy over a silent skip.
func SameContent(a, b string) bool {
	if _, err := os.Stat(a); err != nil {
		return false
	}
	if _, err := os.Stat(b); err != nil {
		return false
	}

	sumA, errA := File(a)
	sumB, errB := File(b)

	return errA == nil && errB == nil && sumA == sumB
}
