// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Normalize converts a command line target into a local path.
//
// Targets may be plain file paths or file URIs. File URIs are reduced to
// their path. "-" is passed through for standard input. Any other URI scheme
// is rejected because only local files can be read.
func Normalize(target string) (string, error) {
	if target == "-" {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Unparseable strings and Windows drive letters are paths.
		return filepath.Clean(target), nil
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported target scheme %q in %s", u.Scheme, target)
	}
	return filepath.Clean(filepath.FromSlash(u.Path)), nil
}
