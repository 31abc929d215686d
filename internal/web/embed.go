// SPDX-License-Identifier: MIT

// Package web holds the embedded calculator UI.
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the single-page calculator UI.
func Index() []byte {
	return indexHTML
}
