// License: GPLv3 Copyright: 2022, Kovid Goyal, <kovid at kovidgoyal.net>

package utils

const (
	DEFAULT_IO_BUFFER_SIZE = 8192
)
