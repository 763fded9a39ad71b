// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inflate implements a resumable DEFLATE (RFC 1951) decoder.
//
// Unlike compress/flate, the Inflator does not own an io.Reader or
// io.Writer. The caller hands it a source buffer and a target buffer with
// SetSource and SetTarget and calls Inflate; Inflate returns as soon as
// either buffer is exhausted, and resumes exactly where it left off on the
// next call. This makes the decoder usable from callers that already have
// their own I/O loop (network framing, memory-mapped archives, a
// companion zlib/gzip façade) without forcing a dedicated goroutine or an
// intermediate copy.
//
// The decoder is not safe for concurrent use by multiple goroutines; each
// Inflator must be driven by a single goroutine for its lifetime, though
// independent Inflators on different goroutines share no state.
package inflate
