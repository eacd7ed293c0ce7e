// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the wire encodings used on dealer sockets.
//
// Two encodings with a clear boundary:
//
//   - Text (JSON, UTF-8) for fan-out to heterogeneous consumers: the
//     health and transaction-state publishers, operator tooling, and
//     message files read by dealer-send.
//   - Compact (CBOR) for high-volume peer-to-peer paths: ledger
//     requests and responses, push/pull work queues, and anything sent
//     through a broker with routing frames.
//
// The compact encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Message structs declare cbor ",toarray" so
// fields are written positionally in declaration order, which keeps
// the payload dense and independent of field names.
//
// Compact payloads may additionally be compressed ([CompactZstd],
// [CompactLZ4]). Compressed payloads carry a one-byte compression tag
// and the uncompressed size so the receiver never guesses.
//
// For buffer-oriented operations:
//
//	data, err := codec.Encode(codec.Compact, value)
//	err = codec.Decode(codec.Compact, data, &value)
//
// Decode failures wrap [ErrMalformed]. Encode failures for a value of
// a known schema indicate a programming error; the socket helpers
// treat them as such.
package codec
