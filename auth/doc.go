// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth generates the identifiers handed out by the server.

# Room Codes

Room codes are three lowercase letters and four digits:

	code := auth.GenerateRoomCode() // "qzk-0481"

Codes are drawn with nanoid over two fixed alphabets. The directory retries
on collision. NormalizeRoomCode cleans up codes typed by hand.

# Guest Identities

	id := auth.NewGuestID() // random UUID

There is no identity proofing. A guest keeps its id on the client and sends
it with every call.

# IP Hashing

The sync journal stores the requester's address hashed:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
