// Package common contains shared constants and sentinel errors used across
// timevault components.
package common

import "strconv"

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LoginMessagePrefix starts every message a client signs to log in.
const LoginMessagePrefix = "timevault-login:"

// LoginMessage is the exact byte string an identity signs to log in at
// Unix time ts.
func LoginMessage(identity string, ts int64) []byte {
	return []byte(LoginMessagePrefix + identity + ":" + strconv.FormatInt(ts, 10))
}
