package proto

import "github.com/indigo-web/utils/uf"

type Proto uint8

const (
	Unknown Proto = 0
	HTTP10  Proto = 1 << iota
	HTTP11

	HTTP1 = HTTP10 | HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return ""
	}
}

const (
	protoTokenLength   = len("HTTP/x.x")
	majorVersionOffset = len("HTTP/x") - 1
	minorVersionOffset = len("HTTP/x.x") - 1
	httpScheme         = "HTTP/"
)

// Version holds the raw major and minor numbers of a protocol token.
type Version struct {
	Major, Minor uint8
}

// ParseVersion checks the token against the HTTP/<digit>.<digit> grammar.
func ParseVersion(raw []byte) (v Version, ok bool) {
	if len(raw) != protoTokenLength || uf.B2S(raw[:majorVersionOffset]) != httpScheme ||
		raw[majorVersionOffset+1] != '.' {
		return v, false
	}

	major, minor := raw[majorVersionOffset]-'0', raw[minorVersionOffset]-'0'
	if major > 9 || minor > 9 {
		return v, false
	}

	return Version{Major: major, Minor: minor}, true
}

// FromBytes returns the protocol the token stands for. Tokens that are either malformed or
// name a version other than 1.0 and 1.1 are Unknown.
func FromBytes(raw []byte) Proto {
	v, ok := ParseVersion(raw)
	if !ok {
		return Unknown
	}

	return Parse(v.Major, v.Minor)
}

func Parse(major, minor uint8) Proto {
	if major != 1 {
		return Unknown
	}

	switch minor {
	case 0:
		return HTTP10
	case 1:
		return HTTP11
	default:
		return Unknown
	}
}
