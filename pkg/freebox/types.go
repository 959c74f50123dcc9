package freebox

import (
	"encoding/base64"
	"net/url"
	"strconv"
)

// Object is a free-form JSON document, used for configuration payloads whose
// layout depends on the firmware.
type Object = map[string]any

// encodePath encodes a Freebox filesystem path the way the fs and dl endpoints expect it.
func encodePath(path string) string {
	return base64.StdEncoding.EncodeToString([]byte(path))
}

// DecodePath reverses the base64 encoding found in fs results (e.g. FileInfo.Path).
func DecodePath(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
