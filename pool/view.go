package pool

import "unsafe"

// ViewBytes views s as a []byte without copying. It must only be used on
// strings backed by memory that outlives the returned slice's use — in
// this module's callers, a gjson.Result.Raw view into the string that
// gjson.ParseBytes copied the parsed bytes into.
func ViewBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
