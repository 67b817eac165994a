package gate

import "runtime"

// GoroutineID returns the runtime's ID for the calling goroutine by parsing
// the header of its stack trace, which has the form "goroutine 123 [running]:".
// Stack parsing costs on the order of a microsecond per call, which is fine
// for a single-stepping test harness where every access is a rendezvous
// anyway.
func GoroutineID() int64 {
	// Only the first line is needed.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGoroutineID(buf[:n])
}

func parseGoroutineID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
