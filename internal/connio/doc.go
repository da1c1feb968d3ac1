// Package connio runs the per-connection reader and writer goroutines
// for every AESP channel endpoint: the reader decodes frames off the
// socket and hands them to a FrameHandler, the writer drains a client's
// outbound queue onto the socket. The split and the use of ctxDone plus
// a dedicated writer goroutine per connection are grounded on
// go-ampio-server's internal/server/reader.go and writer.go.
package connio
