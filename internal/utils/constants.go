package utils

// HTTP Header Constants
const (
	// Standard HTTP Headers
	HeaderContentType     = "Content-Type"
	HeaderContentLength   = "Content-Length"
	HeaderContentEncoding = "Content-Encoding"
	HeaderUserAgent       = "User-Agent"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderCacheControl    = "Cache-Control"
	HeaderConnection      = "Connection"

	// Request/Response Tracking Headers
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	// Client IP Headers
	HeaderXForwardedFor = "X-Forwarded-For"

	// Streaming Headers
	HeaderTransferEncoding = "Transfer-Encoding"
	HeaderXAccelBuffering  = "X-Accel-Buffering"

	// CORS Headers
	HeaderAccessControlAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders = "Access-Control-Allow-Headers"

	// Authorization Headers
	HeaderAuthorization = "Authorization"
)

// Content Type Constants
const (
	ContentTypeJSON            = "application/json"
	ContentTypeJSONUTF8        = "application/json; charset=utf-8"
	ContentTypeEventStream     = "text/event-stream"
	ContentTypeEventStreamUTF8 = "text/event-stream; charset=utf-8"
)

// Cache Control Values
const (
	CacheControlNoCache = "no-cache"
)

// Service Values
const (
	ServiceName = "Plenario-Chat-Gateway/1.0"
)

// CORS Values
const (
	CORSAllowOriginAll  = "*"
	CORSAllowMethodsAll = "POST, GET, OPTIONS"
	CORSAllowHeadersStd = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, X-Correlation-ID"
)

// Streaming Values
const (
	TransferEncodingChunked = "chunked"
	XAccelBufferingNo       = "no"
	ConnectionKeepAlive     = "keep-alive"
)
