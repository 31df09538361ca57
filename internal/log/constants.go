package log

const (
	KeyAppName       = "app"
	KeyCacheKey      = "cacheKey"
	KeyCartId        = "cartId"
	KeyCartItemId    = "cartItemId"
	KeyCategory      = "category"
	KeyConfig        = "config"
	KeyEmail         = "email"
	KeyItemId        = "itemId"
	KeyProcess       = "process"
	KeyQuantity      = "quantity"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestId     = "requestId"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeySpanId        = "spanId"
	KeyTag           = "tag"
	KeyToken         = "token"
	KeyTraceId       = "traceId"
	KeyUserId        = "userId"
)
