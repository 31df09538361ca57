package cache

const (
	KeyItems = "items:%s"
)
