package cache

const (
	KeyCartsByUserId = "carts:user:%s"
)
