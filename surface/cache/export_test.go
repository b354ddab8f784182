package cache

var (
	Encode = encode
	Decode = decode
)
