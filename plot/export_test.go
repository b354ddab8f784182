package plot

var (
	MaxDepth = maxDepth
	BarCol   = barCol
	Bg       = bg
)
