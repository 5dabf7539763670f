package directory

const (
	StatusActive = "active"
	StatusFired  = "fired"
)
