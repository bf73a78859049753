package videoframe

type Dimensions struct {
	W, H int
}

// Frame is a single decoded image captured from a source. Each frame
// exclusively owns its underlying decoded buffer; Close releases it and
// must be safe to call more than once.
type Frame interface {
	UUID() string
	SourceUUID() string
	Timestamp() int64
	Dimensions() Dimensions
	DataRef() interface{}
	Close()
}
