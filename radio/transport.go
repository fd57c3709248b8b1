package radio

// Transport is an unreliable byte stream to the ranging radio module.
//
// Read fills p with whatever bytes are currently available and returns
// immediately; a return of (0, nil) means no data. Implementations must not
// block beyond a short driver-internal poll interval.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}
