package domain

// Reserved event keys filled in at submission time when absent.
const (
	FieldTime = "time"
	FieldHost = "host"
)

// Event is a single telemetry record. Values may be strings, numbers or
// nested objects; anything the configured encoder accepts.
type Event map[string]any

// WithDefaults returns a shallow copy of e carrying host and time.
// Keys already present in e are never overwritten. The receiver is not modified.
func (e Event) WithDefaults(host, epochSeconds string) Event {
	out := make(Event, len(e)+2)
	for k, v := range e {
		out[k] = v
	}
	if _, ok := out[FieldHost]; !ok {
		out[FieldHost] = host
	}
	if _, ok := out[FieldTime]; !ok {
		out[FieldTime] = epochSeconds
	}
	return out
}

// SerializedEvent is the JSON-encoded form of an Event.
// It must not be modified once produced.
type SerializedEvent []byte
