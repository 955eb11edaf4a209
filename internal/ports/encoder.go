package ports

// Encoder serializes values to JSON and back.
type Encoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
