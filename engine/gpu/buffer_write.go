package gpu

// BufferWrite describes a single GPU buffer write operation targeting a
// specific binding of the culling buffer set at a given byte offset.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
