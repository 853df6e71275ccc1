// Package codec turns records into bytes and back.
package codec

type (
	Encode[T any] func(value T) ([]byte, error)
	Decode[T any] func(data []byte) (T, error)
)

// Codec pairs an encoder with its decoder. Tag is the struct tag key the
// encoding honours ("bson", "json"), predicates resolve fields through it.
type Codec[T any] struct {
	encode Encode[T]
	decode Decode[T]
	tag    string
}

func New[T any](encode Encode[T], decode Decode[T], tag string) Codec[T] {
	return Codec[T]{encode: encode, decode: decode, tag: tag}
}

func (c *Codec[T]) Encode(value T) ([]byte, error) {
	return c.encode(value)
}

func (c *Codec[T]) Decode(data []byte) (T, error) {
	return c.decode(data)
}

func (c *Codec[T]) Tag() string {
	return c.tag
}
