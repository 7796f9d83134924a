package codec

// Codec encodes job arguments for key derivation.
// Marshal must be deterministic: equal values always produce equal bytes.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
}
