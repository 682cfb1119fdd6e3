package objstore

// Blob is a typed view over a blob Object: raw file bytes, nothing
// else.
type Blob struct {
	content []byte
}

// NewBlob wraps raw file bytes as a Blob.
func NewBlob(content []byte) *Blob {
	return &Blob{content: content}
}

// BlobFromObject returns the Blob view of o.
func BlobFromObject(o *Object) (*Blob, error) {
	return NewBlob(o.Content), nil
}

// Bytes returns the blob's contents.
func (b *Blob) Bytes() []byte {
	return b.content
}

// ToObject returns the underlying Object.
func (b *Blob) ToObject() *Object {
	return New(TypeBlob, b.content)
}
