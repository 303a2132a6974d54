package details

import "fmt"

// Binary carries raw bytes. Only the size is rendered.
type Binary struct {
	Data []byte
}

func (b *Binary) String() string {
	if b.Data == nil {
		return "null"
	}
	if len(b.Data) == 1 {
		return "1 Byte"
	}
	return fmt.Sprintf("%d Bytes", len(b.Data))
}
