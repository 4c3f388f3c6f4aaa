package header

import "io"

// WriteTo writes m's entries as CRLF-terminated "Name: Value" lines, in
// the map's defined iteration order, followed by the terminating blank
// line. It does not flush the writer.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range m.Entries() {
		n, err := writeField(w, e.Name.String(), e.Value.Bytes())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	n, err := w.Write(crlf)
	written += int64(n)
	return written, err
}

var (
	colonSpace = []byte(": ")
	crlf       = []byte("\r\n")
)

func writeField(w io.Writer, name string, value []byte) (int, error) {
	var written int
	n, err := io.WriteString(w, name)
	written += n
	if err != nil {
		return written, err
	}
	n, err = w.Write(colonSpace)
	written += n
	if err != nil {
		return written, err
	}
	n, err = w.Write(value)
	written += n
	if err != nil {
		return written, err
	}
	n, err = w.Write(crlf)
	written += n
	return written, err
}
