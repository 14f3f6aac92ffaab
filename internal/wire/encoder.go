package wire

import "github.com/dantte-lp/gowa/internal/stanza"

// EncodeNode renders a stanza to its wire list form (no frame header).
// A nil node renders the bare keep-alive frame (a zero-length list).
func EncodeNode(n *stanza.Node) []byte {
	if n == nil {
		return []byte{listEmpty}
	}

	length := 1
	if n.Attrs != nil {
		length += 2 * len(n.Attrs)
	}

	if len(n.Children) > 0 {
		length++
	}

	if len(n.Text) > 0 {
		length++
	}

	buf := encodeListStart(length)
	buf = append(buf, encodeString(n.Name)...)
	buf = append(buf, encodeAttrs(n.Attrs)...)

	switch {
	case len(n.Text) > 0:
		buf = append(buf, encodeLiteral(n.Text)...)
	case len(n.Children) > 0:
		buf = append(buf, encodeListStart(len(n.Children))...)
		for _, child := range n.Children {
			buf = append(buf, EncodeNode(child)...)
		}
	}

	return buf
}

// encodeAttrs renders attribute pairs. Iteration order is unspecified by
// the wire format (spec.md §4.2); attrKeys gives a deterministic order so
// encoded output is reproducible across runs, which test fixtures and
// golden-byte comparisons rely on.
func encodeAttrs(attrs map[string]string) []byte {
	if len(attrs) == 0 {
		return nil
	}

	var buf []byte

	for _, key := range attrKeys(attrs) {
		buf = append(buf, encodeString(key)...)
		buf = append(buf, encodeString(attrs[key])...)
	}

	return buf
}

// attrKeys returns attrs' keys in a stable, deterministic order.
func attrKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	// Simple insertion sort: attribute counts per stanza are tiny
	// (almost always under a dozen), so this avoids pulling in sort
	// for a handful of comparisons on the hot send path.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}

	return keys
}

// EncodeStreamStart renders the client's opening stream-start list:
// list-start(1+2*len(attrs)), the 0x01 marker, then attribute pairs.
// This is the payload that follows the "WA"+version+header prologue
// (spec.md §4.2, §6).
func EncodeStreamStart(attrs map[string]string) []byte {
	length := 1 + 2*len(attrs)

	buf := encodeListStart(length)
	buf = append(buf, 0x01)
	buf = append(buf, encodeAttrs(attrs)...)

	return buf
}

// EncodeStreamEnd renders the terminal stream-end marker: a one-element
// list whose sole element is the 0x02 byte.
func EncodeStreamEnd() []byte {
	buf := encodeListStart(1)
	return append(buf, 0x02)
}
