package wire

import "github.com/dantte-lp/gowa/internal/stanza"

// decoder is a one-shot cursor over a single frame's payload. It never
// mutates its input slice; a Reader only commits the frame bytes after a
// decoder call succeeds in full.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, newProtocolError("unexpected end of payload")
	}

	b := d.buf[d.pos]
	d.pos++

	return b, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, newProtocolError("payload truncated: need %d bytes, have %d", n, len(d.buf)-d.pos)
	}

	b := d.buf[d.pos : d.pos+n]
	d.pos += n

	return b, nil
}

func (d *decoder) readUint16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}

	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (d *decoder) readUint24() (int, error) {
	b, err := d.readBytes(3)
	if err != nil {
		return 0, err
	}

	return int(b[0])<<16 | int(b[1])<<8 | int(b[2]), nil
}

// readString decodes one wire string per spec.md §4.2. The result is a
// Go string used as a byte container: no UTF-8 validity is assumed or
// enforced.
func (d *decoder) readString() (string, error) {
	lead, err := d.readByte()
	if err != nil {
		return "", err
	}

	switch {
	case lead <= leadEmptyMax:
		return "", nil
	case lead <= PrimaryLimit:
		s, ok := tok2str(uint16(lead))
		if !ok {
			return "", newProtocolError("primary token index 0x%02x has no entry", lead)
		}

		return s, nil
	case lead == leadJID:
		user, err := d.readString()
		if err != nil {
			return "", err
		}

		server, err := d.readString()
		if err != nil {
			return "", err
		}

		return user + "@" + server, nil
	case lead == leadShortLen:
		n, err := d.readByte()
		if err != nil {
			return "", err
		}

		b, err := d.readBytes(int(n))
		if err != nil {
			return "", err
		}

		return string(b), nil
	case lead == leadLongLen:
		n, err := d.readUint24()
		if err != nil {
			return "", err
		}

		b, err := d.readBytes(n)
		if err != nil {
			return "", err
		}

		return string(b), nil
	case lead == leadSecondary:
		off, err := d.readByte()
		if err != nil {
			return "", err
		}

		idx := SecondaryBase + uint16(off)

		s, ok := tok2str(idx)
		if !ok {
			return "", newProtocolError("secondary token index 0x%03x has no entry", idx)
		}

		return s, nil
	default:
		return "", newProtocolError("unknown string lead byte 0x%02x", lead)
	}
}

func (d *decoder) readListStart() (int, error) {
	lead, err := d.readByte()
	if err != nil {
		return 0, err
	}

	switch lead {
	case listEmpty:
		return 0, nil
	case listShortLen:
		n, err := d.readByte()
		return int(n), err
	case listLongLen:
		n, err := d.readUint16()
		return int(n), err
	default:
		return 0, newProtocolError("unknown list_start opcode 0x%02x", lead)
	}
}

func (d *decoder) readAttrs(n int) (map[string]string, error) {
	if n == 0 {
		return nil, nil
	}

	attrs := make(map[string]string, n)

	for i := 0; i < n; i++ {
		key, err := d.readString()
		if err != nil {
			return nil, err
		}

		value, err := d.readString()
		if err != nil {
			return nil, err
		}

		attrs[key] = value
	}

	return attrs, nil
}

// readNode decodes one stanza (or stream marker) per spec.md §4.2. A
// zero-length list decodes to an anonymous empty node, used on the wire
// as a bare keep-alive frame.
func (d *decoder) readNode() (*stanza.Node, error) {
	length, err := d.readListStart()
	if err != nil {
		return nil, err
	}

	if length == 0 {
		return &stanza.Node{}, nil
	}

	marker, err := d.readByte()
	if err != nil {
		return nil, err
	}

	switch marker {
	case 0x01:
		attrs, err := d.readAttrs((length - 1) / 2)
		if err != nil {
			return nil, err
		}

		return &stanza.Node{Name: "start", Attrs: attrs}, nil
	case 0x02:
		return nil, ErrEndOfStream
	}

	d.pos--

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	attrs, err := d.readAttrs((length - 1) / 2)
	if err != nil {
		return nil, err
	}

	node := &stanza.Node{Name: name, Attrs: attrs}

	if length%2 == 0 {
		if d.pos >= len(d.buf) {
			return nil, newProtocolError("missing trailing child/text slot")
		}

		next := d.buf[d.pos]
		if next == listShortLen || next == listLongLen {
			children, err := d.readChildren()
			if err != nil {
				return nil, err
			}

			node.Children = children
		} else {
			text, err := d.readString()
			if err != nil {
				return nil, err
			}

			node.Text = []byte(text)
		}
	}

	return node, nil
}

func (d *decoder) readChildren() ([]*stanza.Node, error) {
	n, err := d.readListStart()
	if err != nil {
		return nil, err
	}

	children := make([]*stanza.Node, 0, n)

	for i := 0; i < n; i++ {
		child, err := d.readNode()
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return children, nil
}
