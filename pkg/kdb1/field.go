package kdb1

import (
	"encoding/binary"
	"unicode/utf8"
)

const fieldTerminator uint16 = 0xFFFF

// Group field type numbers (spec 4.5).
const (
	gfComment = 0x0000
	gfID      = 0x0001
	gfTitle   = 0x0002
	gfCreated = 0x0003
	gfLastMod = 0x0004
	gfLastAcc = 0x0005
	gfExpire  = 0x0006
	gfImage   = 0x0007
	gfLevel   = 0x0008
	gfFlags   = 0x0009
)

// Entry field type numbers (spec 4.5).
const (
	efUUID       = 0x0001
	efGroupID    = 0x0002
	efImage      = 0x0003
	efTitle      = 0x0004
	efURL        = 0x0005
	efUsername   = 0x0006
	efPassword   = 0x0007
	efComment    = 0x0008
	efCreated    = 0x0009
	efLastMod    = 0x000A
	efLastAcc    = 0x000B
	efExpire     = 0x000C
	efBinaryDesc = 0x000D
	efBinary     = 0x000E
)

// fieldCursor reads length-prefixed fields out of a plaintext body buffer,
// tracking an offset and failing closed (TruncatedBody) the moment a read
// would run past the end of buf.
type fieldCursor struct {
	buf []byte
	pos int
}

func (c *fieldCursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, newError(KindTruncatedBody, "fieldCursor.take", nil)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *fieldCursor) readU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *fieldCursor) readU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *fieldCursor) readDate() (DateTime, error) {
	b, err := c.take(5)
	if err != nil {
		return DateTime{}, err
	}
	var arr [5]byte
	copy(arr[:], b)
	return UnpackDate(arr)
}

// readHeader reads a field's type and declared size, and fails TruncatedBody
// if the declared size does not fit in what remains of buf — the
// strengthened bound check described in the design notes: a field claiming
// more payload than the plaintext has left is rejected immediately rather
// than left to a later out-of-bounds read.
func (c *fieldCursor) readHeader() (fieldType uint16, size uint32, err error) {
	fieldType, err = c.readU16()
	if err != nil {
		return 0, 0, err
	}
	size, err = c.readU32()
	if err != nil {
		return 0, 0, err
	}
	if uint64(c.pos)+uint64(size) > uint64(len(c.buf)) {
		return 0, 0, newError(KindTruncatedBody, "fieldCursor.readHeader", nil)
	}
	return fieldType, size, nil
}

// decodeText trims a single trailing NUL byte (if present) and decodes the
// remainder as UTF-8, falling back to treating it as Latin-1 (ISO-8859-1,
// where byte value equals code point) if it is not valid UTF-8.
func decodeText(payload []byte) string {
	if len(payload) > 0 && payload[len(payload)-1] == 0 {
		payload = payload[:len(payload)-1]
	}
	if utf8.Valid(payload) {
		return string(payload)
	}
	runes := make([]rune, len(payload))
	for i, b := range payload {
		runes[i] = rune(b)
	}
	return string(runes)
}

func encodeText(s string) []byte {
	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	b = append(b, 0)
	return b
}

// parseGroupFields reads one group record from c, starting immediately
// after whatever preceded it and stopping once the 0xFFFF terminator is
// consumed. level is the group's level field, needed by the tree builder.
func parseGroupFields(c *fieldCursor) (*Group, int, error) {
	g := &Group{}
	level := 0

	for {
		fieldType, size, err := c.readHeader()
		if err != nil {
			return nil, 0, err
		}
		if fieldType == fieldTerminator {
			if size != 0 {
				return nil, 0, newError(KindTruncatedBody, "parseGroupFields", nil)
			}
			return g, level, nil
		}

		payload, err := c.take(int(size))
		if err != nil {
			return nil, 0, err
		}

		switch fieldType {
		case gfComment:
			// ignored
		case gfID:
			if len(payload) != 4 {
				return nil, 0, newError(KindTruncatedBody, "parseGroupFields", nil)
			}
			g.ID = binary.LittleEndian.Uint32(payload)
		case gfTitle:
			g.Title = decodeText(payload)
		case gfCreated:
			g.Created, err = unpackDateField(payload)
		case gfLastMod:
			g.LastMod, err = unpackDateField(payload)
		case gfLastAcc:
			g.LastAccess, err = unpackDateField(payload)
		case gfExpire:
			g.Expire, err = unpackDateField(payload)
		case gfImage:
			if len(payload) != 4 {
				return nil, 0, newError(KindTruncatedBody, "parseGroupFields", nil)
			}
			g.Image = binary.LittleEndian.Uint32(payload)
		case gfLevel:
			if len(payload) != 2 {
				return nil, 0, newError(KindTruncatedBody, "parseGroupFields", nil)
			}
			level = int(binary.LittleEndian.Uint16(payload))
		case gfFlags:
			if len(payload) != 4 {
				return nil, 0, newError(KindTruncatedBody, "parseGroupFields", nil)
			}
			g.Flags = binary.LittleEndian.Uint32(payload)
		default:
			return nil, 0, newError(KindUnknownField, "parseGroupFields", nil)
		}
		if err != nil {
			return nil, 0, err
		}
	}
}

// parseEntryFields reads one entry record from c. sawGroupID reports
// whether a group_id field was seen before the terminator; the caller
// (parseBody) turns a missing group_id into OrphanEntry.
func parseEntryFields(c *fieldCursor) (e *Entry, sawGroupID bool, err error) {
	e = &Entry{}

	for {
		fieldType, size, err := c.readHeader()
		if err != nil {
			return nil, false, err
		}
		if fieldType == fieldTerminator {
			if size != 0 {
				return nil, false, newError(KindTruncatedBody, "parseEntryFields", nil)
			}
			return e, sawGroupID, nil
		}

		payload, err := c.take(int(size))
		if err != nil {
			return nil, false, err
		}

		switch fieldType {
		case efUUID:
			if len(payload) != 16 {
				return nil, false, newError(KindTruncatedBody, "parseEntryFields", nil)
			}
			copy(e.UUID[:], payload)
		case efGroupID:
			if len(payload) != 4 {
				return nil, false, newError(KindTruncatedBody, "parseEntryFields", nil)
			}
			e.GroupID = binary.LittleEndian.Uint32(payload)
			sawGroupID = true
		case efImage:
			if len(payload) != 4 {
				return nil, false, newError(KindTruncatedBody, "parseEntryFields", nil)
			}
			e.Image = binary.LittleEndian.Uint32(payload)
		case efTitle:
			e.Title = decodeText(payload)
		case efURL:
			e.URL = decodeText(payload)
		case efUsername:
			e.Username = decodeText(payload)
		case efPassword:
			e.Password = decodeText(payload)
		case efComment:
			e.Comment = decodeText(payload)
		case efCreated:
			e.Created, err = unpackDateField(payload)
		case efLastMod:
			e.LastMod, err = unpackDateField(payload)
		case efLastAcc:
			e.LastAccess, err = unpackDateField(payload)
		case efExpire:
			e.Expire, err = unpackDateField(payload)
		case efBinaryDesc:
			e.BinaryDesc = decodeText(payload)
		case efBinary:
			e.Binary = append([]byte(nil), payload...)
		default:
			return nil, false, newError(KindUnknownField, "parseEntryFields", nil)
		}
		if err != nil {
			return nil, false, err
		}
	}
}

func unpackDateField(payload []byte) (DateTime, error) {
	if len(payload) != 5 {
		return DateTime{}, newError(KindTruncatedBody, "unpackDateField", nil)
	}
	var arr [5]byte
	copy(arr[:], payload)
	return UnpackDate(arr)
}

func appendField(buf []byte, fieldType uint16, payload []byte) []byte {
	var hdr [6]byte
	binary.LittleEndian.PutUint16(hdr[0:2], fieldType)
	binary.LittleEndian.PutUint32(hdr[2:6], uint32(len(payload)))
	buf = append(buf, hdr[:]...)
	buf = append(buf, payload...)
	return buf
}

func appendTerminator(buf []byte) []byte {
	return appendField(buf, fieldTerminator, nil)
}

func appendDateField(buf []byte, fieldType uint16, d DateTime) ([]byte, error) {
	packed, err := PackDate(d)
	if err != nil {
		return nil, err
	}
	return appendField(buf, fieldType, packed[:]), nil
}

func appendU32Field(buf []byte, fieldType uint16, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return appendField(buf, fieldType, b[:])
}

// encodeGroupFields serializes g in ascending field-type order and ends
// the record with the 0xFFFF terminator.
func encodeGroupFields(g *Group) ([]byte, error) {
	var buf []byte
	buf = appendU32Field(buf, gfID, g.ID)
	buf = appendField(buf, gfTitle, encodeText(g.Title))

	var err error
	if buf, err = appendDateField(buf, gfCreated, g.Created); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, gfLastMod, g.LastMod); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, gfLastAcc, g.LastAccess); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, gfExpire, g.Expire); err != nil {
		return nil, err
	}

	buf = appendU32Field(buf, gfImage, g.Image)

	var lvl [2]byte
	binary.LittleEndian.PutUint16(lvl[:], uint16(g.Level))
	buf = appendField(buf, gfLevel, lvl[:])

	buf = appendU32Field(buf, gfFlags, g.Flags)
	buf = appendTerminator(buf)
	return buf, nil
}

// encodeEntryFields serializes e in ascending field-type order. The binary
// description and attachment fields are omitted entirely when empty,
// matching the original's "skip fields with no value" save behavior.
func encodeEntryFields(e *Entry) ([]byte, error) {
	var buf []byte
	buf = appendField(buf, efUUID, e.UUID[:])
	buf = appendU32Field(buf, efGroupID, e.GroupID)
	buf = appendU32Field(buf, efImage, e.Image)
	buf = appendField(buf, efTitle, encodeText(e.Title))
	buf = appendField(buf, efURL, encodeText(e.URL))
	buf = appendField(buf, efUsername, encodeText(e.Username))
	buf = appendField(buf, efPassword, encodeText(e.Password))
	buf = appendField(buf, efComment, encodeText(e.Comment))

	var err error
	if buf, err = appendDateField(buf, efCreated, e.Created); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, efLastMod, e.LastMod); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, efLastAcc, e.LastAccess); err != nil {
		return nil, err
	}
	if buf, err = appendDateField(buf, efExpire, e.Expire); err != nil {
		return nil, err
	}

	if e.BinaryDesc != "" {
		buf = appendField(buf, efBinaryDesc, encodeText(e.BinaryDesc))
	}
	if len(e.Binary) > 0 {
		buf = appendField(buf, efBinary, e.Binary)
	}

	buf = appendTerminator(buf)
	return buf, nil
}
