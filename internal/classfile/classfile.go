// Package classfile parses JVM class files just deeply enough to recover
// declared symbols: the class itself, its super types, fields and methods.
// Method bodies and attributes are skipped.
package classfile

import (
	"encoding/binary"
	"fmt"
)

// Access flag bits from the class file format.
const (
	AccPublic     = 0x0001
	AccPrivate    = 0x0002
	AccProtected  = 0x0004
	AccStatic     = 0x0008
	AccFinal      = 0x0010
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccSynthetic  = 0x1000
	AccAnnotation = 0x2000
	AccEnum       = 0x4000
)

const magic = 0xCAFEBABE

// Member is one declared field or method.
type Member struct {
	Name       string
	Descriptor string
	Access     uint16
}

// ClassInfo is the symbol-relevant content of one class file. Names are
// JVM binary names with slash separators, e.g. "java/lang/String".
type ClassInfo struct {
	Name       string
	Access     uint16
	SuperName  string
	Interfaces []string
	Fields     []Member
	Methods    []Member
}

// Reader turns one binary artifact into parsed symbol facts. Implementations
// must be safe for concurrent use; the converter calls Read from multiple
// workers.
type Reader interface {
	Read(name string, data []byte) (*ClassInfo, error)
}

// NewReader returns the default class file parser.
func NewReader() Reader {
	return parser{}
}

type parser struct{}

func (parser) Read(name string, data []byte) (*ClassInfo, error) {
	info, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return info, nil
}

// cursor is a bounds-checked big-endian reader over the class file bytes.
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) u1() (uint8, error) {
	if c.off+1 > len(c.b) {
		return 0, fmt.Errorf("truncated at offset %d", c.off)
	}
	v := c.b[c.off]
	c.off++
	return v, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.off+2 > len(c.b) {
		return 0, fmt.Errorf("truncated at offset %d", c.off)
	}
	v := binary.BigEndian.Uint16(c.b[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) u4() (uint32, error) {
	if c.off+4 > len(c.b) {
		return 0, fmt.Errorf("truncated at offset %d", c.off)
	}
	v := binary.BigEndian.Uint32(c.b[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) skip(n int) error {
	if c.off+n > len(c.b) {
		return fmt.Errorf("truncated at offset %d", c.off)
	}
	c.off += n
	return nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.off+n > len(c.b) {
		return nil, fmt.Errorf("truncated at offset %d", c.off)
	}
	v := c.b[c.off : c.off+n]
	c.off += n
	return v, nil
}

// constPool holds the subset of the constant pool we resolve: Utf8 strings
// and Class name indices. Slots are 1-based per the format.
type constPool struct {
	utf8  map[uint16]string
	class map[uint16]uint16 // class slot -> utf8 slot
}

func (p *constPool) className(slot uint16) (string, error) {
	nameSlot, ok := p.class[slot]
	if !ok {
		return "", fmt.Errorf("constant pool slot %d is not a class", slot)
	}
	name, ok := p.utf8[nameSlot]
	if !ok {
		return "", fmt.Errorf("constant pool slot %d has no utf8 name", slot)
	}
	return name, nil
}

func (p *constPool) utf8At(slot uint16) (string, error) {
	s, ok := p.utf8[slot]
	if !ok {
		return "", fmt.Errorf("constant pool slot %d is not utf8", slot)
	}
	return s, nil
}

func parseConstPool(c *cursor, count uint16) (*constPool, error) {
	pool := &constPool{
		utf8:  make(map[uint16]string),
		class: make(map[uint16]uint16),
	}
	// Slots run 1..count-1; longs and doubles occupy two slots.
	for slot := uint16(1); slot < count; slot++ {
		tag, err := c.u1()
		if err != nil {
			return nil, err
		}
		switch tag {
		case 1: // Utf8
			n, err := c.u2()
			if err != nil {
				return nil, err
			}
			raw, err := c.bytes(int(n))
			if err != nil {
				return nil, err
			}
			pool.utf8[slot] = string(raw)
		case 7: // Class
			nameSlot, err := c.u2()
			if err != nil {
				return nil, err
			}
			pool.class[slot] = nameSlot
		case 3, 4: // Integer, Float
			if err := c.skip(4); err != nil {
				return nil, err
			}
		case 5, 6: // Long, Double: 8 bytes and an extra slot
			if err := c.skip(8); err != nil {
				return nil, err
			}
			slot++
		case 8, 16, 19, 20: // String, MethodType, Module, Package
			if err := c.skip(2); err != nil {
				return nil, err
			}
		case 15: // MethodHandle
			if err := c.skip(3); err != nil {
				return nil, err
			}
		case 9, 10, 11, 12, 17, 18: // refs, NameAndType, Dynamic
			if err := c.skip(4); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at slot %d", tag, slot)
		}
	}
	return pool, nil
}

func parseMembers(c *cursor, pool *constPool) ([]Member, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, count)
	for i := uint16(0); i < count; i++ {
		access, err := c.u2()
		if err != nil {
			return nil, err
		}
		nameSlot, err := c.u2()
		if err != nil {
			return nil, err
		}
		descSlot, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := pool.utf8At(nameSlot)
		if err != nil {
			return nil, err
		}
		desc, err := pool.utf8At(descSlot)
		if err != nil {
			return nil, err
		}
		if err := skipAttributes(c); err != nil {
			return nil, err
		}
		members = append(members, Member{Name: name, Descriptor: desc, Access: access})
	}
	return members, nil
}

func skipAttributes(c *cursor) error {
	count, err := c.u2()
	if err != nil {
		return err
	}
	for i := uint16(0); i < count; i++ {
		if err := c.skip(2); err != nil { // attribute name slot
			return err
		}
		length, err := c.u4()
		if err != nil {
			return err
		}
		if err := c.skip(int(length)); err != nil {
			return err
		}
	}
	return nil
}

func parse(data []byte) (*ClassInfo, error) {
	c := &cursor{b: data}

	m, err := c.u4()
	if err != nil {
		return nil, err
	}
	if m != magic {
		return nil, fmt.Errorf("bad magic 0x%08X", m)
	}
	if err := c.skip(4); err != nil { // minor, major version
		return nil, err
	}

	poolCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	pool, err := parseConstPool(c, poolCount)
	if err != nil {
		return nil, err
	}

	access, err := c.u2()
	if err != nil {
		return nil, err
	}
	thisSlot, err := c.u2()
	if err != nil {
		return nil, err
	}
	name, err := pool.className(thisSlot)
	if err != nil {
		return nil, err
	}

	superSlot, err := c.u2()
	if err != nil {
		return nil, err
	}
	var superName string
	if superSlot != 0 { // java/lang/Object has no super class
		superName, err = pool.className(superSlot)
		if err != nil {
			return nil, err
		}
	}

	ifaceCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := uint16(0); i < ifaceCount; i++ {
		slot, err := c.u2()
		if err != nil {
			return nil, err
		}
		iface, err := pool.className(slot)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, iface)
	}

	fields, err := parseMembers(c, pool)
	if err != nil {
		return nil, err
	}
	methods, err := parseMembers(c, pool)
	if err != nil {
		return nil, err
	}
	if err := skipAttributes(c); err != nil {
		return nil, err
	}

	return &ClassInfo{
		Name:       name,
		Access:     access,
		SuperName:  superName,
		Interfaces: interfaces,
		Fields:     fields,
		Methods:    methods,
	}, nil
}
