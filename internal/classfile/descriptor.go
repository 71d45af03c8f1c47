package classfile

import (
	"fmt"
	"strings"
)

// MethodDescriptor splits a JVM method descriptor such as
// "(Ljava/lang/String;I)V" into its parameter descriptors and return
// descriptor.
func MethodDescriptor(desc string) (params []string, ret string, err error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "", fmt.Errorf("method descriptor %q: missing '('", desc)
	}
	rest := desc[1:]
	for !strings.HasPrefix(rest, ")") {
		p, tail, err := splitFieldDescriptor(rest)
		if err != nil {
			return nil, "", fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		params = append(params, p)
		rest = tail
	}
	ret = rest[1:]
	if _, tail, err := splitFieldDescriptor(ret); err != nil || tail != "" {
		return nil, "", fmt.Errorf("method descriptor %q: bad return type", desc)
	}
	return params, ret, nil
}

// splitFieldDescriptor consumes one field descriptor from the front of s.
func splitFieldDescriptor(s string) (desc, tail string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("empty descriptor")
	}
	switch s[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		return s[:1], s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated class descriptor %q", s)
		}
		return s[:end+1], s[end+1:], nil
	case '[':
		elem, tail, err := splitFieldDescriptor(s[1:])
		if err != nil {
			return "", "", err
		}
		return "[" + elem, tail, nil
	default:
		return "", "", fmt.Errorf("bad descriptor %q", s)
	}
}
