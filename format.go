package strtables

import (
	"iter"
	"strings"
)

// SegmentKind tells literal text apart from conversions.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentSpecifier
	SegmentReference
)

// Segment is one piece of a format string in textual order.
type Segment struct {
	Kind SegmentKind
	// Text is the raw source text of the segment, "%%" included verbatim.
	Text string
	Type SpecType
	// Reference is the plural-rule name of a %#@name@ token.
	Reference string
	// Position is the explicit n of a %n$ conversion, 0 when sequential.
	Position int
}

// maxPosition bounds explicit %n$ positions.
const maxPosition = 256

var conversionTypes = map[byte]SpecType{
	'@': SpecObject,
	'd': SpecInt, 'D': SpecInt, 'i': SpecInt,
	'u': SpecUInt, 'U': SpecUInt, 'o': SpecUInt, 'O': SpecUInt, 'x': SpecUInt, 'X': SpecUInt,
	'f': SpecDouble, 'F': SpecDouble, 'e': SpecDouble, 'E': SpecDouble,
	'g': SpecDouble, 'G': SpecDouble, 'a': SpecDouble, 'A': SpecDouble,
	'c': SpecCharacter, 'C': SpecCharacter,
	's': SpecCString, 'S': SpecCString,
	'p': SpecPointer,
}

var lengthModifiers = []string{"hh", "ll", "h", "l", "q", "L", "z", "t", "j"}

// Scan lazily splits format into literal text, specifiers and plural-rule
// references. A '%' that does not start a known conversion stays literal.
func Scan(format string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		literalStart := 0
		i := 0
		for i < len(format) {
			if format[i] != '%' {
				i++
				continue
			}
			if i+1 < len(format) && format[i+1] == '%' {
				i += 2
				continue
			}
			seg, width, ok := scanConversion(format[i:])
			if !ok {
				i++
				continue
			}
			if literalStart < i {
				if !yield(Segment{Kind: SegmentLiteral, Text: format[literalStart:i]}) {
					return
				}
			}
			if !yield(seg) {
				return
			}
			i += width
			literalStart = i
		}
		if literalStart < len(format) {
			yield(Segment{Kind: SegmentLiteral, Text: format[literalStart:]})
		}
	}
}

// scanConversion parses one conversion at the start of s, which begins with '%'.
func scanConversion(s string) (Segment, int, bool) {
	i := 1
	position, unsupported := 0, false

	if n, width := scanDigits(s[i:]); width > 0 && i+width < len(s) && s[i+width] == '$' {
		if n == 0 {
			return Segment{}, 0, false
		}
		if n > maxPosition {
			unsupported = true
		} else {
			position = n
		}
		i += width + 1
	}

	if strings.HasPrefix(s[i:], "#@") {
		end := strings.IndexByte(s[i+2:], '@')
		if end <= 0 {
			return Segment{}, 0, false
		}
		name := s[i+2 : i+2+end]
		width := i + 2 + end + 1
		return Segment{Kind: SegmentReference, Text: s[:width], Reference: name, Position: position}, width, true
	}

	for i < len(s) && strings.IndexByte("-+#0'", s[i]) >= 0 {
		i++
	}
	if i < len(s) && s[i] == '*' {
		unsupported = true
		i++
	} else {
		_, width := scanDigits(s[i:])
		i += width
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i < len(s) && s[i] == '*' {
			unsupported = true
			i++
		} else {
			_, width := scanDigits(s[i:])
			i += width
		}
	}
	for _, modifier := range lengthModifiers {
		if strings.HasPrefix(s[i:], modifier) {
			i += len(modifier)
			break
		}
	}
	if i >= len(s) {
		return Segment{}, 0, false
	}
	typ, ok := conversionTypes[s[i]]
	if !ok {
		return Segment{}, 0, false
	}
	i++
	if unsupported {
		typ, position = SpecAmbiguous, 0
	}
	return Segment{Kind: SegmentSpecifier, Text: s[:i], Type: typ, Position: position}, i, true
}

func scanDigits(s string) (int, int) {
	n, i := 0, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n <= maxPosition {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	return n, i
}

// FormatPart is a conversion placed at its argument position: either a typed
// specifier or a reference to a plural rule.
type FormatPart struct {
	Spec      Specifier
	Reference string
}

// IsReference reports whether the part is a %#@name@ token.
func (p FormatPart) IsReference() bool {
	return p.Reference != ""
}

var ambiguousPart = FormatPart{Spec: Specifier{Type: SpecAmbiguous}}

// FormatParts orders the conversions of format by argument position.
// Positions nobody claims, positions claimed by two different conversions and
// sequential conversions in a string that also uses %n$ all come back as
// SpecAmbiguous specifiers. A string with more than maxPosition conversions
// ends in one.
func FormatParts(format string) []FormatPart {
	byPosition := make(map[int]FormatPart)
	sequentialAt := make(map[int]struct{})
	next, last := 1, 0
	positional, overflow := false, false

	for seg := range Scan(format) {
		var part FormatPart
		switch seg.Kind {
		case SegmentSpecifier:
			part = FormatPart{Spec: Specifier{Type: seg.Type}}
		case SegmentReference:
			part = FormatPart{Reference: seg.Reference}
		default:
			continue
		}

		position := seg.Position
		if position == 0 {
			position = next
			next++
			sequentialAt[position] = struct{}{}
		} else {
			positional = true
		}
		if position > maxPosition {
			overflow = true
			continue
		}

		if existing, ok := byPosition[position]; ok && existing != part {
			part = ambiguousPart
		}
		byPosition[position] = part
		if position > last {
			last = position
		}
	}

	if last == 0 {
		return nil
	}

	parts := make([]FormatPart, last)
	for position := 1; position <= last; position++ {
		part, ok := byPosition[position]
		if !ok {
			part = ambiguousPart
		}
		if _, seq := sequentialAt[position]; seq && positional {
			part = ambiguousPart
		}
		parts[position-1] = part
	}
	if overflow {
		parts[last-1] = ambiguousPart
	}
	return parts
}

// Specifiers extracts the ordered specifiers of a plain format string. A
// plural-rule reference cannot be resolved outside a stringsdict table and
// yields ErrNonSpecifierReference.
func Specifiers(format string) ([]Specifier, error) {
	parts := FormatParts(format)
	if len(parts) == 0 {
		return nil, nil
	}
	specs := make([]Specifier, 0, len(parts))
	for _, part := range parts {
		if part.IsReference() {
			return nil, ErrNonSpecifierReference
		}
		specs = append(specs, part.Spec)
	}
	return specs, nil
}

// parseValueType maps a declared value type such as "d", "lld" or "@" to a
// SpecType. Only the final conversion character is significant.
func parseValueType(raw string) (SpecType, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SpecAmbiguous, false
	}
	typ, ok := conversionTypes[raw[len(raw)-1]]
	return typ, ok
}
