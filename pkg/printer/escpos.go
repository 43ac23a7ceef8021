// Package printer builds ESC/POS receipts and sends them to thermal printers.
package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size (GS !)
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters for font A.
const (
	Width58mm = 32
	Width80mm = 48
)

// codePagePC858 is the ESC t table number of PC858 (Latin-1 with the euro sign).
const codePagePC858 = 19

// Document builds an ESC/POS byte stream and, alongside it, the plain-text
// rendering of the same lines.
type Document struct {
	buf     bytes.Buffer
	preview strings.Builder
	width   int
	align   int
	enc     *encoding.Encoder
}

// NewDocument creates a document for the given character width (32 on 58mm paper, 48 on 80mm).
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{
		width: charWidth,
		enc:   encoding.ReplaceUnsupported(charmap.CodePage858.NewEncoder()),
	}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int { return d.width }

// Init resets the printer and selects the PC858 code page.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePagePC858})
	d.align = AlignLeft
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	d.preview.WriteByte('\n')
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.LineFeed()
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes one line. Lines longer than the paper wrap on word boundaries.
func (d *Document) Text(s string) *Document {
	for _, line := range Wrap(Printable(s), d.width) {
		d.writeLine(line)
	}
	return d
}

// TextF writes a formatted line.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width rule.
func (d *Document) Separator(char rune) *Document {
	d.writeLine(strings.Repeat(string(char), d.width))
	return d
}

// KeyValue prints a left-aligned key and a right-aligned value on the same line.
// A value that does not fit goes on its own right-aligned line.
func (d *Document) KeyValue(key, value string) *Document {
	key, value = Printable(key), Printable(value)
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		d.Text(key)
		d.writeLine(padLeft(value, d.width))
		return d
	}
	d.writeLine(key + strings.Repeat(" ", spaces) + value)
	return d
}

// ItemLine prints "2x Chemise" with the line total right-aligned. Long names are truncated.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	total = Printable(total)
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(total) - 1
	name = truncate(Printable(name), room)
	return d.KeyValue(prefix+name, total)
}

// Cut sends the full paper cut command.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Preview returns the text a customer would read on the printed ticket.
func (d *Document) Preview() string {
	return d.preview.String()
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.preview.Reset()
	d.Init()
	return d
}

func (d *Document) writeLine(line string) {
	encoded, err := d.enc.String(line)
	if err != nil {
		encoded = line
	}
	d.buf.WriteString(encoded)
	d.buf.WriteByte(LF)

	switch d.align {
	case AlignCenter:
		pad := (d.width - utf8.RuneCountInString(line)) / 2
		if pad > 0 {
			line = strings.Repeat(" ", pad) + line
		}
	case AlignRight:
		line = padLeft(line, d.width)
	}
	d.preview.WriteString(strings.TrimRight(line, " "))
	d.preview.WriteByte('\n')
}

// Printable replaces the no-break spaces used by money formatting, which thermal fonts lack.
func Printable(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

// Wrap splits s into lines of at most width runes, breaking on spaces when possible.
func Wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "."
}

func padLeft(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}
