package zip

import "fmt"

// Method identifies a member's compression method.
type Method uint16

const (
	Stored  Method = 0
	Deflate Method = 8
)

func (m Method) String() string {
	switch m {
	case Stored:
		return "stored"
	case Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}

// detectMethod maps a raw compression field to a Method, failing for
// anything other than Stored or Deflate.
func detectMethod(raw uint16) (Method, error) {
	switch Method(raw) {
	case Stored, Deflate:
		return Method(raw), nil
	default:
		return 0, fmt.Errorf("%w: method %d", ErrUnsupportedMethod, raw)
	}
}

// OS identifies the platform that produced a member's external attributes,
// taken from the high byte of a CDFH's made-by version field.
type OS int

const (
	OSDOS OS = iota
	OSUnix
	OSUnknown
)

func (o OS) String() string {
	switch o {
	case OSDOS:
		return "dos"
	case OSUnix:
		return "unix"
	default:
		return "unknown"
	}
}

func detectOS(madeByHi byte) OS {
	switch madeByHi {
	case 0:
		return OSDOS
	case 3:
		return OSUnix
	default:
		return OSUnknown
	}
}

// DateTime is a DOS-resolution modification timestamp decoded from a
// member's packed mod_date/mod_time fields.
type DateTime struct {
	Second int // 0-58, even (2s resolution), clamped from a raw 0-60
	Minute int // 0-59
	Hour   int // 0-23
	Day    int // 1-31
	Month  int // 0-11
	Year   int // 1980-2107
}

// isLeapYear reproduces the leap-year variant this core has always used:
// (y%4==0) && (y%25!=0 || y%16==0). Over the representable DOS year range
// (1980-2107) this is equal to the Gregorian rule for every year, since
// y%25==0 iff y%100==0 whenever y%4==0, and y%16==0 iff y%400==0 whenever
// y%100==0; it is kept in this form to match the archives produced against
// it rather than rewritten to the more familiar %100/%400 spelling.
func isLeapYear(y int) bool {
	return y%4 == 0 && (y%25 != 0 || y%16 == 0)
}

var daysInMonthTable = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// daysInMonth takes a 0-11 month.
func daysInMonth(y, m int) int {
	if m == 1 && isLeapYear(y) {
		return 29
	}
	return daysInMonthTable[m]
}

// dateTimeFromDOS decodes a packed DOS date/time pair into a DateTime,
// validating every field.
//
// The hour lower bound follows the relaxed 0-23 range rather than the
// historical 1-23 range, which rejected midnight outright; see DESIGN.md.
func dateTimeFromDOS(dosTime, dosDate uint16) (DateTime, error) {
	second := int(dosTime&0x1f) * 2
	minute := int(dosTime>>5) & 0x3f
	hour := int(dosTime >> 11)

	day := int(dosDate & 0x1f)
	month := int(dosDate>>5&0xf) - 1
	year := int(dosDate>>9) + 1980

	switch {
	case year < 1980 || year > 2107:
		return DateTime{}, fmt.Errorf("%w: year %d", ErrDateTimeRange, year)
	case month < 0 || month > 11:
		return DateTime{}, fmt.Errorf("%w: month %d", ErrDateTimeRange, month+1)
	case day < 1 || day > daysInMonth(year, month):
		return DateTime{}, fmt.Errorf("%w: day %d", ErrDateTimeRange, day)
	case hour < 0 || hour > 23:
		return DateTime{}, fmt.Errorf("%w: hour %d", ErrDateTimeRange, hour)
	case minute > 59:
		return DateTime{}, fmt.Errorf("%w: minute %d", ErrDateTimeRange, minute)
	case second > 60:
		return DateTime{}, fmt.Errorf("%w: second %d", ErrDateTimeRange, second)
	}

	if second > 58 {
		second = 58
	}

	return DateTime{
		Second: second,
		Minute: minute,
		Hour:   hour,
		Day:    day,
		Month:  month,
		Year:   year,
	}, nil
}

// Entry describes one member of an archive, built once from its central
// directory file header during Open and immutable thereafter.
type Entry struct {
	Name       string
	Comment    string
	Extra      []byte
	CompSize   uint32
	UncompSize uint32
	CRC32      uint32
	Method     Method
	Modified   DateTime
	OS         OS
	MadeByVer  byte // low byte of made_by_ver
	ExtAttrs   uint32
	LFHOffset  int64
	CDOffset   int64
	IsDir      bool
	GPFlag     uint16
}

// newEntry builds an Entry from a decoded CDFH and the absolute offset of
// its signature within the source.
func newEntry(h cdfhRecord, name, comment string, extra []byte, cdOffset int64) (Entry, error) {
	if h.GPFlag&dataDescriptorFlag != 0 && h.CompSize == 0 && h.UncompSize == 0 {
		return Entry{}, fmt.Errorf("%w: data descriptors are not supported", ErrUnsupportedMethod)
	}

	method, err := detectMethod(h.Method)
	if err != nil {
		return Entry{}, err
	}

	modified, err := dateTimeFromDOS(h.ModTime, h.ModDate)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:       name,
		Comment:    comment,
		Extra:      extra,
		CompSize:   h.CompSize,
		UncompSize: h.UncompSize,
		CRC32:      h.CRC32,
		Method:     method,
		Modified:   modified,
		OS:         detectOS(byte(h.MadeByVer >> 8)),
		MadeByVer:  byte(h.MadeByVer),
		ExtAttrs:   h.ExtAttrs,
		LFHOffset:  int64(h.LFHOffset),
		CDOffset:   cdOffset,
		IsDir:      h.ExtAttrs&0x10 != 0,
		GPFlag:     h.GPFlag,
	}, nil
}
