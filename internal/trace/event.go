package trace

import (
	"strconv"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1 // span start
	KindEnd                   // span end, carries Dur
	KindPoint                 // instant event
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	// ScopeCommand covers one CLI command, e.g. a whole tokenize run.
	ScopeCommand Scope = iota + 1
	// ScopeFile covers lexing a single source file.
	ScopeFile
	// ScopeCache covers token cache lookups and stores.
	ScopeCache
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeFile:
		return "file"
	case ScopeCache:
		return "cache"
	default:
		return "unknown"
	}
}

// Attr is one key/value pair attached to an event. Order is preserved.
type Attr struct {
	Key   string
	Value string
}

// String builds a string attribute.
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Int builds an integer attribute.
func Int(key string, value int) Attr { return Attr{Key: key, Value: strconv.Itoa(value)} }

// Bool builds a boolean attribute.
func Bool(key string, value bool) Attr { return Attr{Key: key, Value: strconv.FormatBool(value)} }

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // zero for points
	ParentID uint64 // zero at the root
	Name     string
	Detail   string
	Dur      time.Duration // set on KindEnd
	Attrs    []Attr
}
