package diag

import "fmt"

// Code identifies a diagnostic kind. The thousands digit selects the family
// and its ID prefix.
type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownToken             Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexInvalidInteger           Code = 1004
	LexUnterminatedRawString    Code = 1006

	IOReadFailure  Code = 4001
	IOCacheFailure Code = 4002

	ProjManifestInvalid Code = 5001

	ObsTimings Code = 6001
)

var codeTitles = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownToken:             "Unknown token",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexInvalidInteger:           "Invalid integer",
	LexUnterminatedRawString:    "Unterminated raw string",
	IOReadFailure:               "Failed to read source",
	IOCacheFailure:              "Token cache failure",
	ProjManifestInvalid:         "Invalid osta.toml",
	ObsTimings:                  "Timings",
}

var familyPrefix = map[int]string{1: "LEX", 4: "IO", 5: "PRJ", 6: "OBS"}

// ID is the stable external name, e.g. LEX1001. Unknown families map to E0000.
func (c Code) ID() string {
	if prefix, ok := familyPrefix[int(c)/1000]; ok {
		return fmt.Sprintf("%s%04d", prefix, int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	if title, ok := codeTitles[c]; ok {
		return title
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
