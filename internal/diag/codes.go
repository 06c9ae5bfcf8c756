package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Grammar model (front end hand-off)
	ModInfo             Code = 1000
	ModParseError       Code = 1001
	ModUnknownSymbol    Code = 1002
	ModDuplicateSymbol  Code = 1003
	ModDuplicateStack   Code = 1004
	ModSpecialSymbol    Code = 1005 // more than one accept/eof symbol, or both flags on one
	ModBadRule          Code = 1006
	ModBadRhsPosition   Code = 1007
	ModUnknownPrinterTo Code = 1008
	ModBadStack         Code = 1009

	// Code generation
	GenInfo                  Code = 2000
	GenInvalidReference      Code = 2001
	GenUnknownStack          Code = 2002
	GenDuplicateEnumName     Code = 2003
	GenUnrecognizedReference Code = 2004 // strict mode only

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Project manifest
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	ModInfo:                  "Grammar model information",
	ModParseError:            "Malformed grammar model",
	ModUnknownSymbol:         "Reference to undeclared symbol",
	ModDuplicateSymbol:       "Duplicate symbol",
	ModDuplicateStack:        "Duplicate stack declaration",
	ModSpecialSymbol:         "Invalid accept/eof symbol flags",
	ModBadRule:               "Malformed rule",
	ModBadRhsPosition:        "Invalid right-hand side position",
	ModUnknownPrinterTo:      "Printer target does not match any symbol or tag",
	ModBadStack:              "Invalid stack declaration",
	GenInfo:                  "Code generation information",
	GenInvalidReference:      "Invalid reference in action code",
	GenUnknownStack:          "Reference to undeclared stack",
	GenDuplicateEnumName:     "Duplicate symbol enum name",
	GenUnrecognizedReference: "Unrecognized reference in action code",
	IOLoadFileError:          "Failed to load file",
	IOWriteFileError:         "Failed to write file",
	IOCacheError:             "Generation cache error",
	ProjInfo:                 "Project information",
	ProjInvalidManifest:      "Invalid lrgen.toml",
	ObsInfo:                  "Observability information",
	ObsTimings:               "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
