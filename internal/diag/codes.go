package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// информационные
	ModelInfo          Code = 1000
	ModelSourceMissing Code = 1001
	ModelKnownEvicted  Code = 1002

	// предупреждения модели
	ModelWarning           Code = 2000
	ModelForcedInclusion   Code = 2001
	ModelValueWithSiblings Code = 2002

	// заметки о неподдерживаемых конструкциях
	ModelUnsupportedUsage Code = 3001

	// фатальные ошибки, пришедшие из обхода
	ModelConfigError Code = 4001
	ModelIncomplete  Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		ModelInfo:              "Model information",
		ModelSourceMissing:     "Source position not found",
		ModelKnownEvicted:      "Known type redefined by mixin",
		ModelWarning:           "Model warning",
		ModelForcedInclusion:   "Excluded type included by reference",
		ModelValueWithSiblings: "Value accessor next to structural members",
		ModelUnsupportedUsage:  "Unsupported type usage",
		ModelConfigError:       "Configuration error",
		ModelIncomplete:        "Incomplete program model",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("INF%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("WRN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("UNS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ERR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
