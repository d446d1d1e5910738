package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders an Entity the way original_source/src/entity.h's
// dissemble() does: one line per instruction followed by the constant,
// name and type pools. Used by the CLI's -b flag.
func Disassemble(e *Entity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ENTITY %q:\n", e.Title)

	op := 0
	for ip, co := range e.Codes {
		n := OperandCount[co]
		switch n {
		case 0:
			fmt.Fprintf(&sb, "%20d: %s\n", ip, co)
		case 1:
			fmt.Fprintf(&sb, "%20d: %-8s %6d\n", ip, co, e.Offsets[op])
			op++
		case 2:
			fmt.Fprintf(&sb, "%20d: %-8s %6d %6d\n", ip, co, e.Offsets[op], e.Offsets[op+1])
			op += 2
		}
	}

	sb.WriteString("CONSTANT:\n")
	if len(e.Constants) == 0 {
		sb.WriteString("               EMPTY\n")
	} else {
		for i, c := range e.Constants {
			fmt.Fprintf(&sb, "%20d: %v\n", i, c)
		}
	}

	sb.WriteString("NAME:\n")
	if len(e.Names) == 0 {
		sb.WriteString("               EMPTY\n")
	} else {
		for i, n := range e.Names {
			fmt.Fprintf(&sb, "%20d: %q\n", i, n)
		}
	}

	sb.WriteString("TYPE:\n")
	if len(e.Types) == 0 {
		sb.WriteString("               EMPTY\n")
	} else {
		for i, t := range e.Types {
			fmt.Fprintf(&sb, "%20d: %s\n", i, t)
		}
	}
	return sb.String()
}
