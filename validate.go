package diffchunk

import "fmt"

// ValidateOpcodes checks that opcodes cover [0,lenA) and [0,lenB)
// contiguously and that every opcode has the shape its tag requires. It
// returns an error wrapping ErrInvalidOpcodes on the first violation.
func ValidateOpcodes(opcodes []Opcode, lenA, lenB int) error {
	i, j := 0, 0
	for n, op := range opcodes {
		if op.I1 != i || op.J1 != j {
			return fmt.Errorf("%w: opcode[%d] %s does not start at (%d, %d)", ErrInvalidOpcodes, n, op, i, j)
		}
		if op.I2 < op.I1 || op.J2 < op.J1 {
			return fmt.Errorf("%w: opcode[%d] %s has a negative range", ErrInvalidOpcodes, n, op)
		}
		switch op.Tag {
		case TagEqual, TagReplace:
			if op.OldLen() != op.NewLen() {
				return fmt.Errorf("%w: opcode[%d] %s has unequal sides", ErrInvalidOpcodes, n, op)
			}
		case TagInsert:
			if op.I1 != op.I2 {
				return fmt.Errorf("%w: opcode[%d] %s inserts with old lines", ErrInvalidOpcodes, n, op)
			}
		case TagDelete:
			if op.J1 != op.J2 {
				return fmt.Errorf("%w: opcode[%d] %s deletes with new lines", ErrInvalidOpcodes, n, op)
			}
		case TagFilteredEqual:
		default:
			return fmt.Errorf("%w: opcode[%d] has unknown tag %d", ErrInvalidOpcodes, n, int(op.Tag))
		}
		i, j = op.I2, op.J2
	}
	if i != lenA || j != lenB {
		return fmt.Errorf("%w: opcodes end at (%d, %d), want (%d, %d)", ErrInvalidOpcodes, i, j, lenA, lenB)
	}
	return nil
}
