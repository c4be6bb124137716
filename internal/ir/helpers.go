package ir

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func isFloatType(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

func isIntType(t types.Type) bool {
	_, ok := t.(*types.IntType)
	return ok
}

// toBool coerces an arithmetic value to the i1 LLVM represents C truth
// values with, comparing against the type's zero value.
func toBool(b *ir.Block, v value.Value) value.Value {
	t := v.Type()
	if it, ok := t.(*types.IntType); ok {
		if it.BitSize == 1 {
			return v
		}
		return b.NewICmp(enum.IPredNE, v, constant.NewInt(it, 0))
	}
	if ft, ok := t.(*types.FloatType); ok {
		return b.NewFCmp(enum.FPredONE, v, constant.NewFloat(ft, 0))
	}
	if pt, ok := t.(*types.PointerType); ok {
		return b.NewICmp(enum.IPredNE, v, constant.NewNull(pt))
	}
	return v
}

// coerce widens/narrows v to target where the two differ only in integer
// width or int-vs-float family, matching the usual arithmetic conversions
// of the reduced type set. Equal types pass through unchanged.
func coerce(b *ir.Block, v value.Value, target types.Type) value.Value {
	src := v.Type()
	if src.Equal(target) {
		return v
	}
	switch t := target.(type) {
	case *types.IntType:
		if st, ok := src.(*types.IntType); ok {
			if st.BitSize < t.BitSize {
				return b.NewSExt(v, t)
			}
			return b.NewTrunc(v, t)
		}
		if isFloatType(src) {
			return b.NewFPToSI(v, t)
		}
	case *types.FloatType:
		if isIntType(src) {
			return b.NewSIToFP(v, t)
		}
	}
	return v
}

// boolToInt zero-extends an i1 comparison result to the C int truth value
// LLVM represents comparisons as in this core.
func boolToInt(b *ir.Block, v value.Value) value.Value {
	return b.NewZExt(v, types.I32)
}
