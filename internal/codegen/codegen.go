// Package codegen is deliberately thin: it never lowers statement
// bodies. What it does own is the fixed list of rt_* extern runtime
// symbols the full code generator relies on, plus a top-level function
// signature declared for every SN function in a checked Module, built
// on github.com/llir/llvm.
package codegen

import (
	"sn/internal/ast"
	"sn/internal/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
)

// RuntimeSymbols is the fixed extern contract between generated code
// and the runtime library. Renaming any of these is a breaking change.
var RuntimeSymbols = []string{
	"rt_str_concat",
	"rt_print_long", "rt_print_double", "rt_print_char", "rt_print_string", "rt_print_bool",
	"rt_add_long", "rt_sub_long", "rt_mul_long", "rt_div_long", "rt_mod_long",
	"rt_eq_long", "rt_ne_long", "rt_lt_long", "rt_le_long", "rt_gt_long", "rt_ge_long",
	"rt_add_double", "rt_sub_double", "rt_mul_double", "rt_div_double",
	"rt_eq_double", "rt_ne_double", "rt_lt_double", "rt_le_double", "rt_gt_double", "rt_ge_double",
	"rt_neg_long", "rt_neg_double", "rt_not_bool",
	"rt_post_inc_long", "rt_post_dec_long",
	"rt_to_string_long", "rt_to_string_double", "rt_to_string_char", "rt_to_string_bool", "rt_to_string_string",
	"rt_eq_string", "rt_ne_string", "rt_lt_string", "rt_le_string", "rt_gt_string", "rt_ge_string",
	"rt_free_string",
}

// llType maps a checked SN Type to its LLVM representation. Arrays and
// functions are opaque pointers at this layer — CodeGen never needs
// their element shape, only a handle it can pass to the matching rt_*
// helper.
func llType(t *types.Type) irtypes.Type {
	if t == nil {
		return irtypes.I8Ptr
	}
	switch t.Kind {
	case types.Int:
		return irtypes.I32
	case types.Long:
		return irtypes.I64
	case types.Double:
		return irtypes.Double
	case types.Char:
		return irtypes.I8
	case types.Bool:
		return irtypes.I1
	case types.String, types.ArrayKind, types.Any, types.Nil:
		return irtypes.I8Ptr
	case types.Void:
		return irtypes.Void
	default:
		return irtypes.I8Ptr
	}
}

// rtSignature returns the parameter and return types used for each
// declared extern. Print/to_string take one value of the matching
// primitive kind; arithmetic/comparison helpers take two of the same
// kind; free_string takes a string pointer; concat takes two string
// pointers.
func rtSignature(name string) (params []irtypes.Type, ret irtypes.Type) {
	long, dbl, str, ch, b := irtypes.I64, irtypes.Double, irtypes.I8Ptr, irtypes.I8, irtypes.I1
	switch name {
	case "rt_str_concat":
		return []irtypes.Type{str, str}, str
	case "rt_print_long":
		return []irtypes.Type{long}, irtypes.Void
	case "rt_print_double":
		return []irtypes.Type{dbl}, irtypes.Void
	case "rt_print_char":
		return []irtypes.Type{ch}, irtypes.Void
	case "rt_print_string":
		return []irtypes.Type{str}, irtypes.Void
	case "rt_print_bool":
		return []irtypes.Type{b}, irtypes.Void
	case "rt_add_long", "rt_sub_long", "rt_mul_long", "rt_div_long", "rt_mod_long":
		return []irtypes.Type{long, long}, long
	case "rt_eq_long", "rt_ne_long", "rt_lt_long", "rt_le_long", "rt_gt_long", "rt_ge_long":
		return []irtypes.Type{long, long}, b
	case "rt_add_double", "rt_sub_double", "rt_mul_double", "rt_div_double":
		return []irtypes.Type{dbl, dbl}, dbl
	case "rt_eq_double", "rt_ne_double", "rt_lt_double", "rt_le_double", "rt_gt_double", "rt_ge_double":
		return []irtypes.Type{dbl, dbl}, b
	case "rt_neg_long":
		return []irtypes.Type{long}, long
	case "rt_neg_double":
		return []irtypes.Type{dbl}, dbl
	case "rt_not_bool":
		return []irtypes.Type{b}, b
	case "rt_post_inc_long", "rt_post_dec_long":
		return []irtypes.Type{long}, long
	case "rt_to_string_long":
		return []irtypes.Type{long}, str
	case "rt_to_string_double":
		return []irtypes.Type{dbl}, str
	case "rt_to_string_char":
		return []irtypes.Type{ch}, str
	case "rt_to_string_bool":
		return []irtypes.Type{b}, str
	case "rt_to_string_string":
		return []irtypes.Type{str}, str
	case "rt_eq_string", "rt_ne_string", "rt_lt_string", "rt_le_string", "rt_gt_string", "rt_ge_string":
		return []irtypes.Type{str, str}, b
	case "rt_free_string":
		return []irtypes.Type{str}, irtypes.Void
	default:
		return nil, irtypes.Void
	}
}

// Module wraps the generated LLVM module plus the functions it
// declared, so callers (tests, a future real backend) can inspect
// what was emitted.
type Module struct {
	IR        *ir.Module
	RtExterns map[string]*ir.Func
	SNFuncs   map[string]*ir.Func
}

// Generate builds an LLVM module declaring every RuntimeSymbols extern
// plus a matching external declaration for each top-level SN function
// in mod. It never emits a function body.
func Generate(mod *ast.Module) *Module {
	m := ir.NewModule()
	out := &Module{IR: m, RtExterns: map[string]*ir.Func{}, SNFuncs: map[string]*ir.Func{}}

	for _, name := range RuntimeSymbols {
		params, ret := rtSignature(name)
		fn := declareExtern(m, name, params, ret)
		out.RtExterns[name] = fn
	}

	for _, stmt := range mod.Statements {
		fnDecl, ok := stmt.(*ast.Function)
		if !ok {
			continue
		}
		params := make([]irtypes.Type, len(fnDecl.Params))
		for i, p := range fnDecl.Params {
			params[i] = llType(p.Type)
		}
		fn := declareExtern(m, fnDecl.Name.Lexeme, params, llType(fnDecl.ReturnType))
		out.SNFuncs[fnDecl.Name.Lexeme] = fn
	}

	return out
}

func declareExtern(m *ir.Module, name string, params []irtypes.Type, ret irtypes.Type) *ir.Func {
	ps := make([]*ir.Param, len(params))
	for i, p := range params {
		ps[i] = ir.NewParam("", p)
	}
	fn := m.NewFunc(name, ret, ps...)
	fn.Linkage = enum.LinkageExternal
	return fn
}
