package disasm

import (
	"fmt"
	"strings"

	"tlog.app/go/tlog"
)

// Result is the complete output of decompiling one module: the
// rendered function bodies plus a reflection per entry point.
type Result struct {
	Module      *Module
	Banner      string
	Functions   map[ID]string // keyed by OpFunction result-id
	Signatures  map[ID]string // declaration line for each function, same keys as Functions
	Names       map[ID]string // bare function name, same keys as Functions
	Reflections []*Reflection
}

// Banner renders the module's header comment block: source language and
// version (if declared), any source extensions, the generator name
// (looked up in the known-generator table, falling back to raw hex),
// and the capability list, ahead of anything else in the output.
func Banner(m *Module) string {
	var b strings.Builder
	if m.SourceLang != SourceLanguageUnknown {
		fmt.Fprintf(&b, "// source: %s %d\n", m.SourceLang.String(), m.SourceVersion)
	}
	for _, ext := range m.SourceExts {
		fmt.Fprintf(&b, "// extension: %s\n", ext)
	}
	fmt.Fprintf(&b, "// generator: %s\n", GeneratorName(m.Generator))
	for _, c := range m.Capabilities {
		fmt.Fprintf(&b, "// capability: %s\n", c.String())
	}
	return b.String()
}

// Decompile runs the full pipeline over a parsed module: the inliner
// (E) over every function, then the control-flow rebuilder (F) driving
// the expression disassembler (D) to produce text, then reflection (G)
// per entry point. Parse errors collected on m.Errors are logged but do
// not stop decompilation; per §7 only a malformed header is fatal, and
// that already failed inside Parse.
func Decompile(m *Module) *Result {
	for _, e := range m.Errors {
		logSpan("spirv.decompile", e)
	}

	tlog.Printw("decompile", "functions", len(m.Funcs), "entries", len(m.Entries), "errors", len(m.Errors))

	d := NewDisassembler(m)
	types := newTypeNameCache(m)
	res := &Result{
		Module:     m,
		Banner:     Banner(m),
		Functions:  make(map[ID]string),
		Signatures: make(map[ID]string),
		Names:      make(map[ID]string),
	}

	for _, fn := range m.Funcs {
		RunInliner(m, fn)
		res.Functions[fn.ID] = BuildFunction(m, fn, d)
		res.Names[fn.ID] = functionName(m, fn)
		res.Signatures[fn.ID] = functionSignature(m, fn, types)
	}

	for _, ep := range m.Entries {
		res.Reflections = append(res.Reflections, Reflect(m, ep, types))
	}

	return res
}

// functionName resolves the bare source-level name of fn, falling back to
// its default {<id>} form when the module carries no OpName for it.
func functionName(m *Module, fn *Function) string {
	nameInst, _ := m.GetByID(fn.ID)
	name := DefaultIDName(uint32(fn.ID))
	if nameInst != nil {
		name = nameInst.IDName()
	}
	return name
}

// functionSignature renders a function's declaration line: return type,
// name, and parameter list, for use as a header above its body text.
func functionSignature(m *Module, fn *Function, types *typeNameCache) string {
	name := functionName(m, fn)
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		op, ok := p.Payload.(*Operation)
		paramType := "?"
		if ok {
			paramType = types.TypeName(op.ResultType)
		}
		params[i] = fmt.Sprintf("%s %s", paramType, p.IDName())
	}
	return fmt.Sprintf("%s %s(%s)%s", types.TypeName(fn.ReturnType), name, strings.Join(params, ", "), FunctionControlString(fn.Control))
}
