// spvdis decompiles SPIR-V binary modules into readable pseudocode and
// prints their shader-interface reflection.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"nikand.dev/go/cli"

	"github.com/gogpu/spvdis"
	"github.com/gogpu/spvdis/config"
	"github.com/gogpu/spvdis/disasm"
	"github.com/gogpu/spvdis/spirv"
)

var (
	infoColor = pterm.FgLightGreen
	warnColor = pterm.FgYellow
)

func main() {
	disassembleCmd := &cli.Command{
		Name:        "disassemble",
		Description: "print decompiled function bodies for each .spv file given",
		Action:      disassembleAct,
		Args:        cli.Args{},
	}

	reflectCmd := &cli.Command{
		Name:        "reflect",
		Description: "print the shader-interface reflection table for each .spv file given",
		Action:      reflectAct,
		Args:        cli.Args{},
	}

	emitSampleCmd := &cli.Command{
		Name:        "emit-sample",
		Description: "write a built-in pass-through fragment shader .spv, to a path or stdout",
		Action:      emitSampleAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "spvdis",
		Description: "spvdis decompiles SPIR-V binaries into pseudo-C and shader-interface reflection",
		Commands: []*cli.Command{
			disassembleCmd,
			reflectCmd,
			emitSampleCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func disassembleAct(c *cli.Command) error {
	for _, path := range c.Args {
		result, cfg, err := decompileFile(path)
		if err != nil {
			return err
		}

		if cfg.Output.ShowBanner && result.Banner != "" {
			infoColor.Print(result.Banner)
		}
		for _, fn := range result.Module.Funcs {
			fmt.Println(result.Signatures[fn.ID] + " {")
			if body := result.Functions[fn.ID]; body != "" {
				fmt.Print(body)
			}
			fmt.Printf("} // %s\n", result.Names[fn.ID])
		}
	}
	return nil
}

func reflectAct(c *cli.Command) error {
	for _, path := range c.Args {
		result, _, err := decompileFile(path)
		if err != nil {
			return err
		}
		printReflections(result)
	}
	return nil
}

// emitSampleAct writes buildSampleModule's binary to the path in c.Args[0],
// or to stdout if no path is given, for exercising the rest of the tool
// (and for anyone who wants a starting .spv without a real shader compiler
// on hand).
func emitSampleAct(c *cli.Command) error {
	raw := buildSampleModule()

	if len(c.Args) == 0 {
		_, err := os.Stdout.Write(raw)
		return err
	}
	path := c.Args[0]
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	infoColor.Printf("wrote %d bytes to %s\n", len(raw), path)
	return nil
}

// buildSampleModule assembles a minimal pass-through fragment shader:
//
//	layout(location = 0) in vec4 in_color;
//	layout(location = 0) out vec4 out_color;
//	void main() { out_color = in_color; }
//
// enough surface to exercise disassembly (a load and a store) and
// reflection (one Location-bound input, one Location-bound output) on a
// binary this tool built itself.
func buildSampleModule() []byte {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	floatTy := b.AddTypeFloat(32)
	vec4Ty := b.AddTypeVector(floatTy, 4)
	ptrIn := b.AddTypePointer(spirv.StorageClassInput, vec4Ty)
	ptrOut := b.AddTypePointer(spirv.StorageClassOutput, vec4Ty)
	voidTy := b.AddTypeVoid()
	fnTy := b.AddTypeFunction(voidTy)

	inColor := b.AddVariable(ptrIn, spirv.StorageClassInput)
	b.AddName(inColor, "in_color")
	b.AddDecorate(inColor, spirv.DecorationLocation, 0)

	outColor := b.AddVariable(ptrOut, spirv.StorageClassOutput)
	b.AddName(outColor, "out_color")
	b.AddDecorate(outColor, spirv.DecorationLocation, 0)

	fn := b.AddFunction(fnTy, voidTy, spirv.FunctionControl(0))
	b.AddName(fn, "main")
	b.AddLabel()
	loaded := b.AddLoad(vec4Ty, inColor)
	b.AddStore(outColor, loaded)
	b.AddReturn()
	b.AddFunctionEnd()

	b.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{inColor, outColor})

	return b.Build()
}

// decompileFile loads path's config overrides (spvdis.toml next to the
// binary, if present) and decompiles the binary at path.
func decompileFile(path string) (*disasm.Result, *config.Config, error) {
	cfg, err := config.LoadDefault(filepath.Dir(path))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config for %s: %w", path, err)
	}

	words, err := spvdis.ReadWords(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	opts := spvdis.DecompileOptions{
		NoInlineComplexity:    cfg.Inliner.NoInlineComplexity,
		CompositeConstructCap: cfg.Inliner.CompositeConstructCap,
	}
	if cfg.Inliner.Disabled {
		opts.NoInlineComplexity = 0
	}

	result, err := spvdis.DecompileWithOptions(words, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("decompiling %s: %w", path, err)
	}

	for _, e := range result.Module.Errors {
		fmt.Fprintln(os.Stderr, warnColor.Sprintf("%s: %s", path, e.Error()))
	}

	return result, cfg, nil
}

func printReflections(result *disasm.Result) {
	for _, refl := range result.Reflections {
		header := fmt.Sprintf("entry point %q (%s)", refl.EntryPoint, refl.Model.String())
		pterm.DefaultSection.Println(header)

		printSignatureTable("Inputs", refl.Inputs)
		printSignatureTable("Outputs", refl.Outputs)
		printResourceTable(refl.Resources)
		printConstantBlockTable(refl.ConstantBlocks)
	}
}

func printSignatureTable(title string, sigs []disasm.Signature) {
	if len(sigs) == 0 {
		return
	}
	rows := [][]string{{"Name", "Type", "Location", "Register", "BuiltIn"}}
	for _, s := range sigs {
		builtin := ""
		if s.IsSystem {
			builtin = s.BuiltIn.String()
		}
		rows = append(rows, []string{s.Name, s.Type, fmt.Sprint(s.Location), fmt.Sprint(s.Register), builtin})
	}
	renderTable(title, rows)
}

func printResourceTable(resources []disasm.Resource) {
	if len(resources) == 0 {
		return
	}
	rows := [][]string{{"Name", "Type", "Set", "Binding", "StorageClass"}}
	for _, r := range resources {
		binding := "-"
		if r.HasBinding {
			binding = fmt.Sprint(r.Binding)
		}
		rows = append(rows, []string{r.Name, r.Type, fmt.Sprint(r.DescriptorSet), binding, r.StorageClass.String()})
	}
	renderTable("Resources", rows)
}

func printConstantBlockTable(blocks []disasm.ConstantBlock) {
	if len(blocks) == 0 {
		return
	}
	rows := [][]string{{"Name", "Type", "Size", "Member", "MemberType", "RowMajor"}}
	for _, b := range blocks {
		if len(b.Members) == 0 {
			rows = append(rows, []string{b.Name, b.Type, fmt.Sprintf("%d words", b.Size), "-", "-", "-"})
			continue
		}
		for i, mem := range b.Members {
			name, typ, size := "", "", ""
			if i == 0 {
				name, typ, size = b.Name, b.Type, fmt.Sprintf("%d words", b.Size)
			}
			rows = append(rows, []string{name, typ, size, mem.Name, mem.Type, fmt.Sprint(mem.RowMajor)})
		}
	}
	renderTable("Constant Blocks", rows)
}

func renderTable(title string, rows [][]string) {
	infoColor.Println(title + ":")
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		fmt.Fprintln(os.Stderr, warnColor.Sprintf("warning: rendering %s table: %v", strings.ToLower(title), err))
	}
	fmt.Println()
}
