package main

import (
	"fmt"
	"os"

	"vmasm/pkg/addons"
	"vmasm/pkg/asm"
	"vmasm/pkg/disasm"
	"vmasm/pkg/isa"
	"vmasm/pkg/labels"
)

const testSource = `# count up forever
LOOP:8:
add8 0u8:8 1u8
jmp8 ~LOOP:8 0u8
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	// Comments
	stripped, err := addons.Comments.Apply(asm.SplitLines(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, "comments error:", err)
		os.Exit(1)
	}

	fmt.Printf("Stripped:\n%s\n\n", asm.JoinLines(stripped))

	// Labels
	resolved, err := labels.ResolveLines(stripped)
	if err != nil {
		fmt.Fprintln(os.Stderr, "label error:", err)
		os.Exit(1)
	}

	fmt.Println("Resolved")
	for _, l := range resolved {
		fmt.Printf("  %4d  %s\n", l.No, l.Text)
	}
	fmt.Println()

	// Compile
	mc, err := asm.CompileLines(resolved)
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(1)
	}

	fmt.Printf("Instructions (%d)\n", len(mc.Instructions()))
	offset := 0
	for _, in := range mc.Instructions() {
		fmt.Printf("  %04x  %-4s %+v\n", offset, isa.Name(in.Op.OpCode), in)
		fmt.Printf("        %s\n", disasm.Format(in))
		offset += in.ByteSize()
	}
	fmt.Println()

	fmt.Printf("Binary (%d bytes)\n% x\n", mc.ByteSize(), mc.Bytes())
}
