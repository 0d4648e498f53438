package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zx16-tools/zx16asm/config"
	"github.com/zx16-tools/zx16asm/encoder"
	"github.com/zx16-tools/zx16asm/isa"
	"github.com/zx16-tools/zx16asm/output"
	"github.com/zx16-tools/zx16asm/parser"
	"github.com/zx16-tools/zx16asm/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		showVersion   = flag.Bool("version", false, "Show version information")
		showHelp      = flag.Bool("help", false, "Show help information")
		outputPath    = flag.String("o", "", "Output file (default: derived from input name)")
		formatFlag    = flag.String("f", "", "Output format: bin, hex, verilog, mem (default: from config, bin)")
		listingPath   = flag.String("l", "", "Generate a listing file")
		verboseMode   = flag.Bool("v", false, "Verbose output")
		verilogModule = flag.String("verilog-module", "", "Verilog module name (used with -f verilog)")
		memSparse     = flag.Bool("mem-sparse", false, "Omit all-zero words from -f mem output")
		dumpSymbols   = flag.Bool("dump-symbols", false, "Dump symbol table and exit")
		symbolsFile   = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
		tuiMode       = flag.Bool("tui", false, "Browse the listing and symbol table in a text UI before writing output")
	)
	flag.StringVar(outputPath, "output", "", "Output file (same as -o)")
	flag.StringVar(formatFlag, "format", "", "Output format (same as -f)")
	flag.StringVar(listingPath, "listing", "", "Generate a listing file (same as -l)")
	flag.BoolVar(verboseMode, "verbose", false, "Verbose output (same as -v)")
	flag.Usage = printHelp

	flag.Parse()

	if *showVersion {
		fmt.Printf("zx16asm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		return 0
	}
	if *showHelp {
		printHelp()
		return 0
	}
	if flag.NArg() != 1 {
		printHelp()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	format := output.Format(*formatFlag)
	if format == "" {
		format = output.Format(cfg.Output.Format)
	}
	moduleName := *verilogModule
	if moduleName == "" {
		moduleName = cfg.Output.VerilogName
	}
	sparse := *memSparse || cfg.Output.SparseMem

	inputPath := flag.Arg(0)
	src, err := os.ReadFile(inputPath) // #nosec G304 -- user-specified input file
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	lexer := parser.NewLexer(string(src), inputPath)
	tokens := lexer.TokenizeAll()

	p := parser.NewParser(tokens)
	program, perrors := p.Parse()

	enc := encoder.NewEncoder(program)
	mem, eerrors := enc.Encode()

	all := mergeErrors(lexer.Errors(), perrors, eerrors)
	printDiagnostics(all, *verboseMode)

	if *dumpSymbols {
		if err := dumpSymbolTable(program.Symbols, *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		if all.HasErrors() {
			return 1
		}
		return 0
	}

	if *tuiMode {
		v := tui.NewViewer(program, mem, enc.HighWaterMark(), all)
		if err := v.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if all.HasErrors() {
		return 1
	}

	if cfg.Diagnostics.ShowUnusedLabels {
		for _, sym := range program.Symbols.Unused() {
			fmt.Fprintf(os.Stderr, "warning: label %q defined but never used\n", sym.Name)
		}
	}

	outPath := *outputPath
	if outPath == "" {
		outPath = defaultOutputPath(inputPath, format)
	}
	out, err := os.Create(outPath) // #nosec G304 -- user-specified output path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer out.Close()

	end := enc.HighWaterMark()
	if end == 0 {
		end = isa.CodeStart
	}
	if err := output.Write(out, format, mem, 0, end, moduleName, sparse); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if *listingPath != "" {
		if err := writeListing(*listingPath, program, mem, end); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if *verboseMode {
		fmt.Fprintln(os.Stderr, all.Summary())
	}
	return 0
}

func mergeErrors(lists ...*parser.ErrorList) *parser.ErrorList {
	merged := &parser.ErrorList{}
	for _, l := range lists {
		if l == nil {
			continue
		}
		merged.Errors = append(merged.Errors, l.Errors...)
		merged.Warnings = append(merged.Warnings, l.Warnings...)
	}
	return merged
}

func printDiagnostics(all *parser.ErrorList, verbose bool) {
	for _, e := range all.Errors {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	for _, w := range all.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
	if verbose || all.HasErrors() {
		fmt.Fprintln(os.Stderr, all.Summary())
	}
}

func defaultOutputPath(inputPath string, format output.Format) string {
	ext := map[output.Format]string{
		output.FormatBinary:  ".bin",
		output.FormatHex:     ".hex",
		output.FormatVerilog: ".v",
		output.FormatMem:     ".mem",
	}[format]
	if ext == "" {
		ext = ".out"
	}
	base := inputPath
	for i := len(base) - 1; i >= 0 && base[i] != '/'; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return base + ext
}

// writeListing renders a simple address/byte listing of the assembled
// image alongside the symbol table, grounded on the same two-column shape
// dumpSymbolTable uses for -dump-symbols.
func writeListing(path string, program *parser.Program, mem []byte, end int) error {
	f, err := os.Create(path) // #nosec G304 -- user-specified listing path
	if err != nil {
		return fmt.Errorf("failed to create listing file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "Address  Bytes")
	fmt.Fprintln(f, "-------  -----------------")
	for addr := 0; addr < end; addr += 8 {
		n := 8
		if addr+n > end {
			n = end - addr
		}
		fmt.Fprintf(f, "%04X     % X\n", addr, mem[addr:addr+n])
	}
	fmt.Fprintln(f)
	writeSymbolTable(f, program.Symbols)
	return nil
}

// dumpSymbolTable outputs the symbol table in a readable format.
func dumpSymbolTable(st *parser.SymbolTable, filename string) error {
	var w *os.File
	var err error
	if filename == "" {
		w = os.Stdout
	} else {
		w, err = os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer w.Close()
	}
	writeSymbolTable(w, st)
	return nil
}

func writeSymbolTable(w io.Writer, st *parser.SymbolTable) {
	all := st.All()
	if len(all) == 0 {
		fmt.Fprintln(w, "No symbols defined")
		return
	}

	fmt.Fprintln(w, "Symbol Table")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s %-8s %-10s %s\n", "Name", "Section", "Value", "Status")
	fmt.Fprintln(w, "--------------------------------------------------------------")

	sort.Slice(all, func(i, j int) bool {
		if all[i].Section != all[j].Section {
			return all[i].Section < all[j].Section
		}
		return all[i].Value < all[j].Value
	})
	for _, sym := range all {
		status := "defined"
		if !sym.Defined {
			status = "undefined"
		}
		fmt.Fprintf(w, "%-24s %-8s 0x%-8X %s\n", sym.Name, sym.Section, sym.Value, status)
	}
}

func printHelp() {
	fmt.Printf(`zx16asm %s - ZX16 two-pass assembler

Usage: zx16asm [options] <input.s>

Options:
  -o FILE            Output file (default: derived from input name)
  -f FORMAT          Output format: bin, hex, verilog, mem (default: bin)
  -l FILE            Generate a listing file
  -v                 Verbose output
  --verilog-module N Verilog module name (used with -f verilog)
  --mem-sparse       Omit all-zero words from -f mem output
  -dump-symbols      Dump symbol table and exit
  -symbols-file FILE Symbol dump output file (default: stdout)
  -tui               Browse the listing and symbol table in a text UI
  -version           Show version information
  -help              Show this help message

Examples:
  zx16asm program.s
  zx16asm -f hex -o program.hex program.s
  zx16asm -f verilog --verilog-module rom program.s
  zx16asm -dump-symbols -symbols-file symbols.txt program.s
`, Version)
}
