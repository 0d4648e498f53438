// Package tui is an optional text user interface for browsing a finished
// assembly run: the byte listing, the symbol table, and any diagnostics,
// each in its own scrollable pane. It never re-assembles or edits
// anything; it is a read-only viewer over results the CLI already
// produced.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/zx16-tools/zx16asm/parser"
)

// Viewer is the TUI's top-level state: the application, its pages, and
// the three content panes.
type Viewer struct {
	App   *tview.Application
	Pages *tview.Pages

	Layout          *tview.Flex
	ListingView     *tview.TextView
	SymbolsView     *tview.TextView
	DiagnosticsView *tview.TextView
	CommandInput    *tview.InputField

	program *parser.Program
	mem     []byte
	end     int
	diags   *parser.ErrorList
}

// NewViewer creates a Viewer over a completed assembly run.
func NewViewer(program *parser.Program, mem []byte, end int, diags *parser.ErrorList) *Viewer {
	v := &Viewer{
		App:     tview.NewApplication(),
		program: program,
		mem:     mem,
		end:     end,
		diags:   diags,
	}
	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()
	v.populate()
	return v
}

func (v *Viewer) initializeViews() {
	v.ListingView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.ListingView.SetBorder(true).SetTitle(" Listing ")

	v.SymbolsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	v.DiagnosticsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	v.DiagnosticsView.SetBorder(true).SetTitle(" Diagnostics ")

	v.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	v.CommandInput.SetBorder(true).SetTitle(" Filter symbols (Enter, empty to clear) ")
	v.CommandInput.SetDoneFunc(v.handleCommand)
}

func (v *Viewer) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.ListingView, 0, 2, false).
		AddItem(v.SymbolsView, 0, 1, false)

	v.Layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 4, false).
		AddItem(v.DiagnosticsView, 8, 0, false).
		AddItem(v.CommandInput, 3, 0, true)

	v.Pages = tview.NewPages().AddPage("main", v.Layout, true, true)
}

func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			v.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			v.populate()
			return nil
		}
		return event
	})
}

func (v *Viewer) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	v.renderSymbols(v.CommandInput.GetText())
}

func (v *Viewer) populate() {
	v.renderListing()
	v.renderSymbols("")
	v.renderDiagnostics()
}

func (v *Viewer) renderListing() {
	v.ListingView.Clear()
	for addr := 0; addr < v.end; addr += 8 {
		n := 8
		if addr+n > v.end {
			n = v.end - addr
		}
		fmt.Fprintf(v.ListingView, "[yellow]%04X[white]  % X\n", addr, v.mem[addr:addr+n])
	}
}

// renderSymbols shows every symbol whose name contains filter (all
// symbols when filter is empty).
func (v *Viewer) renderSymbols(filter string) {
	v.SymbolsView.Clear()
	for _, sym := range v.program.Symbols.All() {
		if filter != "" && !contains(sym.Name, filter) {
			continue
		}
		fmt.Fprintf(v.SymbolsView, "[green]%-20s[white] %-6s 0x%04X\n", sym.Name, sym.Section, sym.Value)
	}
}

func (v *Viewer) renderDiagnostics() {
	v.DiagnosticsView.Clear()
	for _, e := range v.diags.Errors {
		fmt.Fprintf(v.DiagnosticsView, "[red]%s[white]\n", e.Error())
	}
	for _, w := range v.diags.Warnings {
		fmt.Fprintf(v.DiagnosticsView, "[yellow]%s[white]\n", w.String())
	}
	fmt.Fprintln(v.DiagnosticsView, v.diags.Summary())
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// Run starts the TUI event loop; it blocks until the user quits (Ctrl-C).
func (v *Viewer) Run() error {
	return v.App.SetRoot(v.Pages, true).SetFocus(v.CommandInput).Run()
}
