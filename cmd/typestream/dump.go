package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/typestream/internal/compiler/cache"
	"github.com/conduit-lang/typestream/internal/compiler/codec"
	"github.com/conduit-lang/typestream/internal/compiler/intern"
)

var dumpVerbose bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpVerbose, "verbose", false, "Show decoder statistics")
}

var dumpCmd = &cobra.Command{
	Use:   "dump <unit-file>",
	Short: "Decode a unit blob and print its contents",
	Long:  "Parse a unit file's envelope, decode the payload into a fresh context, and print the root entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read unit file: %w", err)
		}

		unit, err := cache.ParseUnit(blob)
		if err != nil {
			return fmt.Errorf("failed to parse unit file: %w", err)
		}

		header := color.New(color.FgCyan, color.Bold)
		header.Printf("unit %s\n", args[0])
		fmt.Printf("  kind:    %s\n", unit.Kind)
		fmt.Printf("  session: %s\n", unit.Session)
		fmt.Printf("  payload: %d bytes\n", len(unit.Payload))

		cx := intern.NewContext()
		hooks := codec.PassthroughAllocHooks{}

		var rendered string
		switch unit.Kind {
		case cache.UnitType:
			t, err := unit.DecodeType(cx, hooks)
			if err != nil {
				return fmt.Errorf("failed to decode type: %w", err)
			}
			rendered = cx.FormatType(t)
		case cache.UnitPredicate:
			p, err := unit.DecodePredicate(cx, hooks)
			if err != nil {
				return fmt.Errorf("failed to decode predicate: %w", err)
			}
			rendered = cx.FormatPredicate(p)
		case cache.UnitSummary:
			s, err := unit.DecodeSummary(cx, hooks)
			if err != nil {
				return fmt.Errorf("failed to decode summary: %w", err)
			}
			rendered = fmt.Sprintf("summary for crate %d item %d: %d node types, %d obligations",
				s.Def.Crate, s.Def.Index, len(s.NodeTypes), len(s.Obligations))
		default:
			return fmt.Errorf("unknown unit kind %s", unit.Kind)
		}

		fmt.Println()
		color.Green("%s", rendered)

		if dumpVerbose {
			counts := cx.Counts()
			fmt.Println()
			fmt.Printf("  interned types:      %d\n", counts.Types)
			fmt.Printf("  interned predicates: %d\n", counts.Predicates)
			fmt.Printf("  interned regions:    %d\n", counts.Regions)
			fmt.Printf("  interned constants:  %d\n", counts.Consts)
			fmt.Printf("  interned symbols:    %d\n", counts.Symbols)
		}
		return nil
	},
}
