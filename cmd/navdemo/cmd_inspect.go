package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/scenenav"
	"github.com/comalice/scenenav/production"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [id]",
		Short: "Print a saved session as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := sessionID
			if len(args) == 1 {
				id = args[0]
			}
			codec, err := cfg.codec()
			if err != nil {
				return err
			}
			p, err := production.NewFilePersister(cfg.Dir, codec)
			if err != nil {
				return err
			}
			state, err := p.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), state, 0)
			return nil
		},
	}
}

func printState(w io.Writer, s *scenenav.SavedState, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(w, "(%s)\n", s.Kind())
	}
	for _, key := range s.Keys() {
		switch s.ValueKind(key) {
		case scenenav.ValueState:
			child, _ := s.State(key)
			fmt.Fprintf(w, "%s  %s (%s)\n", indent, key, child.Kind())
			printState(w, child, depth+1)
		case scenenav.ValueString:
			v, _ := s.Str(key)
			fmt.Fprintf(w, "%s  %s = %q\n", indent, key, v)
		default:
			v, _ := s.Get(key)
			fmt.Fprintf(w, "%s  %s = %v\n", indent, key, v)
		}
	}
}
