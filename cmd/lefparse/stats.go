package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/leojohnthomas/lef-parser/lefparser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.lef>",
	Short: "Show a tree summary of a LEF library",
	Long:  "Render the macros, pins, obstructions, and layers of a LEF library as a tree, with per-class macro counts.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(args[0], "fail")
	if err != nil {
		return err
	}

	pterm.Info.Println(fmt.Sprintf("%s: %d macros, %d pins, %d rects",
		filepath.Base(args[0]), len(lib.Macros), lib.PinCount(), lib.RectCount()))

	root := pterm.NewTreeFromLeveledList(libraryLeveledList(lib))
	root.Text = libraryName(args[0])
	pterm.DefaultTree.WithRoot(root).Render()

	printClassCounts(lib)
	return nil
}

// libraryLeveledList flattens a library into the leveled list pterm
// builds trees from: macros at level 0, pins and OBS at 1, layers at 2.
func libraryLeveledList(lib *lefparser.Library) pterm.LeveledList {
	ll := pterm.LeveledList{}
	for _, m := range lib.Macros {
		text := m.Name
		if m.Class != "" {
			text = fmt.Sprintf("%s [%s]", m.Name, m.Class)
		}
		if m.Size != nil {
			text = fmt.Sprintf("%s %g x %g", text, m.Size.Width, m.Size.Height)
		}
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: text})

		for _, p := range m.Pins {
			pinText := "PIN " + p.Name
			if p.Direction != "" {
				pinText += " (" + p.Direction + ")"
			}
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: pinText})
			if p.Port != nil {
				ll = appendLayerItems(ll, p.Port.Layers)
			}
		}

		if m.Obstruction != nil {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: "OBS"})
			ll = appendLayerItems(ll, m.Obstruction.Layers)
		}
	}
	return ll
}

func appendLayerItems(ll pterm.LeveledList, layers []lefparser.LayerGeometry) pterm.LeveledList {
	for _, layer := range layers {
		ll = append(ll, pterm.LeveledListItem{
			Level: 2,
			Text:  fmt.Sprintf("%s: %d rects", layer.Name, len(layer.Rects)),
		})
	}
	return ll
}

func printClassCounts(lib *lefparser.Library) {
	counts := make(map[string]int)
	for _, m := range lib.Macros {
		class := m.Class
		if class == "" {
			class = "(unclassified)"
		}
		counts[class]++
	}

	classes := make([]string, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		pterm.Println(fmt.Sprintf("%-16s %d", class, counts[class]))
	}
}
