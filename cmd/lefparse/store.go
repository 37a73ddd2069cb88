package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leojohnthomas/lef-parser/cellstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the snapshot database",
	Long:  "Save parsed LEF libraries as immutable snapshots in SQLite and query them back.",
}

var storePutCmd = &cobra.Command{
	Use:   "put <file.lef>",
	Short: "Parse a LEF library and save it as a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runStorePut,
}

var storeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE:  runStoreLs,
}

var storeMacrosCmd = &cobra.Command{
	Use:   "macros <snapshot>",
	Short: "List the macros of a snapshot by id or name",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreMacros,
}

func init() {
	storeCmd.PersistentFlags().String("db", cellstore.DefaultConfig().Path, "SQLite database path")

	storePutCmd.Flags().String("name", "", "Snapshot name (default: file basename)")
	storePutCmd.Flags().String("on-error", "skip", "Error policy: fail or skip")

	storeMacrosCmd.Flags().String("class", "", "Filter by CLASS value")
	storeMacrosCmd.Flags().String("site", "", "Filter by SITE value")
	storeMacrosCmd.Flags().String("name", "", "Filter by macro name prefix")
	storeMacrosCmd.Flags().Int("limit", 0, "Maximum number of macros to list (0: all)")

	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeLsCmd)
	storeCmd.AddCommand(storeMacrosCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStorePut(cmd *cobra.Command, args []string) error {
	onError, _ := cmd.Flags().GetString("on-error")
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = libraryName(args[0])
	}

	lib, err := loadLibrary(args[0], onError)
	if err != nil {
		return err
	}
	for _, perr := range lib.Errors {
		fmt.Fprintf(os.Stderr, "  skipped macro: %v\n", perr)
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	source, err := filepath.Abs(args[0])
	if err != nil {
		source = args[0]
	}

	snap, err := store.SaveSnapshot(cmd.Context(), name, source, lib.Macros)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "saved snapshot %s (%s, %d macros)\n", snap.ID, snap.Name, snap.MacroCount)
	return nil
}

func runStoreLs(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.Snapshots(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(os.Stderr, "no snapshots")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %6s  %s\n", "ID", "NAME", "MACROS", "CREATED")
	for _, snap := range snaps {
		fmt.Printf("%-36s  %-20s  %6d  %s\n",
			snap.ID, snap.Name, snap.MacroCount, snap.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runStoreMacros(cmd *cobra.Command, args []string) error {
	class, _ := cmd.Flags().GetString("class")
	site, _ := cmd.Flags().GetString("site")
	namePrefix, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.FindSnapshot(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("finding snapshot %q: %w", args[0], err)
	}

	macros, err := store.Macros(cmd.Context(), snap.ID, &cellstore.Filter{
		Class:      class,
		Site:       site,
		NamePrefix: namePrefix,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("listing macros: %w", err)
	}

	for _, m := range macros {
		size := "-"
		if m.Size != nil {
			size = fmt.Sprintf("%g x %g", m.Size.Width, m.Size.Height)
		}
		fmt.Printf("%-20s  %-10s  %-12s  %d pins, %d rects\n",
			m.Name, m.Class, size, len(m.Pins), m.RectCount())
	}
	fmt.Fprintf(os.Stderr, "%d macros in snapshot %s\n", len(macros), snap.Name)
	return nil
}

// openStore opens the snapshot database named by the --db flag, the
// LEFPARSE_DB environment variable, or the default path, in that order.
func openStore(cmd *cobra.Command) (*cellstore.Store, error) {
	config := cellstore.DefaultConfig()
	config.Path = resolveDB(cmd)

	store, err := cellstore.New(config)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", config.Path, err)
	}
	return store, nil
}

func resolveDB(cmd *cobra.Command) string {
	db, _ := cmd.Flags().GetString("db")
	if !cmd.Flags().Changed("db") {
		if env := viper.GetString("db"); env != "" {
			return env
		}
	}
	return db
}
