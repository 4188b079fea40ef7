package cmd

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// listCmd enumerates the sounds resolvable from the configured sources
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available sounds",
	Long: `List every sound resolvable from the configured sources, with the
source that would supply it. A name present in several sources is shown
once, attributed to the first source, matching playback resolution.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	supported := map[string]bool{".wav": true, ".mp3": true, ".flac": true, ".ogg": true}

	// First source wins per name, matching playback resolution
	owner := make(map[string]string)
	var names []string
	for _, src := range buildSources(cfg) {
		entries, err := fs.ReadDir(src.FS, ".")
		if err != nil {
			fmt.Printf("  (skipping %s: %v)\n", src.Name, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !supported[strings.ToLower(path.Ext(entry.Name()))] {
				continue
			}
			stem := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
			if _, taken := owner[stem]; taken {
				continue
			}
			owner[stem] = src.Name
			names = append(names, stem)
		}
	}

	sort.Strings(names)
	fmt.Printf("Available sounds (%d):\n", len(names))
	for _, name := range names {
		fmt.Printf("  %-24s %s\n", name, owner[name])
	}
	return nil
}
