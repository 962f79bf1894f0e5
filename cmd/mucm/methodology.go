// Methodology commands inspect the methodology definitions discovered
// under the templates directory.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var methodologyCmd = &cobra.Command{
	Use:   "methodology",
	Short: "Inspect the available methodologies",
}

var methodologyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List methodologies and their levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		enabled := make(map[string]bool, len(p.Config.EnabledMethodologies))
		for _, name := range p.Config.EnabledMethodologies {
			enabled[name] = true
		}

		type levelInfo struct {
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation,omitempty"`
			Description  string `json:"description,omitempty"`
		}
		type methodologyInfo struct {
			Name    string      `json:"name"`
			Title   string      `json:"title"`
			Enabled bool        `json:"enabled"`
			Levels  []levelInfo `json:"levels"`
		}

		out := make([]methodologyInfo, 0)
		for _, name := range p.Schema.Methodologies() {
			m, err := p.Schema.Methodology(name)
			if err != nil {
				fail(err)
			}
			info := methodologyInfo{Name: m.Name, Title: m.Title, Enabled: enabled[m.Name]}
			for _, l := range m.Levels {
				info.Levels = append(info.Levels, levelInfo{
					Name:         l.Name,
					Abbreviation: l.Abbreviation,
					Description:  l.Description,
				})
			}
			out = append(out, info)
		}

		if flagJSON {
			printJSON(out)
			return nil
		}
		for _, info := range out {
			mark := " "
			if info.Enabled {
				mark = "*"
			}
			levels := make([]string, 0, len(info.Levels))
			for _, l := range info.Levels {
				levels = append(levels, l.Name)
			}
			fmt.Printf("%s %-12s %-30s %s\n", mark, info.Name, info.Title, strings.Join(levels, ", "))
		}
		return nil
	},
}

var methodologyShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one methodology in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		m, err := p.Schema.Methodology(args[0])
		if err != nil {
			failWithSuggestion(args[0], p.Schema.Methodologies(), err)
		}

		fmt.Printf("%s (%s)\n", m.Title, m.Name)
		if m.Description != "" {
			fmt.Printf("\n%s\n", m.Description)
		}
		if len(m.WhenToUse) > 0 {
			fmt.Println("\nWhen to use:")
			for _, line := range m.WhenToUse {
				fmt.Printf("  - %s\n", line)
			}
		}
		if len(m.KeyFeatures) > 0 {
			fmt.Println("\nKey features:")
			for _, line := range m.KeyFeatures {
				fmt.Printf("  - %s\n", line)
			}
		}
		fmt.Println("\nLevels:")
		for _, l := range m.Levels {
			fmt.Printf("  %s", l.Name)
			if l.Abbreviation != "" {
				fmt.Printf(" (%s)", l.Abbreviation)
			}
			if l.Description != "" {
				fmt.Printf(": %s", l.Description)
			}
			fmt.Println()
			for _, f := range l.Fields {
				req := ""
				if f.Required {
					req = " (required)"
				}
				fmt.Printf("    %s [%s]%s\n", f.Name, f.Type, req)
			}
		}
		return nil
	},
}

func init() {
	methodologyCmd.AddCommand(methodologyListCmd)
	methodologyCmd.AddCommand(methodologyShowCmd)
}
