package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRuleDefinitions outputs the rule registry in the configured format.
func WriteRuleDefinitions(rules []schema.RuleDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "kind", "platforms", "description"}, func(cw *csv.Writer) error {
				for _, r := range rules {
					if err := cw.Write([]string{r.Name, r.Kind, platformList(r.Platforms, "|"), r.Description}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesTable(w, rules)
		}, "Wrote text")
	}
}

// platformList joins platform names, or returns "all" when the rule applies everywhere.
func platformList(platforms []schema.Platform, sep string) string {
	if len(platforms) == 0 || len(platforms) == len(schema.AllPlatforms) {
		return "all"
	}
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return strings.Join(names, sep)
}

func writeRulesTable(w io.Writer, rules []schema.RuleDefinition) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rule", "Kind", "Platforms", "Description"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(rules))
	for _, r := range rules {
		data = append(data, []string{r.Name, r.Kind, platformList(r.Platforms, ", "), r.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rules registered\n", len(rules))
	return err
}
