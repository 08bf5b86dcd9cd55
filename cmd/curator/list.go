package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/curator/internal/gallery"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the images in the gallery",
	Long: `Fetch the gallery once and print it.

Output formats:
  table - aligned columns (default)
  json  - JSON array
  yaml  - YAML sequence`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table, json, or yaml")
}

// listItem is the scripted view of one gallery record.
type listItem struct {
	PublicID  string `json:"public_id" yaml:"public_id"`
	FileName  string `json:"file_name" yaml:"file_name"`
	SecureURL string `json:"secure_url" yaml:"secure_url"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

func runList(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(listOutput))
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", listOutput)
	}

	rt, err := buildRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Controller.Refresh(cmd.Context())
	snap := rt.Store.Snapshot()
	if snap.Failed() {
		return fmt.Errorf("%s: %s", snap.Panel.Title, strings.Join(snap.Panel.Detail, "; "))
	}

	items := make([]listItem, 0, len(snap.Images))
	for _, img := range snap.Images {
		items = append(items, toListItem(img))
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return writeTable(out, items)
	}
}

func toListItem(img gallery.ImageRecord) listItem {
	return listItem{
		PublicID:  img.PublicID,
		FileName:  img.FileName(),
		SecureURL: img.SecureURL,
		CreatedAt: img.CreatedAt,
	}
}

func writeTable(w io.Writer, items []listItem) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLIC ID\tFILE\tCREATED\tURL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.PublicID, it.FileName, it.CreatedAt, it.SecureURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total Images: %d\n", len(items))
	return err
}
