package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/configurator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func quoteCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "Price a build",
		Example: `  vehiclectl quote --wheel sport --headlight led --spoiler gt`,
		Args:    cobra.NoArgs,
	}
	update := selectionFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		_, log, cat, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		s := configurator.NewSession("quote", cat, log.Logger, configurator.Options{})
		defer s.Close()
		rejected := s.Apply(configurator.Input{Update: update()})
		q := s.Quote()

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				configurator.Quote
				Rejected int `json:"rejected"`
			}{q, rejected})
		}

		c := s.Caption()
		fmt.Fprintln(out, c.Title)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, l := range q.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", configurator.CategoryLabel(l.Category), l.Name, catalog.FormatPrice(l.Price))
		}
		fmt.Fprintf(tw, "Color\t%s\t\n", q.Selection.BodyColor)
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out, c.Total)
		if rejected > 0 {
			fmt.Fprintf(out, "(%d unknown option(s) ignored)\n", rejected)
		}
		return nil
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the quote as JSON")
	return cmd
}

func catalogCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the option catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, cat, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			doc := cat.Document()
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			return fmt.Errorf("unknown format %q (yaml, json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}
