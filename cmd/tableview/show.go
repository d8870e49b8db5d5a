package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/logging"
	"github.com/JonMunkholm/tableview/internal/textview"
	"github.com/JonMunkholm/tableview/internal/view"
)

type showOptions struct {
	schema    string
	data      string
	sort      string
	desc      bool
	filters   []string
	page      int
	pageSize  int
	selectRow int
	highlight string
	json      bool
}

func newShowCmd() *cobra.Command {
	o := showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one page of a dataset",
		Long: `Load a dataset from a YAML column schema and a CSV or JSON data file,
then filter, sort, page and select it the way the web view does and print
the resulting page.`,
		Example: `  tableview show --schema people.yaml --data people.csv --sort joined --desc
  tableview show --schema people.yaml --data people.csv --filter name=smith --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), cmd.ErrOrStderr(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.schema, "schema", "", "YAML column schema")
	f.StringVar(&o.data, "data", "", "CSV or JSON data file")
	f.StringVar(&o.sort, "sort", "", "field to sort by")
	f.BoolVar(&o.desc, "desc", false, "sort descending")
	f.StringArrayVar(&o.filters, "filter", nil, "field=value filter (repeatable)")
	f.IntVar(&o.page, "page", 1, "page to show")
	f.IntVar(&o.pageSize, "page-size", view.DefaultPageSize, "records per page")
	f.IntVar(&o.selectRow, "select", view.UndefinedIndex, "row on the page to select")
	f.StringVar(&o.highlight, "highlight", "reverse", "selected row style (reverse, bold, underline)")
	f.BoolVar(&o.json, "json", false, "output the view state as JSON")
	cmd.MarkFlagRequired("schema")
	cmd.MarkFlagRequired("data")
	return cmd
}

// runShow drives an engine through the requested intents and prints it.
func runShow(out, errOut io.Writer, o showOptions) error {
	filters, err := parseFilters(o.filters)
	if err != nil {
		return err
	}

	key := strings.TrimSuffix(filepath.Base(o.data), filepath.Ext(o.data))
	ds, err := dataset.Open(key, o.schema, o.data)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	r := textview.New(out)
	r.SetHighlight(o.highlight)
	e := view.New(ds.Records, ds.Columns, view.Options{
		Paginate:       true,
		PageSize:       o.pageSize,
		HighlightStyle: o.highlight,
		Renderer:       r,
		Logger:         logging.New(errOut, flagLogLevel, "text"),
	})
	e.Render()

	if len(filters) > 0 {
		if err := e.FilterData(filters); err != nil {
			return err
		}
	}
	if o.sort != "" {
		if err := e.SortByField(o.sort); err != nil {
			return err
		}
		if o.desc {
			if err := e.SortByField(o.sort); err != nil {
				return err
			}
		}
	}
	if o.page > 1 {
		e.GoToPage(o.page)
	}
	if o.selectRow != view.UndefinedIndex {
		e.SelectRow(o.selectRow)
	}

	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			State view.Snapshot `json:"state"`
			Rows  []view.Record `json:"rows"`
		}{e.State(), e.PageRows()})
	}
	return r.Print(e.State())
}

var errBadFilter = errors.New("filter must be field=value")

// parseFilters turns field=value flags into a filter record. The last value
// given for a field wins.
func parseFilters(args []string) (view.Record, error) {
	filters := view.Record{}
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: %q", errBadFilter, arg)
		}
		filters[field] = value
	}
	return filters, nil
}
