package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/resources"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	tableFormat = ""
	jsonFormat  = "json"
	yamlFormat  = "yaml"

	noneString = "<none>"
)

var legalOutputTypes = []string{jsonFormat, yamlFormat}

func validateOutput(output string) error {
	if output == tableFormat || lo.Contains(legalOutputTypes, output) {
		return nil
	}
	return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
}

func printStructured(w io.Writer, output string, items []convert.Convertible) error {
	out := make([]convert.Mapping, 0, len(items))
	for _, item := range items {
		m, err := item.ToMapping()
		if err != nil {
			return err
		}
		out = append(out, m)
	}

	var (
		marshalled []byte
		err        error
	)
	switch output {
	case jsonFormat:
		marshalled, err = json.MarshalIndent(out, "", "  ")
	case yamlFormat:
		marshalled, err = yaml.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("marshalling resources: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", strings.TrimRight(string(marshalled), "\n"))
	return err
}

func printListsTable(w io.Writer, lists []*resources.TaskList) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tSHARED\tKIND")
	for _, l := range lists {
		kind := string(l.WellknownListName())
		if kind == "" {
			kind = noneString
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n", l.ID(), l.Name(), l.IsOwner(), l.IsShared(), kind)
	}
	return tw.Flush()
}

func printTasksTable(w io.Writer, tasks []*resources.Task) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tIMPORTANCE\tDUE\tCREATED")
	for _, t := range tasks {
		due, _ := t.Due()
		created, _ := t.CreatedAt()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID(), t.Title(), t.Status(), t.Importance(), relative(due), relative(created))
	}
	return tw.Flush()
}

func relative(t time.Time) string {
	if t.IsZero() {
		return noneString
	}
	return humanize.Time(t)
}
