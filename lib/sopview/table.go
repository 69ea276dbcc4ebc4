package sopview

import (
	"fmt"

	"sopaggregator/lib/sop"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func partyRow(v sop.Votes) table.Row {
	row := table.Row{}
	for _, n := range v.Values() {
		row = append(row, n)
	}
	return row
}

func partyHeader() table.Row {
	row := table.Row{}
	for _, p := range sop.Parties {
		row = append(row, p)
	}
	return row
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().HTML.CSSClass = "sop-table"
	t.Style().HTML.EscapeText = true
	return t
}

func regionTitle(g sop.RegionGroup) string {
	return fmt.Sprintf("Region %s - %s", g.Region, g.Name)
}

// RegionTable has one row per record, in group order.
func RegionTable(g sop.RegionGroup) table.Writer {
	t := newTable()
	t.SetTitle(regionTitle(g))
	t.AppendHeader(append(table.Row{"Station", "SOP ID"}, partyHeader()...))
	for _, r := range g.Records {
		t.AppendRow(append(table.Row{r.Station, r.SopID}, partyRow(r.Votes)...))
	}

	configs := []table.ColumnConfig{}
	for i := range sop.Parties {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

// TotalTable is a single row holding the grand total.
func TotalTable(total sop.Votes) table.Writer {
	t := newTable()
	t.SetTitle("Total")
	t.AppendHeader(partyHeader())
	t.AppendRow(partyRow(total))
	return t
}

// TabTitle is the caption of the table shown under the tab named by value.
func (p Page) TabTitle(value string) string {
	if g, ok := p.region(value); ok {
		return regionTitle(g)
	}
	return "Total"
}

// TabTable builds the table shown under the tab named by value.
func (p Page) TabTable(value string) (table.Writer, error) {
	if value == TotalTabValue {
		return TotalTable(p.Report.Total), nil
	}
	g, ok := p.region(value)
	if !ok {
		return nil, fmt.Errorf("no tab named %q", value)
	}
	return RegionTable(g), nil
}
