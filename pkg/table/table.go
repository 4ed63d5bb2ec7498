package table

import (
	"io"
	"os"

	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/olekukonko/tablewriter"
)

const (
	ProviderWidth = 8
	IDWidth       = 48
	StatusWidth   = 12
	DetailWidth   = 60
)

// StatusRow is one observed resource.
type StatusRow struct {
	Provider models.Provider   `json:"provider"`
	ID       string            `json:"id"`
	Status   models.NodeStatus `json:"status"`
	Detail   string            `json:"detail,omitempty"`
}

type StatusTable struct {
	table *tablewriter.Table
}

func NewStatusTable(w io.Writer) *StatusTable {
	if w == nil {
		w = os.Stdout
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Provider", "ID", "Status", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return &StatusTable{table: table}
}

func (st *StatusTable) Add(row StatusRow) {
	st.table.Append([]string{
		truncate(row.Provider.Abbreviation(), ProviderWidth),
		truncate(row.ID, IDWidth),
		truncate(row.Status.String(), StatusWidth),
		truncate(row.Detail, DetailWidth),
	})
}

func (st *StatusTable) Render() {
	st.table.Render()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
