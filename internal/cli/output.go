package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"catalog-admin/internal/pages"
)

type listOutput struct {
	Resource   string              `json:"resource"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Items      []map[string]string `json:"items"`
}

type deleteOutput struct {
	Status   string `json:"status"`
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func cellText(c pages.Cell) string {
	switch {
	case c.Text != "":
		return c.Text
	case c.Badge != "":
		return c.Badge
	case c.Image != "":
		return c.Image
	}
	return "-"
}

// writeView prints the rows of a mounted page as a pipe-separated table or
// as JSON keyed by column.
func writeView(w io.Writer, format string, v pages.View) error {
	if format == "json" {
		out := listOutput{
			Resource:   v.Name,
			Page:       v.Page,
			Limit:      v.Limit,
			Total:      v.Total,
			TotalPages: v.TotalPages,
			Items:      []map[string]string{},
		}
		for _, row := range v.Rows {
			item := map[string]string{"id": row.ID}
			for i, col := range v.Columns {
				item[col.Key] = cellText(row.Cells[i])
			}
			out.Items = append(out.Items, item)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s · page %d of %d · %d total\n", v.Title, v.Page, max(v.TotalPages, 1), v.Total)
	if len(v.Rows) == 0 {
		fmt.Fprintf(w, "No %s found.\n", strings.ToLower(v.Title))
		return nil
	}

	headers := []string{"ID"}
	for _, col := range v.Columns {
		h := col.Header
		if col.Active {
			h += " " + pages.SortOrderLabel(col.Order)
		}
		headers = append(headers, h)
	}
	fmt.Fprintln(w, strings.Join(headers, " | "))

	for _, row := range v.Rows {
		cells := []string{row.ID}
		for _, c := range row.Cells {
			cells = append(cells, cellText(c))
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
	return nil
}
