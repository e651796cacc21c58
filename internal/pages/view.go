package pages

import (
	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/modal"
)

// View is the render model of a page.
type View struct {
	Name     string
	Title    string
	Singular string

	Columns []ColumnView
	Rows    []Row

	Page       int
	Limit      int
	Search     string
	Status     string
	Total      int64
	TotalPages int
	Pages      []int
	HasPrev    bool
	HasNext    bool

	// FirstLoad is true until a fetch has succeeded; the page shows a spinner.
	FirstLoad bool
	Loading   bool

	Summary  []Stat
	Statuses []StatusView
	Limits   []int

	Banner  string
	Form    *FormView
	Confirm modal.View
}

type ColumnView struct {
	Key      string
	Header   string
	Sortable bool
	Active   bool
	Order    string
}

type Row struct {
	ID    string
	Cells []Cell
}

type StatusView struct {
	Value    string
	Label    string
	Selected bool
}

type FormView struct {
	Mode       string
	Title      string
	TargetID   string
	Fields     []forms.Field
	Submitting bool
}

var pageSizes = []int{10, 25, 50, 100}

const pageWindow = 5

func (p *Page[T]) View() View {
	st := p.list.State()
	items := p.list.Items()

	v := View{
		Name:       p.def.Name,
		Title:      p.def.Title,
		Singular:   p.def.Singular,
		Page:       st.Page,
		Limit:      st.Limit,
		Search:     st.Search,
		Status:     st.Status,
		Total:      p.list.Total(),
		TotalPages: p.list.TotalPages(),
		FirstLoad:  !p.list.Loaded(),
		Loading:    p.list.Loading(),
		Limits:     pageSizes,
	}
	v.HasPrev = st.Page > 1
	v.HasNext = st.Page < v.TotalPages
	v.Pages = window(st.Page, v.TotalPages, pageWindow)

	for _, col := range p.def.Columns {
		cv := ColumnView{Key: col.Key, Header: col.Header, Sortable: col.Sortable}
		if col.Sortable && col.Key == st.SortBy {
			cv.Active = true
			cv.Order = string(st.SortOrder)
		}
		v.Columns = append(v.Columns, cv)
	}

	for _, item := range items {
		row := Row{ID: item.EntityID()}
		for _, col := range p.def.Columns {
			row.Cells = append(row.Cells, col.Cell(item))
		}
		v.Rows = append(v.Rows, row)
	}

	v.Summary = append(v.Summary, Stat{Label: "Total", Value: v.Total})
	if p.def.Summary != nil {
		v.Summary = append(v.Summary, p.def.Summary(items)...)
	} else {
		v.Summary = append(v.Summary, activeSummary(items)...)
	}

	statuses := p.def.Statuses
	if statuses == nil {
		statuses = activeStatuses
	}
	for _, s := range statuses {
		v.Statuses = append(v.Statuses, StatusView{Value: s.Value, Label: s.Label, Selected: s.Value == st.Status})
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	v.Banner = p.banner
	v.Confirm = p.confirm.View()
	if p.form != nil {
		fv := &FormView{
			Mode:       p.form.Mode().String(),
			Fields:     p.form.Fields(),
			Submitting: p.form.Submitting(),
		}
		if target, ok := p.state.Target(); ok {
			fv.TargetID = target.EntityID()
			fv.Title = "Edit " + p.def.Singular
		} else {
			fv.Title = "Create " + p.def.Singular
		}
		v.Form = fv
	}
	return v
}

// window returns up to size page numbers centred on current.
func window(current, total, size int) []int {
	if total < 1 {
		return nil
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > total {
		end = total
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// SortOrderLabel is used by templates for the header arrow.
func SortOrderLabel(order string) string {
	if order == string(apiclient.SortDesc) {
		return "▼"
	}
	return "▲"
}
