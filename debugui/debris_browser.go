package debugui

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/debrisfall/debris"
)

// Sort columns of the debris table.
const (
	ColumnIndex = iota
	ColumnTier
	ColumnSize
	ColumnX
	ColumnY
	ColumnSpeed
)

// DebrisRow is one line of the debris table.
type DebrisRow struct {
	Index    int
	Tier     int
	Size     float64
	Position mgl64.Vec2
	Velocity mgl64.Vec2
}

// DebrisBrowser lists the debris of a session in a sortable, filterable
// and paged table.
type DebrisBrowser struct {
	rows           []DebrisRow
	selected       int
	filterText     string
	sortColumn     int
	sortAscending  bool
	maxRowsPerPage int
	currentPage    int
}

func NewDebrisBrowser(maxRowsPerPage int) *DebrisBrowser {
	return &DebrisBrowser{
		selected:       -1,
		sortColumn:     ColumnIndex,
		sortAscending:  true,
		maxRowsPerPage: maxRowsPerPage,
	}
}

func (db *DebrisBrowser) Render(session *debris.Session) {
	if !imgui.BeginV("Debris", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter by index or tier...", &db.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		db.filterText = ""
	}

	rows := db.Rows(session)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("DebrisTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("#")
		imgui.TableSetupColumn("Tier")
		imgui.TableSetupColumn("Size")
		imgui.TableSetupColumn("X")
		imgui.TableSetupColumn("Y")
		imgui.TableSetupColumn("Speed")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			db.SetSort(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			rows = db.Rows(session)
			sortSpecs.SetSpecsDirty(false)
		}

		start := min(db.currentPage*db.maxRowsPerPage, len(rows))
		end := min(start+db.maxRowsPerPage, len(rows))

		for _, row := range rows[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(strconv.Itoa(row.Index), db.selected == row.Index, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				db.selected = row.Index
			}

			imgui.TableNextColumn()
			imgui.Text(strconv.Itoa(row.Tier))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Size))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Position.X()))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Position.Y()))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", row.Velocity.Len()))
		}

		imgui.EndTable()
	}

	if len(rows) > db.maxRowsPerPage {
		totalPages := (len(rows) + db.maxRowsPerPage - 1) / db.maxRowsPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d debris)", db.currentPage+1, totalPages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && db.currentPage > 0 {
			db.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && db.currentPage < totalPages-1 {
			db.currentPage++
		}
	} else {
		db.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d debris", len(rows)))
	}

	imgui.End()
}

// Rows snapshots the debris of session, filtered and sorted by the current
// settings.
func (db *DebrisBrowser) Rows(session *debris.Session) []DebrisRow {
	db.rows = db.rows[:0]
	for i, body := range session.Debris() {
		row := DebrisRow{
			Index:    i,
			Position: body.Position(),
			Velocity: body.LinearVelocity(),
		}
		if data, ok := body.UserData().(debris.DebrisData); ok {
			row.Tier = data.Tier
			row.Size = data.Size
		}
		if db.matches(row) {
			db.rows = append(db.rows, row)
		}
	}

	db.sortRows()
	return slices.Clone(db.rows)
}

// SetFilter keeps only rows whose index or "tier N" label contains text.
func (db *DebrisBrowser) SetFilter(text string) {
	db.filterText = text
	db.currentPage = 0
}

// SetSort orders rows by one of the Column constants.
func (db *DebrisBrowser) SetSort(column int, ascending bool) {
	db.sortColumn = column
	db.sortAscending = ascending
}

// Selected is the index of the selected debris, or -1.
func (db *DebrisBrowser) Selected() int {
	return db.selected
}

func (db *DebrisBrowser) matches(row DebrisRow) bool {
	if db.filterText == "" {
		return true
	}
	filter := strings.ToLower(strings.TrimSpace(db.filterText))
	return strings.Contains(strconv.Itoa(row.Index), filter) ||
		strings.Contains(fmt.Sprintf("tier %d", row.Tier), filter)
}

func (db *DebrisBrowser) sortRows() {
	sort.SliceStable(db.rows, func(i, j int) bool {
		a, b := db.rows[i], db.rows[j]
		var less bool

		switch db.sortColumn {
		case ColumnTier:
			less = a.Tier < b.Tier
		case ColumnSize:
			less = a.Size < b.Size
		case ColumnX:
			less = a.Position.X() < b.Position.X()
		case ColumnY:
			less = a.Position.Y() < b.Position.Y()
		case ColumnSpeed:
			less = a.Velocity.Len() < b.Velocity.Len()
		default:
			less = a.Index < b.Index
		}

		if !db.sortAscending {
			return !less
		}
		return less
	})
}
