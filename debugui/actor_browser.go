package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagehand/stage"
)

// ActorBrowser lists actors with their active behaviors and lets a
// selected actor's behaviors be cancelled.
type ActorBrowser struct {
	stage *stage.Stage

	selected         stage.ActorId
	filterText       string
	sortColumn       int
	sortAscending    bool
	maxActorsPerPage int
	currentPage      int
}

// NewActorBrowser creates a browser showing maxActorsPerPage rows per page (at least one).
func NewActorBrowser(s *stage.Stage, maxActorsPerPage int) *ActorBrowser {
	maxActorsPerPage = max(maxActorsPerPage, 1)
	return &ActorBrowser{
		stage:            s,
		sortAscending:    true,
		maxActorsPerPage: maxActorsPerPage,
	}
}

// Selected returns the selected actor, or zero.
func (ab *ActorBrowser) Selected() stage.ActorId {
	return ab.selected
}

func (ab *ActorBrowser) Render() {
	if !imgui.BeginV("Actors", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &ab.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		ab.filterText = ""
	}

	actors := FilterActors(Snapshot(ab.stage), ab.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ActorTable", 5, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Actor ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Behaviors")
		imgui.TableSetupColumn("Position")
		imgui.TableSetupColumn("Rotation")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ab.sortColumn = int(spec.ColumnIndex())
			ab.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		SortActors(actors, ab.sortColumn, ab.sortAscending)

		startIdx := min(ab.currentPage*ab.maxActorsPerPage, len(actors))
		endIdx := min(startIdx+ab.maxActorsPerPage, len(actors))

		for _, actor := range actors[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := ab.selected == actor.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", actor.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ab.selected = actor.ID
			}

			imgui.TableNextColumn()
			imgui.Text(actor.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(actor.Behaviors)))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("(%.1f, %.1f)", actor.X, actor.Y))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f°", actor.Rotation))
		}

		imgui.EndTable()
	}

	if len(actors) > ab.maxActorsPerPage {
		totalPages := (len(actors) + ab.maxActorsPerPage - 1) / ab.maxActorsPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d actors)", ab.currentPage+1, totalPages, len(actors)))
		imgui.SameLine()
		if imgui.Button("Prev") && ab.currentPage > 0 {
			ab.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && ab.currentPage < totalPages-1 {
			ab.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d actors", len(actors)))
	}

	imgui.Separator()
	ab.renderSelected(actors)

	imgui.End()
}

func (ab *ActorBrowser) renderSelected(actors []ActorInfo) {
	for _, actor := range actors {
		if actor.ID != ab.selected {
			continue
		}

		imgui.Text(fmt.Sprintf("%s (#%d)", actor.Name, actor.ID))
		if len(actor.Behaviors) == 0 {
			imgui.Text("idle")
			return
		}

		for _, b := range actor.Behaviors {
			if imgui.TreeNodeStr(fmt.Sprintf("%s##%s", b.Type, b.Handle)) {
				imgui.BulletText("handle: " + b.Handle.String())
				imgui.BulletText("state: " + b.State)
				imgui.BulletText("writes: " + b.Claims.String())
				if imgui.Button("Cancel##" + b.Handle.String()) {
					ab.stage.Cancel(b.Handle)
				}
				imgui.TreePop()
			}
		}
		return
	}
}
