// Package debugui provides a Dear ImGui overlay for inspecting a running stage:
// its actors, the behaviors attached to them and tick timings.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay collects ImGui render functions and runs them once per frame.
type Overlay struct {
	items []func()
	input InputState
}

// NewOverlay creates an overlay with the given render functions.
func NewOverlay(items ...func()) *Overlay {
	return &Overlay{items: items}
}

// Add appends a render function.
func (o *Overlay) Add(render func()) {
	o.items = append(o.items, render)
}

// Render updates the input state and runs every render function.
// It must be called between the backend's BeginFrame and EndFrame.
func (o *Overlay) Render() {
	io := imgui.CurrentIO()
	o.input.WantCaptureMouse = io.WantCaptureMouse()
	o.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, render := range o.items {
		render()
	}
}

// Input returns the input capture state of the last rendered frame.
func (o *Overlay) Input() InputState {
	return o.input
}
