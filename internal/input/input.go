package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionQuit Action = iota
	ActionTogglePipeline
	ActionToggleCulling
	ActionReloadSettings
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionZoomIn
	ActionZoomOut
	ActionDrag
	ActionCount // Sentinel value for array sizing
)

// InputManager manages keyboard and mouse input state and maps physical keys/buttons to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// Cursor position and movement accumulated since the last PostUpdate
	cursor      [2]float64
	cursorDelta [2]float64
	hasCursor   bool
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyEscape, ActionQuit)
	im.BindKey(glfw.KeyP, ActionTogglePipeline)
	im.BindKey(glfw.KeyC, ActionToggleCulling)
	im.BindKey(glfw.KeyR, ActionReloadSettings)
	im.BindKey(glfw.KeyLeft, ActionOrbitLeft)
	im.BindKey(glfw.KeyA, ActionOrbitLeft)
	im.BindKey(glfw.KeyRight, ActionOrbitRight)
	im.BindKey(glfw.KeyD, ActionOrbitRight)
	im.BindKey(glfw.KeyUp, ActionOrbitUp)
	im.BindKey(glfw.KeyDown, ActionOrbitDown)
	im.BindKey(glfw.KeyW, ActionZoomIn)
	im.BindKey(glfw.KeyS, ActionZoomOut)

	im.BindMouseButton(glfw.MouseButtonLeft, ActionDrag)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// UnbindMouseButton removes all action bindings for a mouse button
func (im *InputManager) UnbindMouseButton(button glfw.MouseButton) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.mouseButtonToActions, button)
}

// HandleKeyEvent processes a key event and updates internal state
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	im.mu.RUnlock()

	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.mouseButtonToActions[button]
	im.mu.RUnlock()

	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press)
}

func (im *InputManager) apply(actions []Action, isPressed bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	for _, act := range actions {
		if act < 0 || act >= ActionCount {
			continue
		}
		// Detect edges immediately when event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// HandleCursorEvent records a cursor position. The first event only sets
// the reference position.
func (im *InputManager) HandleCursorEvent(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.hasCursor {
		im.cursorDelta[0] += x - im.cursor[0]
		im.cursorDelta[1] += y - im.cursor[1]
	}
	im.cursor = [2]float64{x, y}
	im.hasCursor = true
}

// CursorDelta returns the cursor movement since the last PostUpdate
func (im *InputManager) CursorDelta() (dx, dy float64) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cursorDelta[0], im.cursorDelta[1]
}

// Attach installs the key, mouse button and cursor callbacks on window.
// Call once during initialization.
func (im *InputManager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		im.HandleCursorEvent(x, y)
	})
}

// PostUpdate must be called at the end of each frame, after all input
// checks, to reset edge flags and cursor movement
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
	im.cursorDelta = [2]float64{}
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}
