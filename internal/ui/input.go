package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed

	justPressedTouchIDs = inpututil.AppendJustPressedTouchIDs
	touchPosition       = ebiten.TouchPosition
	isTouchJustReleased = inpututil.IsTouchJustReleased
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
	}
}

// SetTouchForTest replaces the touch functions during tests.
func SetTouchForTest(
	pressed func([]ebiten.TouchID) []ebiten.TouchID,
	pos func(ebiten.TouchID) (int, int),
	released func(ebiten.TouchID) bool,
) func() {
	oldPressed := justPressedTouchIDs
	oldPos := touchPosition
	oldReleased := isTouchJustReleased
	justPressedTouchIDs = pressed
	touchPosition = pos
	isTouchJustReleased = released
	return func() {
		justPressedTouchIDs = oldPressed
		touchPosition = oldPos
		isTouchJustReleased = oldReleased
	}
}
