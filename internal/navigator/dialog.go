package navigator

import "context"

// Dialog answers navigation warnings for a window.
// decided is false when the question should stay pending until the window
// is told through ConfirmNavigation or CancelNavigation.
type Dialog interface {
	Decide(ctx context.Context, message string) (proceed bool, decided bool)
}

// DialogFunc adapts a function to the Dialog interface.
type DialogFunc func(ctx context.Context, message string) (bool, bool)

// Decide calls f.
func (f DialogFunc) Decide(ctx context.Context, message string) (bool, bool) {
	return f(ctx, message)
}

// AlwaysProceed leaves pages without asking.
var AlwaysProceed Dialog = DialogFunc(func(context.Context, string) (bool, bool) {
	return true, true
})

// AlwaysStay refuses to leave pages that report a warning.
var AlwaysStay Dialog = DialogFunc(func(context.Context, string) (bool, bool) {
	return false, true
})

// pendingConfirmation is a navigation waiting for the user to answer a warning.
type pendingConfirmation struct {
	message string
	proceed func(context.Context) error
	cancel  func()
}
