package domain

// DialogMode represents the state of the product dialog workflow.
type DialogMode string

const (
	DialogClosed   DialogMode = "closed"
	DialogViewing  DialogMode = "viewing"
	DialogCreating DialogMode = "creating"
	DialogEditing  DialogMode = "editing"
)

// validDialogTransitions defines the allowed dialog state machine transitions.
// Any open mode can only go back to closed.
var validDialogTransitions = map[DialogMode][]DialogMode{
	DialogClosed:   {DialogViewing, DialogCreating, DialogEditing},
	DialogViewing:  {DialogClosed},
	DialogCreating: {DialogClosed},
	DialogEditing:  {DialogClosed},
}

// CanTransitionTo reports whether a transition from the current mode to next is valid.
func (m DialogMode) CanTransitionTo(next DialogMode) bool {
	for _, allowed := range validDialogTransitions[m] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReadOnly reports whether the mode renders fields without a submit action.
func (m DialogMode) ReadOnly() bool {
	return m == DialogViewing
}
