package booking

// Interaction is the user-facing yes/no gate and acknowledgement channel.
// Confirm blocks until the user answers.
type Interaction interface {
	Confirm(question string) bool
	Notify(message string)
}

// Listener is told about every committed mutation so projections such as
// the on-screen list and the slot board stay in step with the map. Calls are
// made with the service lock held and must not call back into the Service.
type Listener interface {
	AppointmentBooked(a Appointment)
	AppointmentCancelled(a Appointment)
}

// Approve answers yes to every question and discards notifications.
type Approve struct{}

func (Approve) Confirm(string) bool { return true }
func (Approve) Notify(string)       {}

// Decline answers no to every question and discards notifications.
type Decline struct{}

func (Decline) Confirm(string) bool { return false }
func (Decline) Notify(string)       {}
