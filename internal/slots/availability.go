package slots

// Lookup answers whether a doctor already has the slot on the date.
type Lookup interface {
	IsBooked(doctor, date, slot string) bool
}

// Slot is one classified entry of the daily schedule.
type Slot struct {
	Label     string `json:"time_slot"`
	Available bool   `json:"available"`
	Booked    bool   `json:"booked,omitempty"`
	Blocked   bool   `json:"blocked,omitempty"`
}

// Classify regenerates the schedule and marks every slot that is booked or
// blocked as unavailable. It never mutates the lookup.
func Classify(lookup Lookup, doctor, date string) []Slot {
	labels := Generate()
	out := make([]Slot, 0, len(labels))
	for _, label := range labels {
		s := Slot{Label: label}
		s.Blocked = label == BlockedSlot
		if lookup != nil {
			s.Booked = lookup.IsBooked(doctor, date, label)
		}
		s.Available = !s.Blocked && !s.Booked
		out = append(out, s)
	}
	return out
}
