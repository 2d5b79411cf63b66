package models

// DayDisabledMarker inside an override's remove list means the whole day
// is suppressed regardless of template or added times.
const DayDisabledMarker = "__all__"

type SlotSource string

const (
	SourceBase     SlotSource = "base"
	SourceAdded    SlotSource = "added"
	SourceDisabled SlotSource = "disabled"
	SourceEdited   SlotSource = "edited"
	SourceBooked   SlotSource = "booked"
)

// WeeklySchedule maps weekday keys "0".."6" (0=Monday) to ascending
// unique HH:MM slot lists.
type WeeklySchedule map[string][]string

type EditPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type BookedEntry struct {
	Time    string `json:"time"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
}

// DayOverride is a date's adjustment layer on top of the weekly schedule.
// Edit and Booked stay absent from the document until first used.
type DayOverride struct {
	Add    []string      `json:"add"`
	Remove []string      `json:"remove"`
	Edit   []EditPair    `json:"edit,omitempty"`
	Booked []BookedEntry `json:"booked,omitempty"`
}

// Overrides maps "YYYY-MM-DD" dates to their override entry.
type Overrides map[string]*DayOverride

type Appointment struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Time    string  `json:"time"`
	Service string  `json:"service"`
	Price   float64 `json:"price"`
}

// Appointments maps "YYYY-MM-DD" dates to committed bookings.
type Appointments map[string][]Appointment

func NewDayOverride() *DayOverride {
	return &DayOverride{Add: []string{}, Remove: []string{}}
}

// FullyDisabled reports whether the remove list carries the day-disabling
// marker.
func (o *DayOverride) FullyDisabled() bool {
	if o == nil {
		return false
	}
	for _, t := range o.Remove {
		if t == DayDisabledMarker {
			return true
		}
	}
	return false
}

// Empty reports whether add, remove and edit are all empty. Booked is an
// audit mirror and does not keep an entry alive.
func (o *DayOverride) Empty() bool {
	if o == nil {
		return true
	}
	return len(o.Add) == 0 && len(o.Remove) == 0 && len(o.Edit) == 0
}

func (o *DayOverride) Clone() *DayOverride {
	if o == nil {
		return nil
	}
	clone := &DayOverride{
		Add:    append([]string{}, o.Add...),
		Remove: append([]string{}, o.Remove...),
	}
	if o.Edit != nil {
		clone.Edit = append([]EditPair{}, o.Edit...)
	}
	if o.Booked != nil {
		clone.Booked = append([]BookedEntry{}, o.Booked...)
	}
	return clone
}

func (s WeeklySchedule) Clone() WeeklySchedule {
	clone := make(WeeklySchedule, len(s))
	for day, times := range s {
		clone[day] = append([]string{}, times...)
	}
	return clone
}

func (o Overrides) Clone() Overrides {
	clone := make(Overrides, len(o))
	for date, entry := range o {
		clone[date] = entry.Clone()
	}
	return clone
}

func (a Appointments) Clone() Appointments {
	clone := make(Appointments, len(a))
	for date, list := range a {
		clone[date] = append([]Appointment{}, list...)
	}
	return clone
}
