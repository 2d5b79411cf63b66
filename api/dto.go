package api

// Template actions
const (
	TemplateActionEnableDay  = "enable_day"
	TemplateActionDisableDay = "disable_day"
	TemplateActionSet        = "set"
	TemplateActionAdd        = "add"
	TemplateActionRemove     = "remove"
	TemplateActionEdit       = "edit"
)

// Override actions
const (
	OverrideActionAdd        = "add"
	OverrideActionRemove     = "remove"
	OverrideActionRemoveMany = "remove_many"
	OverrideActionEdit       = "edit"
	OverrideActionClear      = "clear"
	OverrideActionDisableDay = "disable_day"
	OverrideActionRevert     = "revert"
)

type TemplateActionRequest struct {
	Weekday int      `json:"weekday"`
	Action  string   `json:"action"`
	Time    string   `json:"time,omitempty"`
	NewTime string   `json:"new_time,omitempty"`
	Times   []string `json:"times,omitempty"`
}

type TemplateResponse struct {
	Weekday int      `json:"weekday"`
	Slots   []string `json:"slots"`
}

type OverrideActionRequest struct {
	Date    string   `json:"date"`
	Action  string   `json:"action"`
	Time    string   `json:"time,omitempty"`
	NewTime string   `json:"new_time,omitempty"`
	Times   []string `json:"times,omitempty"`
}

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

// OverrideState mirrors the persisted override entry for a date.
type OverrideState struct {
	Add    []string      `json:"add"`
	Remove []string      `json:"remove"`
	Edit   []EditPair    `json:"edit,omitempty"`
	Booked []BookedEntry `json:"booked,omitempty"`
}

// OverrideResponse carries the override entry after a mutation; State is
// nil when the date no longer has one.
type OverrideResponse struct {
	Date  string         `json:"date"`
	State *OverrideState `json:"state,omitempty"`
}

type ToggleDayRequest struct {
	Date    string `json:"date"`
	Enabled bool   `json:"enabled"`
}

type SlotView struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Source    string `json:"source,omitempty"`
}

type DayAvailability struct {
	Date    string     `json:"date"`
	DayName string     `json:"day_name"`
	Times   []SlotView `json:"times"`
}

// WeekView is ordered chronologically, today first.
type WeekView []DayAvailability

type SlotCheckResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type BookingRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
}

// CancelHandle uniquely identifies an appointment for cancellation.
type CancelHandle struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type BookingResponse struct {
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	Service      string       `json:"service"`
	Price        float64      `json:"price"`
	CancelHandle CancelHandle `json:"cancel_handle"`
}

type CancelRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
